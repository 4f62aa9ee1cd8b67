package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yangwenmai/listdo/internal/engine"
	"github.com/yangwenmai/listdo/internal/executor"
	"github.com/yangwenmai/listdo/internal/model"
	"github.com/yangwenmai/listdo/internal/store"
)

// defaultModelTimeout bounds each outbound model call.
const defaultModelTimeout = 30 * time.Second

// Assistant orchestrates one natural-language request end to end:
// classify the text, execute the resulting intent, then optionally ask for
// related-item suggestions.
type Assistant struct {
	items      store.ItemReader
	classifier *engine.Classifier
	executor   *executor.Executor
	suggester  *engine.Suggester
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates an Assistant. A non-positive timeout selects the default
// per-call model timeout.
func New(items store.ItemReader, cl *engine.Classifier, ex *executor.Executor, sg *engine.Suggester, timeout time.Duration, logger *zap.Logger) *Assistant {
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &Assistant{
		items:      items,
		classifier: cl,
		executor:   ex,
		suggester:  sg,
		timeout:    timeout,
		logger:     logger,
	}
}

// Handle processes one user request. Errors it returns are system
// failures: model.ErrEmptyRequest for blank input, model.ErrModelUnavailable
// when the language model cannot be reached, anything else a store failure.
// Business outcomes, including "I did not understand", come back as a
// Response with Success=false.
func (a *Assistant) Handle(ctx context.Context, owner, text string) (model.Response, error) {
	if strings.TrimSpace(text) == "" {
		return model.Response{}, model.ErrEmptyRequest
	}

	// Snapshot for the prompt. Reading outside the executor's transaction
	// is fine: the uniqueness constraint still guards racing writers.
	current, err := a.items.ListItems(ctx, owner)
	if err != nil {
		return model.Response{}, fmt.Errorf("list items: %w", err)
	}

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	intent, err := a.classifier.Classify(cctx, text, model.Contents(current))
	cancel()
	if err != nil {
		return model.Response{}, err
	}

	res, err := a.executor.Execute(ctx, owner, intent)
	if err != nil {
		return model.Response{}, fmt.Errorf("execute %s intent: %w", intent.Kind, err)
	}

	resp := model.Response{
		Success:    res.Success,
		Message:    res.Message,
		ActionType: res.ActionType,
	}
	switch res.ActionType {
	case model.ActionQuery:
		resp.Items = model.Views(res.AffectedItems)
	case model.ActionMutation:
		resp.Items = model.ContentViews(res.Snapshot)
	}

	if intent.Kind == model.IntentAdd && res.ActionType == model.ActionMutation && len(res.AffectedItems) > 0 {
		added := res.AffectedItems[len(res.AffectedItems)-1].Content
		sctx, cancel := context.WithTimeout(ctx, a.timeout)
		resp.Suggestion = a.suggester.Suggest(sctx, added, res.Snapshot)
		cancel()
	}

	a.logger.Info("request handled",
		zap.String("owner", owner),
		zap.String("intent", string(intent.Kind)),
		zap.String("action", string(resp.ActionType)),
		zap.Bool("success", resp.Success),
	)
	return resp, nil
}
