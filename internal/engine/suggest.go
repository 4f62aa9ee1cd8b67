package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yangwenmai/listdo/internal/model"
)

// defaultMaxSuggestions bounds how many related items one reply may carry.
const defaultMaxSuggestions = 4

// Suggester proposes related items after a successful add.
type Suggester struct {
	model  ModelClient
	max    int
	logger *zap.Logger
}

// NewSuggester creates a Suggester. A non-positive max selects the default
// suggestion cap.
func NewSuggester(mc ModelClient, max int, logger *zap.Logger) *Suggester {
	if max <= 0 {
		max = defaultMaxSuggestions
	}
	return &Suggester{model: mc, max: max, logger: logger}
}

// suggestionPayload is the wire format the suggest prompt asks the model for.
type suggestionPayload struct {
	Message string   `json:"message"`
	Items   []string `json:"items"`
}

// Suggest returns related-item ideas for the most recently added item, or
// nil when the model has nothing useful or cannot be reached. Suggestions
// are advisory, so failures are logged and swallowed.
func (s *Suggester) Suggest(ctx context.Context, added string, current []string) *model.Suggestion {
	raw, err := s.model.Complete(ctx, buildSuggestPrompt(added, current, s.max))
	if err != nil {
		s.logger.Warn("suggestion lookup failed", zap.Error(err))
		return nil
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		s.logger.Warn("model reply is not valid suggestion JSON", zap.Error(err))
		return nil
	}

	have := make(map[string]bool, len(current))
	for _, c := range current {
		have[model.Normalize(c)] = true
	}

	var items []string
	seen := make(map[string]bool)
	for _, it := range payload.Items {
		it = strings.TrimSpace(it)
		norm := model.Normalize(it)
		if it == "" || have[norm] || seen[norm] {
			continue
		}
		seen[norm] = true
		items = append(items, it)
		if len(items) == s.max {
			break
		}
	}
	if len(items) == 0 {
		return nil
	}

	msg := strings.TrimSpace(payload.Message)
	if msg == "" {
		msg = fmt.Sprintf("Since you added %q, you might also want:", added)
	}
	return &model.Suggestion{Message: msg, Items: items, SourceItem: added}
}
