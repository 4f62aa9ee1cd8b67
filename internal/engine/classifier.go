package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yangwenmai/listdo/internal/model"
)

// Classifier turns free-form user text into a typed intent by consulting
// the language model.
type Classifier struct {
	model  ModelClient
	logger *zap.Logger
}

// NewClassifier creates a Classifier backed by the given model client.
func NewClassifier(mc ModelClient, logger *zap.Logger) *Classifier {
	return &Classifier{model: mc, logger: logger}
}

// intentPayload is the wire format the classify prompt asks the model for.
type intentPayload struct {
	Intent string   `json:"intent"`
	Items  []string `json:"items"`
	From   string   `json:"from"`
	To     string   `json:"to"`
	Filter string   `json:"filter"`
	Reason string   `json:"reason"`
}

const clarifyMessage = "I could not understand that request. Could you rephrase it?"

// Classify interprets text against the user's current items. A reply the
// model cannot express as a well-formed intent degrades to an unknown
// intent, not an error; a returned error means the model call itself failed.
func (c *Classifier) Classify(ctx context.Context, text string, current []string) (model.Intent, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Intent{}, model.ErrEmptyRequest
	}

	raw, err := c.model.Complete(ctx, buildClassifyPrompt(trimmed, current))
	if err != nil {
		// A rejected request (bad key, malformed call) is an operator
		// problem; only transient failures count as unavailability.
		var ae *apiError
		if errors.As(err, &ae) && !ae.isRetryable() {
			return model.Intent{}, fmt.Errorf("model request rejected: %w", err)
		}
		return model.Intent{}, fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
	}

	var payload intentPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		c.logger.Warn("model reply is not valid intent JSON",
			zap.Error(err),
			zap.Int("reply_len", len(raw)),
		)
		return model.UnknownIntent(clarifyMessage), nil
	}

	intent := payload.toIntent()
	c.logger.Debug("classified request",
		zap.String("intent", string(intent.Kind)),
		zap.Int("items", len(intent.Contents)+len(intent.Matchers)),
	)
	return intent, nil
}

// toIntent validates the payload per intent kind. Structurally invalid
// payloads degrade to an unknown intent asking the user to rephrase.
func (p intentPayload) toIntent() model.Intent {
	items := cleanItems(p.Items)

	switch p.Intent {
	case "add":
		if len(items) == 0 {
			return model.UnknownIntent(clarifyMessage)
		}
		return model.AddIntent(items...)
	case "remove":
		if len(items) == 0 {
			return model.UnknownIntent(clarifyMessage)
		}
		return model.RemoveIntent(items...)
	case "update":
		from := strings.TrimSpace(p.From)
		to := strings.TrimSpace(p.To)
		if from == "" || to == "" {
			return model.UnknownIntent(clarifyMessage)
		}
		return model.UpdateIntent(from, to)
	case "query":
		return model.QueryIntent(strings.TrimSpace(p.Filter))
	case "unknown":
		reason := strings.TrimSpace(p.Reason)
		if reason == "" {
			reason = clarifyMessage
		}
		return model.UnknownIntent(reason)
	default:
		return model.UnknownIntent(clarifyMessage)
	}
}

// cleanItems trims entries and drops empty ones.
func cleanItems(items []string) []string {
	var out []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
