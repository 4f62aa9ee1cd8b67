package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yangwenmai/listdo/internal/engine"
	"github.com/yangwenmai/listdo/internal/executor"
	"github.com/yangwenmai/listdo/internal/model"
	"github.com/yangwenmai/listdo/internal/store"
)

// scriptedModel routes by prompt kind so one fake serves both the
// classifier and the suggester.
type scriptedModel struct {
	classifyReply string
	classifyErr   error
	suggestReply  string
	suggestErr    error
	classifyCalls int
	suggestCalls  int
}

func (m *scriptedModel) Complete(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Suggest up to") {
		m.suggestCalls++
		if m.suggestErr != nil {
			return "", m.suggestErr
		}
		return m.suggestReply, nil
	}
	m.classifyCalls++
	if m.classifyErr != nil {
		return "", m.classifyErr
	}
	return m.classifyReply, nil
}

func newTestAssistant(t *testing.T, mc engine.ModelClient) (*Assistant, *store.Store) {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := store.New(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	logger := zap.NewNop()
	a := New(s,
		engine.NewClassifier(mc, logger),
		executor.New(s, logger),
		engine.NewSuggester(mc, 4, logger),
		0,
		logger,
	)
	return a, s
}

func TestHandle_AddWithSuggestion(t *testing.T) {
	m := &scriptedModel{
		classifyReply: `{"intent":"add","items":["bread","milk"]}`,
		suggestReply:  `{"message":"You might also want:","items":["butter","milk"]}`,
	}
	a, s := newTestAssistant(t, m)

	resp, err := a.Handle(context.Background(), "alice", "add bread and milk")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !resp.Success || resp.ActionType != model.ActionMutation {
		t.Errorf("resp = %+v, want successful mutation", resp)
	}
	if len(resp.Items) != 2 {
		t.Errorf("Items = %v, want the refreshed two-item list", resp.Items)
	}
	if resp.Suggestion == nil {
		t.Fatal("expected a suggestion after a successful add")
	}
	// "milk" was just added, so only "butter" survives the filter.
	if len(resp.Suggestion.Items) != 1 || resp.Suggestion.Items[0] != "butter" {
		t.Errorf("Suggestion.Items = %v, want [butter]", resp.Suggestion.Items)
	}
	if resp.Suggestion.SourceItem != "milk" {
		t.Errorf("SourceItem = %q, want the last added item", resp.Suggestion.SourceItem)
	}
	if m.suggestCalls != 1 {
		t.Errorf("suggest calls = %d, want exactly 1", m.suggestCalls)
	}

	items, _ := s.ListItems(context.Background(), "alice")
	if len(items) != 2 {
		t.Errorf("stored items = %d, want 2", len(items))
	}
}

func TestHandle_EmptyText(t *testing.T) {
	m := &scriptedModel{}
	a, _ := newTestAssistant(t, m)

	for _, text := range []string{"", "   ", "\n"} {
		_, err := a.Handle(context.Background(), "alice", text)
		if !errors.Is(err, model.ErrEmptyRequest) {
			t.Errorf("Handle(%q) err = %v, want ErrEmptyRequest", text, err)
		}
	}
	if m.classifyCalls != 0 {
		t.Errorf("classify calls = %d, want 0 for empty text", m.classifyCalls)
	}
}

func TestHandle_UnknownIntent(t *testing.T) {
	m := &scriptedModel{classifyReply: `{"intent":"unknown","reason":"I only manage your item list."}`}
	a, s := newTestAssistant(t, m)

	resp, err := a.Handle(context.Background(), "alice", "what's the weather like?")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.ActionType != model.ActionNone {
		t.Errorf("ActionType = %q, want none", resp.ActionType)
	}
	if resp.Message != "I only manage your item list." {
		t.Errorf("Message = %q", resp.Message)
	}
	if resp.Suggestion != nil {
		t.Error("Suggestion should be nil for an unknown intent")
	}
	if m.suggestCalls != 0 {
		t.Errorf("suggest calls = %d, want 0", m.suggestCalls)
	}

	items, _ := s.ListItems(context.Background(), "alice")
	if len(items) != 0 {
		t.Errorf("stored items = %d, store must be unchanged", len(items))
	}
}

func TestHandle_ModelUnavailable(t *testing.T) {
	m := &scriptedModel{classifyErr: errors.New("connection refused")}
	a, s := newTestAssistant(t, m)

	_, err := a.Handle(context.Background(), "alice", "add milk")
	if !errors.Is(err, model.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}

	items, _ := s.ListItems(context.Background(), "alice")
	if len(items) != 0 {
		t.Errorf("stored items = %d, store must be unchanged", len(items))
	}
}

func TestHandle_ModelTimeout(t *testing.T) {
	a, _ := newTestAssistant(t, blockingModel{})
	a.timeout = 20 * time.Millisecond

	_, err := a.Handle(context.Background(), "alice", "add milk")
	if !errors.Is(err, model.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable on timeout", err)
	}
}

// blockingModel never answers until the context gives up.
type blockingModel struct{}

func (blockingModel) Complete(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestHandle_RemoveHasNoSuggestion(t *testing.T) {
	m := &scriptedModel{classifyReply: `{"intent":"add","items":["milk"]}`, suggestReply: `{"message":"","items":[]}`}
	a, _ := newTestAssistant(t, m)
	if _, err := a.Handle(context.Background(), "alice", "add milk"); err != nil {
		t.Fatalf("seed add: %v", err)
	}

	m.classifyReply = `{"intent":"remove","items":["milk"]}`
	suggestsBefore := m.suggestCalls

	resp, err := a.Handle(context.Background(), "alice", "remove milk")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !resp.Success || resp.ActionType != model.ActionMutation {
		t.Errorf("resp = %+v, want successful mutation", resp)
	}
	if resp.Suggestion != nil {
		t.Error("Suggestion should be nil for a remove")
	}
	if m.suggestCalls != suggestsBefore {
		t.Errorf("suggest calls grew to %d, removals must not trigger suggestions", m.suggestCalls)
	}
	if len(resp.Items) != 0 {
		t.Errorf("Items = %v, want the now-empty list", resp.Items)
	}
}

func TestHandle_DuplicateAddHasNoSuggestion(t *testing.T) {
	m := &scriptedModel{classifyReply: `{"intent":"add","items":["milk"]}`, suggestReply: `{"message":"","items":[]}`}
	a, _ := newTestAssistant(t, m)
	if _, err := a.Handle(context.Background(), "alice", "add milk"); err != nil {
		t.Fatalf("seed add: %v", err)
	}
	suggestsBefore := m.suggestCalls

	resp, err := a.Handle(context.Background(), "alice", "add milk")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.ActionType != model.ActionNone {
		t.Errorf("ActionType = %q, want none for an all-duplicate add", resp.ActionType)
	}
	if resp.Suggestion != nil || m.suggestCalls != suggestsBefore {
		t.Error("an all-duplicate add must not trigger a suggestion")
	}
}

func TestHandle_SuggestionFailureDoesNotFailRequest(t *testing.T) {
	m := &scriptedModel{
		classifyReply: `{"intent":"add","items":["bread"]}`,
		suggestErr:    errors.New("timeout"),
	}
	a, _ := newTestAssistant(t, m)

	resp, err := a.Handle(context.Background(), "alice", "add bread")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !resp.Success || resp.ActionType != model.ActionMutation {
		t.Errorf("resp = %+v, want successful mutation despite suggestion failure", resp)
	}
	if resp.Suggestion != nil {
		t.Error("Suggestion should be nil when the lookup fails")
	}
}

func TestHandle_Query(t *testing.T) {
	m := &scriptedModel{classifyReply: `{"intent":"add","items":["milk","bread"]}`, suggestReply: `{"message":"","items":[]}`}
	a, _ := newTestAssistant(t, m)
	if _, err := a.Handle(context.Background(), "alice", "add milk and bread"); err != nil {
		t.Fatalf("seed add: %v", err)
	}

	m.classifyReply = `{"intent":"query"}`
	resp, err := a.Handle(context.Background(), "alice", "what is on my list?")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !resp.Success || resp.ActionType != model.ActionQuery {
		t.Errorf("resp = %+v, want query", resp)
	}
	if len(resp.Items) != 2 {
		t.Errorf("Items = %v, want two entries", resp.Items)
	}
	if resp.Suggestion != nil {
		t.Error("Suggestion should be nil for a query")
	}
}
