package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yangwenmai/listdo/internal/model"
	"github.com/yangwenmai/listdo/internal/store"
)

// Executor applies classified intents to the item store. Every call runs in
// a single transaction so multi-item intents apply atomically.
type Executor struct {
	store  store.TxBeginner
	logger *zap.Logger
}

// New creates an Executor on top of the given store.
func New(st store.TxBeginner, logger *zap.Logger) *Executor {
	return &Executor{store: st, logger: logger}
}

// Execute applies intent to the owner's list and reports the outcome. The
// transaction commits only when a mutation was actually applied; every
// other path rolls back, so a failed multi-step intent leaves no trace.
func (e *Executor) Execute(ctx context.Context, owner string, intent model.Intent) (model.ExecutionResult, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return model.ExecutionResult{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	current, err := tx.ListItems(ctx, owner)
	if err != nil {
		return model.ExecutionResult{}, fmt.Errorf("list items: %w", err)
	}

	var res model.ExecutionResult
	switch intent.Kind {
	case model.IntentAdd:
		res, err = applyAdd(ctx, tx, owner, intent.Contents)
	case model.IntentRemove:
		res, err = applyRemove(ctx, tx, owner, intent.Matchers, current)
	case model.IntentUpdate:
		res, err = applyUpdate(ctx, tx, owner, intent.From, intent.To, current)
	case model.IntentQuery:
		res = applyQuery(intent.Filter, current)
	default:
		res = applyUnknown(intent.Reason)
	}
	if err != nil {
		return model.ExecutionResult{}, err
	}

	if res.ActionType == model.ActionMutation {
		after, err := tx.ListItems(ctx, owner)
		if err != nil {
			return model.ExecutionResult{}, fmt.Errorf("snapshot items: %w", err)
		}
		res.Snapshot = model.Contents(after)
		if err := tx.Commit(); err != nil {
			return model.ExecutionResult{}, fmt.Errorf("commit: %w", err)
		}
	} else {
		// Nothing was applied, so the pre-transaction view stays accurate.
		res.Snapshot = model.Contents(current)
	}

	e.logger.Debug("intent executed",
		zap.String("intent", string(intent.Kind)),
		zap.String("action", string(res.ActionType)),
		zap.Int("affected", len(res.AffectedItems)),
	)
	return res, nil
}

func applyAdd(ctx context.Context, tx *store.Tx, owner string, contents []string) (model.ExecutionResult, error) {
	if len(contents) == 0 {
		return applyUnknown("Nothing to add."), nil
	}

	var added []model.Item
	var present []string
	for _, content := range contents {
		item, err := tx.InsertItem(ctx, owner, content)
		if errors.Is(err, model.ErrDuplicateItem) {
			present = append(present, content)
			continue
		}
		if err != nil {
			return model.ExecutionResult{}, err
		}
		if err := tx.RecordChange(ctx, owner, model.ChangeAdd, item.Content); err != nil {
			return model.ExecutionResult{}, err
		}
		added = append(added, item)
	}

	if len(added) == 0 {
		return model.ExecutionResult{
			Success:    true,
			Message:    "Already on your list: " + joinItems(present) + ".",
			ActionType: model.ActionNone,
		}, nil
	}

	msg := "Added " + joinItems(model.Contents(added)) + " to your list."
	if len(present) > 0 {
		msg += " Already on your list: " + joinItems(present) + "."
	}
	return model.ExecutionResult{
		Success:       true,
		Message:       msg,
		ActionType:    model.ActionMutation,
		AffectedItems: added,
	}, nil
}

func applyRemove(ctx context.Context, tx *store.Tx, owner string, matchers []string, current []model.Item) (model.ExecutionResult, error) {
	if len(matchers) == 0 {
		return applyUnknown("Nothing to remove."), nil
	}

	byNorm := make(map[string]model.Item, len(current))
	for _, item := range current {
		byNorm[model.Normalize(item.Content)] = item
	}

	var removed []model.Item
	var missing []string
	seen := make(map[string]bool)
	for _, m := range matchers {
		norm := model.Normalize(m)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true

		item, ok := byNorm[norm]
		if !ok {
			missing = append(missing, m)
			continue
		}
		gone, err := tx.DeleteItem(ctx, owner, item.ID)
		if err != nil {
			return model.ExecutionResult{}, err
		}
		if !gone {
			missing = append(missing, m)
			continue
		}
		if err := tx.RecordChange(ctx, owner, model.ChangeRemove, item.Content); err != nil {
			return model.ExecutionResult{}, err
		}
		removed = append(removed, item)
	}

	if len(removed) == 0 {
		return model.ExecutionResult{
			Success:    false,
			Message:    "Could not find " + joinItems(missing) + " on your list.",
			ActionType: model.ActionNone,
		}, nil
	}

	msg := "Removed " + joinItems(model.Contents(removed)) + " from your list."
	if len(missing) > 0 {
		msg += " Not found: " + joinItems(missing) + "."
	}
	return model.ExecutionResult{
		Success:       true,
		Message:       msg,
		ActionType:    model.ActionMutation,
		AffectedItems: removed,
	}, nil
}

func applyUpdate(ctx context.Context, tx *store.Tx, owner, from, to string, current []model.Item) (model.ExecutionResult, error) {
	fromNorm := model.Normalize(from)
	var target *model.Item
	for i := range current {
		if model.Normalize(current[i].Content) == fromNorm {
			target = &current[i]
			break
		}
	}
	if target == nil {
		return model.ExecutionResult{
			Success:    false,
			Message:    fmt.Sprintf("Could not find %q on your list to update.", from),
			ActionType: model.ActionNone,
		}, nil
	}

	gone, err := tx.DeleteItem(ctx, owner, target.ID)
	if err != nil {
		return model.ExecutionResult{}, err
	}
	if !gone {
		return model.ExecutionResult{}, fmt.Errorf("update: item %s vanished mid-transaction", target.ID)
	}

	item, err := tx.InsertItem(ctx, owner, to)
	if errors.Is(err, model.ErrDuplicateItem) {
		// A different item already carries the new content. Reporting a
		// non-mutation outcome makes Execute roll the delete back too.
		return model.ExecutionResult{
			Success:    false,
			Message:    fmt.Sprintf("%q is already on your list.", to),
			ActionType: model.ActionNone,
		}, nil
	}
	if err != nil {
		return model.ExecutionResult{}, err
	}
	if err := tx.RecordChange(ctx, owner, model.ChangeRemove, target.Content); err != nil {
		return model.ExecutionResult{}, err
	}
	if err := tx.RecordChange(ctx, owner, model.ChangeAdd, item.Content); err != nil {
		return model.ExecutionResult{}, err
	}

	return model.ExecutionResult{
		Success:       true,
		Message:       fmt.Sprintf("Updated %q to %q.", target.Content, item.Content),
		ActionType:    model.ActionMutation,
		AffectedItems: []model.Item{item},
	}, nil
}

func applyQuery(filter string, current []model.Item) model.ExecutionResult {
	matched := current
	if f := model.Normalize(filter); f != "" {
		matched = nil
		for _, item := range current {
			if strings.Contains(model.Normalize(item.Content), f) {
				matched = append(matched, item)
			}
		}
	}

	var msg string
	switch {
	case len(current) == 0:
		msg = "Your list is empty."
	case filter != "" && len(matched) == 0:
		msg = fmt.Sprintf("Nothing on your list matches %q.", filter)
	case filter != "" && len(matched) == 1:
		msg = fmt.Sprintf("1 item matches %q.", filter)
	case filter != "":
		msg = fmt.Sprintf("%d items match %q.", len(matched), filter)
	case len(matched) == 1:
		msg = "You have 1 item on your list."
	default:
		msg = fmt.Sprintf("You have %d items on your list.", len(matched))
	}

	return model.ExecutionResult{
		Success:       true,
		Message:       msg,
		ActionType:    model.ActionQuery,
		AffectedItems: matched,
	}
}

func applyUnknown(reason string) model.ExecutionResult {
	msg := strings.TrimSpace(reason)
	if msg == "" {
		msg = "I did not understand that request."
	}
	return model.ExecutionResult{
		Success:    false,
		Message:    msg,
		ActionType: model.ActionNone,
	}
}

// joinItems renders a short human-readable list: "a", "a and b", "a, b and c".
func joinItems(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
