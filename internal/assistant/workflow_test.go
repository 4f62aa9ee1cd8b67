package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yangwenmai/listdo/internal/model"
)

// queueModel replays classify replies in order; the suggester always gets
// the same canned reply.
type queueModel struct {
	replies []string
	suggest string
}

func (m *queueModel) Complete(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Suggest up to") {
		if m.suggest == "" {
			return `{"message":"","items":[]}`, nil
		}
		return m.suggest, nil
	}
	if len(m.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r, nil
}

// TestFullWorkflow exercises a full conversation against one list:
// add → duplicate add → query → update → remove → audit trail.
func TestFullWorkflow(t *testing.T) {
	m := &queueModel{
		replies: []string{
			`{"intent":"add","items":["milk","bread"]}`,
			`{"intent":"add","items":["Milk"]}`,
			`{"intent":"query"}`,
			`{"intent":"update","from":"bread","to":"sourdough"}`,
			`{"intent":"remove","items":["milk"]}`,
		},
		suggest: `{"message":"You might also want:","items":["butter"]}`,
	}
	a, s := newTestAssistant(t, m)
	ctx := context.Background()
	owner := "workflow-user"

	// 1. Add two items; the suggestion rides along.
	resp, err := a.Handle(ctx, owner, "add milk and bread")
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, model.ActionMutation, resp.ActionType)
	require.Len(t, resp.Items, 2)
	require.NotNil(t, resp.Suggestion)
	require.Equal(t, []string{"butter"}, resp.Suggestion.Items)

	// 2. Adding the same item again changes nothing.
	resp, err = a.Handle(ctx, owner, "add milk")
	require.NoError(t, err)
	require.Equal(t, model.ActionNone, resp.ActionType)
	require.Nil(t, resp.Suggestion)

	items, err := s.ListItems(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// 3. Query sees both items.
	resp, err = a.Handle(ctx, owner, "what is on my list?")
	require.NoError(t, err)
	require.Equal(t, model.ActionQuery, resp.ActionType)
	require.Len(t, resp.Items, 2)

	// 4. Update rewrites bread in place.
	resp, err = a.Handle(ctx, owner, "change bread to sourdough")
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, model.ActionMutation, resp.ActionType)

	items, err = s.ListItems(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, []string{"milk", "sourdough"}, model.Contents(items))

	// 5. Remove milk.
	resp, err = a.Handle(ctx, owner, "remove milk")
	require.NoError(t, err)
	require.True(t, resp.Success)

	items, err = s.ListItems(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, []string{"sourdough"}, model.Contents(items))

	// 6. Every mutation landed in the audit trail:
	// two adds, then remove+add for the update, then the final remove.
	changes, err := s.ListChanges(ctx, owner, 0)
	require.NoError(t, err)
	require.Len(t, changes, 5)
	require.Equal(t, model.ChangeRemove, changes[0].Action)
	require.Equal(t, "milk", changes[0].Content)
}
