package engine

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/yangwenmai/listdo/internal/model"
)

// The stub has to produce replies the classifier and suggester accept, so
// exercise it through them.
func TestStubModelClient_Classify(t *testing.T) {
	c := NewClassifier(&StubModelClient{}, zap.NewNop())
	ctx := context.Background()

	in, err := c.Classify(ctx, "add bread and milk", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if in.Kind != model.IntentAdd {
		t.Fatalf("Kind = %q, want add", in.Kind)
	}
	if len(in.Contents) != 2 || in.Contents[0] != "bread" || in.Contents[1] != "milk" {
		t.Errorf("Contents = %v, want [bread milk]", in.Contents)
	}

	in, err = c.Classify(ctx, "remove bread", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if in.Kind != model.IntentRemove {
		t.Errorf("Kind = %q, want remove", in.Kind)
	}

	in, err = c.Classify(ctx, "change milk to oat milk", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if in.Kind != model.IntentUpdate || in.From != "milk" || in.To != "oat milk" {
		t.Errorf("intent = %+v, want update milk -> oat milk", in)
	}

	in, err = c.Classify(ctx, "what is on my list?", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if in.Kind != model.IntentQuery {
		t.Errorf("Kind = %q, want query", in.Kind)
	}

	in, err = c.Classify(ctx, "sing me a song", nil)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if in.Kind != model.IntentUnknown {
		t.Errorf("Kind = %q, want unknown", in.Kind)
	}
}

func TestStubModelClient_Suggest(t *testing.T) {
	s := NewSuggester(&StubModelClient{}, 4, zap.NewNop())

	got := s.Suggest(context.Background(), "bread", []string{"bread"})
	if got == nil {
		t.Fatal("expected a stub suggestion")
	}
	if len(got.Items) == 0 {
		t.Error("expected at least one suggested item")
	}
}
