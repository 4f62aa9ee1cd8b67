package model

import "testing"

func TestIntentConstructors(t *testing.T) {
	add := AddIntent("bread", "milk")
	if add.Kind != IntentAdd || len(add.Contents) != 2 {
		t.Errorf("AddIntent = %+v", add)
	}

	rm := RemoveIntent("cheese")
	if rm.Kind != IntentRemove || len(rm.Matchers) != 1 {
		t.Errorf("RemoveIntent = %+v", rm)
	}

	up := UpdateIntent("bread", "sourdough bread")
	if up.Kind != IntentUpdate || up.From != "bread" || up.To != "sourdough bread" {
		t.Errorf("UpdateIntent = %+v", up)
	}

	q := QueryIntent("dairy")
	if q.Kind != IntentQuery || q.Filter != "dairy" {
		t.Errorf("QueryIntent = %+v", q)
	}

	unk := UnknownIntent("no action field")
	if unk.Kind != IntentUnknown || unk.Reason != "no action field" {
		t.Errorf("UnknownIntent = %+v", unk)
	}
}

func TestViews(t *testing.T) {
	items := []Item{NewItem("1", "a", "bread"), NewItem("2", "a", "milk")}
	views := Views(items)
	if len(views) != 2 || views[0].Content != "bread" {
		t.Errorf("Views = %v", views)
	}
}
