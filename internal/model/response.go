package model

// ItemView is the minimal item projection embedded in a Response.
type ItemView struct {
	Content string `json:"content"`
}

// Suggestion is a model-proposed, store-filtered list of items related to
// a just-added item. It is regenerated per successful addition and never
// persisted.
type Suggestion struct {
	Message    string   `json:"message"`
	Items      []string `json:"items"`
	SourceItem string   `json:"source_item,omitempty"`
}

// Response is the payload returned to the presentation layer for one
// handled request. System failures (model unavailable, store errors) are
// not encoded here; they travel as errors and become HTTP-level error
// payloads.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	ActionType ActionType  `json:"action_type"`
	Items      []ItemView  `json:"items,omitempty"`
	Suggestion *Suggestion `json:"suggestion,omitempty"`
}

// Views projects items onto the response shape.
func Views(items []Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, ItemView{Content: it.Content})
	}
	return out
}

// ContentViews projects bare content strings onto the response shape.
func ContentViews(contents []string) []ItemView {
	out := make([]ItemView, 0, len(contents))
	for _, c := range contents {
		out = append(out, ItemView{Content: c})
	}
	return out
}
