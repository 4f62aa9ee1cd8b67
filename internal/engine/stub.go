package engine

import (
	"context"
	"encoding/json"
	"strings"
)

// StubModelClient returns canned replies so the server can run without an
// API key. A few keyword heuristics keep manual testing useful.
type StubModelClient struct{}

func (m *StubModelClient) Complete(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Interpret the user's request") {
		return stubClassify(prompt), nil
	}
	if strings.Contains(prompt, "Suggest up to") {
		b, _ := json.Marshal(suggestionPayload{
			Message: "You might also want these.",
			Items:   []string{"stub suggestion"},
		})
		return string(b), nil
	}
	return "{}", nil
}

// stubClassify recovers the user text from the prompt tail and maps a few
// leading verbs onto intents.
func stubClassify(prompt string) string {
	text := ""
	if idx := strings.LastIndex(prompt, "User request:"); idx >= 0 {
		text = strings.TrimSpace(prompt[idx+len("User request:"):])
	}
	lower := strings.ToLower(text)

	payload := intentPayload{
		Intent: "unknown",
		Reason: "I could not tell what you want to do with your list.",
	}
	switch {
	case strings.HasPrefix(lower, "add "):
		payload = intentPayload{Intent: "add", Items: splitStubItems(text[len("add "):])}
	case strings.HasPrefix(lower, "remove "):
		payload = intentPayload{Intent: "remove", Items: splitStubItems(text[len("remove "):])}
	case strings.HasPrefix(lower, "delete "):
		payload = intentPayload{Intent: "remove", Items: splitStubItems(text[len("delete "):])}
	case strings.HasPrefix(lower, "change "):
		if from, to, ok := strings.Cut(text[len("change "):], " to "); ok {
			payload = intentPayload{Intent: "update", From: strings.TrimSpace(from), To: strings.TrimSpace(to)}
		}
	case strings.HasPrefix(lower, "what"), strings.HasPrefix(lower, "show"), strings.HasPrefix(lower, "list"):
		payload = intentPayload{Intent: "query"}
	}

	b, _ := json.Marshal(payload)
	return string(b)
}

// splitStubItems splits "bread, milk and eggs" style enumerations.
func splitStubItems(s string) []string {
	s = strings.ReplaceAll(s, " and ", ",")
	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
