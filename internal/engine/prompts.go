package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func buildClassifyPrompt(text string, current []string) string {
	return fmt.Sprintf(`You are an assistant managing a user's personal item list.

%s

Interpret the user's request and output ONLY valid JSON with this exact structure (no markdown, no explanation):
{"intent": "add", "items": ["bread", "milk"], "from": "", "to": "", "filter": "", "reason": ""}

Rules:
- intent: one of "add", "remove", "update", "query", "unknown"
- "add": items = the new item contents, one entry per item the user mentioned
- "remove": items = the items to remove, using the current list's wording where possible
- "update": from = the existing item, to = its replacement; leave items empty
- "query": filter = an optional keyword narrowing what the user asked about
- "unknown": reason = one short sentence for the user explaining what you need
- If the request is ambiguous, use "unknown" and ask for clarification in reason
- If the request is unrelated to managing the item list, use "unknown" and say you only manage the list
- Never invent items the user did not mention

User request:
%s`, itemContext(current), truncateRunes(text, 2000))
}

func buildSuggestPrompt(added string, current []string, max int) string {
	return fmt.Sprintf(`You are an assistant managing a user's personal item list. The user just added "%s".

%s

Suggest up to %d related items the user might also want, such as complements or common companions of the new item.

Output ONLY valid JSON with this exact structure (no markdown, no explanation):
{"message": "People who add bread often also need these.", "items": ["butter", "jam"]}

Rules:
- items: short item names in the same style as the user's items
- Do not repeat anything already on the list
- message: one short friendly sentence introducing the suggestions
- If nothing useful comes to mind, return {"message": "", "items": []}`, added, itemContext(current), max)
}

// itemContext renders the user's current list for inclusion in a prompt.
func itemContext(current []string) string {
	if len(current) == 0 {
		return "The user currently has no items."
	}
	return "The user's current items:\n- " + strings.Join(current, "\n- ")
}

// truncateRunes truncates s to maxRunes runes (Unicode-safe).
func truncateRunes(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "\n... [truncated]"
}
