package engine

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"intent":"add"}`,
			want: `{"intent":"add"}`,
		},
		{
			name: "fenced json",
			in:   "```json\n{\"intent\":\"add\"}\n```",
			want: `{"intent":"add"}`,
		},
		{
			name: "fenced without language",
			in:   "```\n{\"intent\":\"query\"}\n```",
			want: `{"intent":"query"}`,
		},
		{
			name: "surrounding prose",
			in:   "Here is the result:\n{\"intent\":\"remove\"}\nHope that helps!",
			want: `{"intent":"remove"}`,
		},
		{
			name: "nested braces",
			in:   `{"a":{"b":1},"c":2}`,
			want: `{"a":{"b":1},"c":2}`,
		},
		{
			name: "braces inside strings",
			in:   `{"reason":"use {curly} braces"}`,
			want: `{"reason":"use {curly} braces"}`,
		},
		{
			name: "escaped quote inside string",
			in:   `{"reason":"he said \"go\" loudly"}`,
			want: `{"reason":"he said \"go\" loudly"}`,
		},
		{
			name: "no object at all",
			in:   "sorry, I cannot help with that",
			want: "sorry, I cannot help with that",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
