package moderation

import (
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "Full moderation command",
			input: "/mute @johndoe 1h30m \"spam\"",
			expected: []Token{
				{Kind: TokenCommand, Text: "/mute", Name: "mute"},
				{Kind: TokenTarget, Text: "@johndoe", Target: TargetMention},
				{Kind: TokenDuration, Text: "1h", Count: 1, Unit: 'h'},
				{Kind: TokenDuration, Text: "30m", Count: 30, Unit: 'm'},
				{Kind: TokenReason, Text: "spam"},
			},
		},
		{
			name:  "Command with bot routing suffix and numeric id",
			input: "/ban@wardenbot 123456",
			expected: []Token{
				{Kind: TokenCommand, Text: "/ban@wardenbot", Name: "ban", Bot: "@wardenbot"},
				{Kind: TokenTarget, Text: "123456", Target: TargetID},
			},
		},
		{
			name:  "Command is only recognized at the start",
			input: "please /ban",
			expected: []Token{
				{Kind: TokenReason, Text: "please"},
				{Kind: TokenReason, Text: "ban"},
			},
		},
		{
			name:  "Short handle degrades to reason",
			input: "@bob",
			expected: []Token{
				{Kind: TokenReason, Text: "bob"},
			},
		},
		{
			name:  "Bare mention",
			input: "@johndoe",
			expected: []Token{
				{Kind: TokenTarget, Text: "@johndoe", Target: TargetMention},
			},
		},
		{
			name:  "Duration wins over id at the same position",
			input: "90d",
			expected: []Token{
				{Kind: TokenDuration, Text: "90d", Count: 90, Unit: 'd'},
			},
		},
		{
			name:  "Number without unit is an id",
			input: "90 days",
			expected: []Token{
				{Kind: TokenTarget, Text: "90", Target: TargetID},
				{Kind: TokenReason, Text: "days"},
			},
		},
		{
			name:  "Unicode reason with spaces is one fragment",
			input: "/warn @johndoe спам в чате",
			expected: []Token{
				{Kind: TokenCommand, Text: "/warn", Name: "warn"},
				{Kind: TokenTarget, Text: "@johndoe", Target: TargetMention},
				{Kind: TokenReason, Text: "спам в чате"},
			},
		},
		{
			name:     "Nothing lexable",
			input:    "?! ..",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("Tokenize(%q) produced %d tokens, want %d: %+v", tt.input, len(got), len(tt.expected), got)
			}
			for i, want := range tt.expected {
				if got[i] != want {
					t.Errorf("token %d = %+v, want %+v", i, got[i], want)
				}
			}
		})
	}
}
