package transform

import "testing"

func TestChunksSplitsOnRunes(t *testing.T) {
	chunks := Chunks("привет мир", 6)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %v", chunks)
	}
	if chunks[0] != "привет" || chunks[1] != " мир" {
		t.Errorf("chunks = %q", chunks)
	}
}

func TestChunksShortText(t *testing.T) {
	chunks := Chunks("hi", 4096)
	if len(chunks) != 1 || chunks[0] != "hi" {
		t.Errorf("chunks = %q", chunks)
	}
}

func TestSmartTruncate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   string
	}{
		{"fits", "hello", 10, "hello"},
		{"cuts at space", "hello cruel world", 12, "hello cruel"},
		{"no space to cut at", "abcdefgh", 4, "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SmartTruncate(tt.text, tt.maxLen); got != tt.want {
				t.Errorf("SmartTruncate(%q, %d) = %q, want %q", tt.text, tt.maxLen, got, tt.want)
			}
		})
	}
}
