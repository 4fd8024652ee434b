package moderation

import (
	"regexp"
	"strconv"
	"unicode/utf8"
)

type TokenKind int

const (
	TokenCommand TokenKind = iota
	TokenTarget
	TokenDuration
	TokenReason
)

type TargetKind int

const (
	TargetMention TargetKind = iota
	TargetID
)

// Token is one lexeme of a moderation message. Text always carries the raw
// matched source; the remaining fields are populated per kind.
type Token struct {
	Kind TokenKind
	Text string

	Name string // TokenCommand: verb without the slash
	Bot  string // TokenCommand: @bot routing suffix, if present

	Target TargetKind // TokenTarget

	Count int  // TokenDuration
	Unit  byte // TokenDuration
}

var (
	commandPattern  = regexp.MustCompile(`^/([0-9a-zA-Z_]+)(@[0-9a-zA-Z_]+)?`)
	durationPattern = regexp.MustCompile(`^[1-9][0-9]*[smhdMy]`)
	mentionPattern  = regexp.MustCompile(`^@[a-zA-Z][a-zA-Z0-9_]{4,}`)
	idPattern       = regexp.MustCompile(`^[1-9][0-9]*`)
	reasonPattern   = regexp.MustCompile(`^[\p{L}\p{N}_][\p{L}\p{N}_ ]+[\p{L}\p{N}_]`)
)

// Tokenize scans text left to right. At each position the grammar
// alternatives are tried in a fixed order and the first that matches wins;
// a command is only recognized at the very start of the message. Positions
// that match nothing are skipped. Token order is source order, not
// grammatical order.
func Tokenize(text string) []Token {
	var tokens []Token

	pos := 0
	for pos < len(text) {
		rest := text[pos:]

		if pos == 0 {
			if m := commandPattern.FindStringSubmatch(rest); m != nil {
				tokens = append(tokens, Token{Kind: TokenCommand, Text: m[0], Name: m[1], Bot: m[2]})
				pos += len(m[0])
				continue
			}
		}

		if m := durationPattern.FindString(rest); m != "" {
			count, _ := strconv.Atoi(m[:len(m)-1])
			tokens = append(tokens, Token{Kind: TokenDuration, Text: m, Count: count, Unit: m[len(m)-1]})
			pos += len(m)
			continue
		}

		if m := mentionPattern.FindString(rest); m != "" {
			tokens = append(tokens, Token{Kind: TokenTarget, Text: m, Target: TargetMention})
			pos += len(m)
			continue
		}

		if m := idPattern.FindString(rest); m != "" {
			tokens = append(tokens, Token{Kind: TokenTarget, Text: m, Target: TargetID})
			pos += len(m)
			continue
		}

		if m := reasonPattern.FindString(rest); m != "" {
			tokens = append(tokens, Token{Kind: TokenReason, Text: m})
			pos += len(m)
			continue
		}

		_, size := utf8.DecodeRuneInString(rest)
		pos += size
	}

	return tokens
}
