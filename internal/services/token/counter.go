// File: internal/services/token/counter.go
package token

import "unicode"

// Estimate returns a deterministic token-cost heuristic for a text span.
//
// It is a budget heuristic, not a vendor tokenizer: the only contract is
// that it is deterministic, non-negative, and never decreases when text is
// appended, so truncation decisions are stable. Cost is accumulated in
// quarter-tokens from a fixed per-rune weight table, roughly matching the
// common "four characters per token" rule for English while charging more
// for digits, symbols and non-Latin script.
func Estimate(text string) int {
	if text == "" {
		return 0
	}

	quarters := 0
	for _, r := range text {
		quarters += runeWeight(r)
	}

	// Round up so a non-empty span never costs zero.
	return (quarters + quartersPerToken - 1) / quartersPerToken
}

// EstimateTurn estimates one conversational turn: the text itself plus a
// fixed per-turn overhead for role framing.
func EstimateTurn(text string) int {
	return Estimate(text) + turnOverheadTokens
}

const (
	quartersPerToken   = 4
	turnOverheadTokens = 4
)

// runeWeight is the fixed sub-word cost table, in quarter-tokens.
func runeWeight(r rune) int {
	switch {
	case r == ' ' || r == '\n' || r == '\t':
		return 1
	case r < 128 && (unicode.IsLetter(r)):
		return 1
	case r < 128 && unicode.IsDigit(r):
		return 2
	case r < 128:
		// ASCII punctuation and control characters tokenize poorly.
		return 2
	case unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r):
		// CJK is roughly one token per character.
		return 4
	default:
		return 3
	}
}
