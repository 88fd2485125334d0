package match

import (
	"strings"
	"unicode"
)

// affixes are dropped by NormalizeStripped, longest first.
var affixes = []string{"timestamp", "ids", "utc", "id", "at"}

// Normalize folds an identifier for fuzzy comparison: words are split on
// case changes and separators, lowercased and joined.
//
//	"OrderID"   -> "orderid"
//	"order_id"  -> "orderid"
//	"XMLParser" -> "xmlparser"
func Normalize(s string) string {
	return strings.Join(Words(s), "")
}

// NormalizeStripped is Normalize followed by removal of one trailing affix
// such as "id" or "at", unless that would leave nothing.
func NormalizeStripped(s string) string {
	n := Normalize(s)

	for _, a := range affixes {
		if len(n) > len(a) && strings.HasSuffix(n, a) {
			return strings.TrimSuffix(n, a)
		}
	}

	return n
}

// Words splits an identifier into lowercase words.
//
//	"getHTTPResponse" -> ["get", "http", "response"]
//	"price_cents"     -> ["price", "cents"]
func Words(s string) []string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	return words
}

func splitWords(s string) []string {
	var (
		words []string
		cur   []rune
	)

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && wordBoundary(runes, i) {
			flush()
		}

		cur = append(cur, r)
	}

	flush()

	return words
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// wordBoundary reports whether a new word starts at runes[i]: at a
// lower-to-upper transition or at the last capital of an acronym that is
// followed by a lowercase letter ("XMLParser" splits before 'P').
func wordBoundary(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return !isSeparator(prev)
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
