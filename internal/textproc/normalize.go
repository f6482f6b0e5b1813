// Package textproc provides the text preprocessing shared by every scoring signal:
// normalization, word segmentation, stopword removal, stemming and similarity math.
package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize applies Unicode normalization (NFKC) and converts to lowercase.
func Normalize(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// FoldAccents removes combining marks so "expérience" and "experience" compare equal.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Fold is Normalize followed by FoldAccents. Used for substring and set comparisons.
func Fold(s string) string {
	return FoldAccents(Normalize(s))
}

// StripSpecial replaces every rune that is not a letter, digit or whitespace with a space
// and collapses runs of whitespace.
func StripSpecial(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			space = false
			continue
		}
		if !space {
			sb.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(sb.String())
}

// Truncate bounds s to at most maxRunes runes without splitting a rune.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}
