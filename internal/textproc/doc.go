package textproc

import (
	"strings"
	"unicode/utf8"
)

// ShortTermLen is the longest term matched on whole-word boundaries rather than as a substring,
// so acronyms like "api" or "hr" do not match inside "capital" or "three".
const ShortTermLen = 3

// Doc is a folded text with its word tokens, prepared once for repeated term lookups.
type Doc struct {
	Text  string
	Words []string
	set   map[string]struct{}
}

// NewDoc folds and tokenizes text.
func NewDoc(text string) Doc {
	folded := Fold(text)
	words := Tokenize(folded)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return Doc{Text: folded, Words: words, set: set}
}

// Contains reports whether the folded term occurs in the document.
func (d Doc) Contains(term string) bool {
	if term == "" {
		return false
	}
	if utf8.RuneCountInString(term) <= ShortTermLen {
		_, ok := d.set[term]
		return ok
	}
	return strings.Contains(d.Text, term)
}

// HasWord reports whether w is one of the document's tokens.
func (d Doc) HasWord(w string) bool {
	_, ok := d.set[w]
	return ok
}

// Empty reports whether the document has no tokens.
func (d Doc) Empty() bool {
	return len(d.Words) == 0
}
