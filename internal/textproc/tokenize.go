package textproc

import (
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
)

// minTokenLen is the shortest token kept by Preprocess; shorter tokens carry no signal.
const minTokenLen = 3

// Tokenize splits text into word tokens using UAX#29 word segmentation.
// Whitespace and punctuation segments are dropped.
func Tokenize(s string) []string {
	toks := words.FromString(s)
	var tokens []string
	for toks.Next() {
		tok := toks.Value()
		if isWord(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Preprocess lowercases, strips punctuation, tokenizes, removes stopwords and stems s
// using lang. Tokens of minTokenLen-1 runes or fewer, and purely numeric tokens, are dropped.
func Preprocess(s string, lang Language) []string {
	cleaned := StripSpecial(Normalize(s))
	raw := Tokenize(cleaned)

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if IsStopword(tok) || isNumeric(tok) || utf8.RuneCountInString(tok) < minTokenLen {
			continue
		}
		stem := Stem(tok, lang)
		if utf8.RuneCountInString(stem) < minTokenLen {
			continue
		}
		tokens = append(tokens, stem)
	}
	return tokens
}

func isWord(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return tok != ""
}
