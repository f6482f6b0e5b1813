package textproc

import "github.com/kljensen/snowball"

// Stem reduces word to its snowball stem for lang. Unknown languages or stemmer
// failures return the word unchanged.
func Stem(word string, lang Language) string {
	if lang == "" {
		lang = LangEnglish
	}
	stemmed, err := snowball.Stem(word, string(lang), true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}
