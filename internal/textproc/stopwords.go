package textproc

import "strings"

// Language is a snowball stemmer language name.
type Language string

// Supported languages
const (
	LangEnglish Language = "english"
	LangFrench  Language = "french"
	LangSpanish Language = "spanish"
)

var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any", "are", "as",
	"at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by", "can", "could",
	"did", "do", "does", "doing", "down", "during", "each", "etc", "few", "for", "from", "further", "had", "has",
	"have", "having", "he", "her", "here", "hers", "him", "his", "how", "i", "if", "in", "into", "is", "it",
	"its", "just", "may", "me", "more", "most", "must", "my", "no", "nor", "not", "now", "of", "off", "on",
	"once", "only", "or", "other", "our", "ours", "out", "over", "own", "same", "she", "should", "so", "some",
	"such", "than", "that", "the", "their", "theirs", "them", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "us", "very", "was", "we", "were", "what", "when", "where",
	"which", "while", "who", "whom", "why", "will", "with", "within", "would", "you", "your", "yours",
}

var frenchStopwords = []string{
	"a", "afin", "ai", "au", "aux", "avec", "ce", "ces", "cette", "dans", "de", "des", "du", "elle", "elles",
	"en", "est", "et", "être", "eu", "il", "ils", "je", "la", "le", "les", "leur", "leurs", "lui", "ma", "mais",
	"me", "mes", "moi", "mon", "ne", "nos", "notre", "nous", "on", "ou", "où", "par", "pas", "pour", "qu", "que",
	"qui", "sa", "se", "ses", "son", "sont", "sur", "ta", "te", "tes", "toi", "ton", "tous", "tout", "tu", "un",
	"une", "vos", "votre", "vous", "été", "étaient", "était", "avons", "avez", "ont", "sera", "seront", "sans",
	"chez", "entre", "plus", "très", "ainsi", "comme", "dont", "y",
}

var spanishStopwords = []string{
	"al", "algo", "como", "con", "contra", "cual", "de", "del", "desde", "donde", "el", "ella", "ellas", "ellos",
	"en", "entre", "era", "es", "esa", "ese", "eso", "esta", "estas", "este", "esto", "estos", "fue", "ha",
	"hay", "la", "las", "le", "les", "lo", "los", "mas", "más", "mi", "muy", "nos", "nosotros", "o", "para",
	"pero", "por", "que", "se", "ser", "si", "sin", "sobre", "son", "su", "sus", "también", "tiene", "todo",
	"un", "una", "uno", "unos", "y", "ya", "yo",
}

var (
	stopwordsByLang = map[Language]map[string]struct{}{
		LangEnglish: toSet(englishStopwords),
		LangFrench:  toSet(frenchStopwords),
		LangSpanish: toSet(spanishStopwords),
	}
	allStopwords = toSet(append(append(append([]string{}, englishStopwords...), frenchStopwords...), spanishStopwords...))
	// detection order doubles as the tie-break order
	languageOrder = []Language{LangEnglish, LangFrench, LangSpanish}
)

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether tok (already lowercased) is a stopword in any supported language.
func IsStopword(tok string) bool {
	_, ok := allStopwords[tok]
	return ok
}

// DetectLanguage picks the language whose stopwords occur most often across texts.
// Texts are considered together so a job/candidate pair shares one stemmer.
// Defaults to English when nothing matches.
func DetectLanguage(texts ...string) Language {
	counts := make(map[Language]int, len(languageOrder))
	for _, text := range texts {
		for _, tok := range Tokenize(strings.ToLower(text)) {
			for _, lang := range languageOrder {
				if _, ok := stopwordsByLang[lang][tok]; ok {
					counts[lang]++
				}
			}
		}
	}

	best := LangEnglish
	bestCount := 0
	for _, lang := range languageOrder {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}
	return best
}
