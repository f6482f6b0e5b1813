// Package education parses diploma levels and decides whether two diplomas are equivalent.
package education

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/match-engine/internal/textproc"
)

// Level is the number of years of study after the baccalaureate (Bac+N).
type Level int

// Named levels on the ladder
const (
	LevelBac       Level = 0
	LevelAssociate Level = 2
	LevelBachelor  Level = 3
	LevelMaster1   Level = 4
	LevelMaster    Level = 5
	LevelDoctorate Level = 8
)

var bacPlusRe = regexp.MustCompile(`bac\s*\+\s*(\d{1,2})`)

// butRe matches the BUT diploma acronym. It runs on the unfolded text because "but" is also
// an English conjunction.
var butRe = regexp.MustCompile(`\bBUT\b`)

// degreeTerms maps folded degree names to their level. Terms of up to three runes must be whole
// words; longer ones match as substrings.
var degreeTerms = []struct {
	term  string
	level Level
}{
	{"phd", LevelDoctorate},
	{"ph.d", LevelDoctorate},
	{"doctorat", LevelDoctorate},
	{"doctorate", LevelDoctorate},
	{"doctor", LevelDoctorate},
	{"master", LevelMaster},
	{"msc", LevelMaster},
	{"mba", LevelMaster},
	{"m2", LevelMaster},
	{"dea", LevelMaster},
	{"dess", LevelMaster},
	{"ingenieur", LevelMaster},
	{"engineering degree", LevelMaster},
	{"grande ecole", LevelMaster},
	{"m1", LevelMaster1},
	{"maitrise", LevelMaster1},
	{"licence", LevelBachelor},
	{"bachelor", LevelBachelor},
	{"bsc", LevelBachelor},
	{"ba", LevelBachelor},
	{"bts", LevelAssociate},
	{"dut", LevelAssociate},
	{"deug", LevelAssociate},
	{"associate", LevelAssociate},
	{"baccalaureat", LevelBac},
	{"baccalaureate", LevelBac},
	{"bac", LevelBac},
	{"high school", LevelBac},
}

// ParseLevel extracts a diploma level from free text such as "Bac+5", "Master 2 Finance" or
// "PhD". When several degrees are mentioned the highest wins. ok is false when nothing
// recognisable was found.
func ParseLevel(s string) (Level, bool) {
	folded := textproc.Fold(s)
	if folded == "" {
		return 0, false
	}

	best, found := Level(-1), false
	for _, m := range bacPlusRe.FindAllStringSubmatch(folded, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if Level(n) > best {
			best, found = Level(n), true
		}
	}
	if found {
		return best, true
	}

	if n, err := strconv.Atoi(strings.TrimSpace(folded)); err == nil && n >= 0 && n <= 12 {
		return Level(n), true
	}

	doc := textproc.NewDoc(folded)
	for _, dt := range degreeTerms {
		if dt.level <= best {
			continue
		}
		if doc.Contains(dt.term) {
			best, found = dt.level, true
		}
	}
	if best < LevelBachelor && isBUT(s) {
		best, found = LevelBachelor, true
	}
	return best, found
}

// isBUT reports whether s names a BUT diploma. All-caps text is ignored since the acronym
// cannot be told apart from the conjunction there.
func isBUT(s string) bool {
	return butRe.MatchString(s) && strings.ToUpper(s) != s
}

// String renders the level as Bac+N.
func (l Level) String() string {
	if l <= 0 {
		return "Bac"
	}
	return "Bac+" + strconv.Itoa(int(l))
}
