package dimensions

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/match-engine/internal/embedding"
	"github.com/jonathan/match-engine/internal/textproc"
)

// SkillSimilarity scores how close two skill names are, in [0,1].
type SkillSimilarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// EmbeddingSimilarity compares skills by the cosine of their embeddings. Vectors go through the
// embedding signal, so its vector cache and rate limiter apply.
type EmbeddingSimilarity struct {
	signal *embedding.Signal
}

// NewEmbeddingSimilarity wraps an embedding signal. It returns nil when no provider is
// configured, so the result can be passed straight to WithSimilarity.
func NewEmbeddingSimilarity(signal *embedding.Signal) SkillSimilarity {
	if signal == nil || !signal.Available() {
		return nil
	}
	return &EmbeddingSimilarity{signal: signal}
}

// Similarity implements SkillSimilarity.
func (e *EmbeddingSimilarity) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := e.signal.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := e.signal.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	sim, err := textproc.Cosine32(va, vb)
	if err != nil {
		return 0, err
	}
	return textproc.Clamp(sim, 0, 1), nil
}

// skillFamilies groups technical skills that transfer to one another.
var skillFamilies = map[string][]string{
	"relational databases":   {"sql", "postgresql", "mysql", "oracle", "sql server", "mariadb", "sqlite"},
	"document databases":     {"mongodb", "couchdb", "dynamodb", "cassandra", "elasticsearch"},
	"frontend frameworks":    {"react", "vue", "angular", "svelte", "next.js", "ember"},
	"jvm languages":          {"java", "kotlin", "scala", "groovy"},
	"scripting languages":    {"python", "ruby", "perl", "php"},
	"systems languages":      {"go", "rust", "c", "c++"},
	"web languages":          {"javascript", "typescript"},
	"cloud platforms":        {"aws", "azure", "gcp", "google cloud", "ovh"},
	"containers":             {"docker", "kubernetes", "podman", "openshift", "helm"},
	"infrastructure as code": {"terraform", "ansible", "pulumi", "cloudformation", "chef", "puppet"},
	"message brokers":        {"kafka", "rabbitmq", "nats", "pulsar", "sqs"},
	"backend frameworks":     {"express", "nestjs", "django", "flask", "spring", "rails", "laravel", "fastapi"},
	"bi tools":               {"power bi", "tableau", "looker", "qlik"},
	"spreadsheets":           {"excel", "vba", "google sheets"},
	"accounting standards":   {"ifrs", "us gaap", "french gaap"},
	"risk frameworks":        {"solvency ii", "basel iii", "basel", "frtb"},
	"data science":           {"machine learning", "pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "statistics"},
}

// FamilySimilarity is the similarity given to two distinct skills of the same family. It sits
// inside the transferable band.
const FamilySimilarity = 0.75

// containmentSimilarity is the similarity given when one skill name contains the other,
// e.g. "PostgreSQL" and "PostgreSQL 15". It sits inside the similar band.
const containmentSimilarity = 0.9

var familyIndex = func() map[string]string {
	idx := make(map[string]string)
	for family, skills := range skillFamilies {
		for _, s := range skills {
			idx[s] = family
		}
	}
	return idx
}()

// LexicalSimilarity compares skills without an external provider: shared family, containment,
// then the best of edit-distance similarity and token Jaccard.
type LexicalSimilarity struct{}

// Similarity implements SkillSimilarity.
func (LexicalSimilarity) Similarity(_ context.Context, a, b string) (float64, error) {
	return lexicalSimilarity(textproc.Fold(a), textproc.Fold(b)), nil
}

func lexicalSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) >= 3 && containsWord(long, short) {
		return containmentSimilarity
	}

	best := max(textproc.EditSimilarity(a, b), textproc.Jaccard(textproc.Tokenize(a), textproc.Tokenize(b)))
	if fa, ok := familyIndex[a]; ok && fa == familyIndex[b] {
		best = max(best, FamilySimilarity)
	}
	return best
}

// containsWord reports whether sub occurs in s on token boundaries.
func containsWord(s, sub string) bool {
	st, subt := textproc.Tokenize(s), textproc.Tokenize(sub)
	if len(subt) == 0 || len(subt) > len(st) {
		return false
	}
	for i := 0; i+len(subt) <= len(st); i++ {
		if strings.Join(st[i:i+len(subt)], " ") == strings.Join(subt, " ") {
			return true
		}
	}
	return false
}

// family returns the family of a folded skill name, if any.
func family(skill string) (string, bool) {
	f, ok := familyIndex[skill]
	return f, ok
}

func transferExplanation(required, matched string, sim float64) string {
	rf, okR := family(textproc.Fold(required))
	mf, okM := family(textproc.Fold(matched))
	if okR && okM && rf == mf {
		return fmt.Sprintf("%s is transferable to %s: both are %s", matched, required, rf)
	}
	return fmt.Sprintf("%s is transferable to %s (similarity %.2f)", matched, required, sim)
}
