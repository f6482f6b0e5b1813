package parsing

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/llm"
	"github.com/jonathan/match-engine/internal/logging"
	"github.com/jonathan/match-engine/internal/schemas"
	"github.com/jonathan/match-engine/internal/types"
)

// Extractor turns raw resume or job posting text into profiles through the LLM, then through
// the same validating boundary as any other profile document.
type Extractor struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithTier selects the model tier used for extraction.
func WithTier(tier llm.ModelTier) ExtractorOption {
	return func(e *Extractor) { e.tier = tier }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = logging.Component(logger, "parsing") }
}

// NewExtractor creates an Extractor. The default tier is llm.TierStandard.
func NewExtractor(client llm.Client, opts ...ExtractorOption) *Extractor {
	e := &Extractor{client: client, tier: llm.TierStandard, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Candidate extracts a candidate profile from resume text.
func (e *Extractor) Candidate(ctx context.Context, text string) (*types.CandidateProfile, []schemas.FieldError, error) {
	raw, err := e.extract(ctx, llm.CandidateProfileSchema(), text)
	if err != nil {
		return nil, nil, err
	}
	p, dropped, err := ParseCandidateProfile(raw)
	e.logDropped("candidate", dropped)
	return p, dropped, err
}

// Job extracts a job profile from posting text.
func (e *Extractor) Job(ctx context.Context, text string) (*types.JobProfile, []schemas.FieldError, error) {
	raw, err := e.extract(ctx, llm.JobProfileSchema(), text)
	if err != nil {
		return nil, nil, err
	}
	p, dropped, err := ParseJobProfile(raw)
	e.logDropped("job", dropped)
	return p, dropped, err
}

func (e *Extractor) extract(ctx context.Context, schema llm.ExtractionSchema, text string) ([]byte, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	raw, err := llm.Extract(ctx, e.client, schema, text, e.tier)
	if err != nil {
		return nil, &ExtractionError{Schema: schema.Name, Cause: err}
	}
	e.logger.Debug("profile extracted",
		zap.String("schema", schema.Name),
		zap.String("response", logging.TruncateForLog(string(raw), 200)))
	return raw, nil
}

func (e *Extractor) logDropped(kind string, dropped []schemas.FieldError) {
	if len(dropped) == 0 {
		return
	}
	fields := make([]string, len(dropped))
	for i, fe := range dropped {
		fields[i] = fe.Field
	}
	e.logger.Warn("invalid profile fields defaulted", zap.String("kind", kind), zap.Strings("fields", fields))
}

func checkText(text string) error {
	for _, r := range text {
		if r != ' ' && r != '\n' && r != '\t' && r != '\r' {
			return nil
		}
	}
	return &types.ValidationError{Field: "text", Message: types.ErrEmptyText.Error()}
}
