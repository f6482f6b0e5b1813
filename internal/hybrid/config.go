// Package hybrid combines the vector, keyword, embedding and semantic signals into one
// calibrated compatibility score with a confidence value and a narrative.
package hybrid

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/match-engine/internal/types"
)

// Band is one linear remap of the base score: [Low, High) maps onto [OutLow, OutHigh).
// The last band of a table also includes its upper bound.
type Band struct {
	Name    string  `json:"name" mapstructure:"name" validate:"required"`
	Low     float64 `json:"low" mapstructure:"low" validate:"gte=0,lte=100"`
	High    float64 `json:"high" mapstructure:"high" validate:"gtfield=Low,lte=100"`
	OutLow  float64 `json:"out_low" mapstructure:"out_low" validate:"gte=0,lte=100"`
	OutHigh float64 `json:"out_high" mapstructure:"out_high" validate:"gtefield=OutLow,lte=100"`
}

// Band names
const (
	BandLow     = "low"
	BandAverage = "average"
	BandGood    = "good"
	BandHigh    = "high"
)

// CalibrationConfig holds the empirically tuned constants of the score transform.
type CalibrationConfig struct {
	// FocusBands remap the adjusted score when domain focus is enabled.
	FocusBands []Band `json:"focus_bands" mapstructure:"focus_bands" validate:"min=1,dive"`
	// PlainBands remap the base score when domain focus is disabled.
	PlainBands []Band `json:"plain_bands" mapstructure:"plain_bands" validate:"min=1,dive"`

	SectorAlignmentBase float64 `json:"sector_alignment_base" mapstructure:"sector_alignment_base" validate:"gt=0"`
	SectorAlignmentSpan float64 `json:"sector_alignment_span" mapstructure:"sector_alignment_span" validate:"gte=0"`
	TransferFloor       float64 `json:"transfer_floor" mapstructure:"transfer_floor" validate:"gte=0,lte=1"`
	GeneralTransfer     float64 `json:"general_transfer" mapstructure:"general_transfer" validate:"gte=0,lte=1"`
	UnknownTransfer     float64 `json:"unknown_transfer" mapstructure:"unknown_transfer" validate:"gte=0,lte=1"`

	TechnicalRelevanceThreshold float64 `json:"technical_relevance_threshold" mapstructure:"technical_relevance_threshold" validate:"gte=0,lte=100"`
	TechnicalRelevanceBoost     float64 `json:"technical_relevance_boost" mapstructure:"technical_relevance_boost" validate:"gte=0,lte=1"`
	DomainExpertiseThreshold    float64 `json:"domain_expertise_threshold" mapstructure:"domain_expertise_threshold" validate:"gte=0,lte=100"`
	DomainExpertiseBoost        float64 `json:"domain_expertise_boost" mapstructure:"domain_expertise_boost" validate:"gte=0,lte=1"`
}

// DefaultCalibration returns the default bands and factors.
func DefaultCalibration() CalibrationConfig {
	return CalibrationConfig{
		FocusBands: []Band{
			{Name: BandLow, Low: 0, High: 35, OutLow: 0, OutHigh: 40},
			{Name: BandAverage, Low: 35, High: 55, OutLow: 40, OutHigh: 65},
			{Name: BandGood, Low: 55, High: 75, OutLow: 65, OutHigh: 85},
			{Name: BandHigh, Low: 75, High: 100, OutLow: 85, OutHigh: 100},
		},
		PlainBands: []Band{
			{Name: BandLow, Low: 0, High: 40, OutLow: 0, OutHigh: 35},
			{Name: BandAverage, Low: 40, High: 70, OutLow: 35, OutHigh: 70},
			{Name: BandHigh, Low: 70, High: 100, OutLow: 70, OutHigh: 100},
		},
		SectorAlignmentBase:         0.9,
		SectorAlignmentSpan:         0.2,
		TransferFloor:               0.7,
		GeneralTransfer:             0.8,
		UnknownTransfer:             0.5,
		TechnicalRelevanceThreshold: 60,
		TechnicalRelevanceBoost:     0.1,
		DomainExpertiseThreshold:    60,
		DomainExpertiseBoost:        0.05,
	}
}

// Config holds the aggregator defaults. Per-call Options override Mode, DomainFocus and Weights.
type Config struct {
	Mode             types.PerformanceMode `json:"mode" mapstructure:"mode" validate:"oneof=fast balanced comprehensive"`
	DomainFocus      bool                  `json:"domain_focus" mapstructure:"domain_focus"`
	BatchConcurrency int                   `json:"batch_concurrency" mapstructure:"batch_concurrency" validate:"gte=1"`
	ResultTTL        time.Duration         `json:"result_ttl" mapstructure:"result_ttl" validate:"gte=0"`
	Calibration      CalibrationConfig     `json:"calibration" mapstructure:"calibration"`
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		Mode:             types.ModeBalanced,
		DomainFocus:      true,
		BatchConcurrency: 8,
		ResultTTL:        time.Hour,
		Calibration:      DefaultCalibration(),
	}
}

var validate = validator.New()

// Validate checks the struct tags and that each band table covers [0,100] without gaps.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid hybrid config: %w", err)
	}
	if err := checkBands(c.Calibration.FocusBands); err != nil {
		return fmt.Errorf("invalid focus bands: %w", err)
	}
	if err := checkBands(c.Calibration.PlainBands); err != nil {
		return fmt.Errorf("invalid plain bands: %w", err)
	}
	return nil
}

func checkBands(bands []Band) error {
	if bands[0].Low != 0 {
		return fmt.Errorf("first band %q must start at 0", bands[0].Name)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Low != bands[i-1].High {
			return fmt.Errorf("band %q must start where %q ends", bands[i].Name, bands[i-1].Name)
		}
	}
	if last := bands[len(bands)-1]; last.High != 100 {
		return fmt.Errorf("last band %q must end at 100", last.Name)
	}
	return nil
}

// Options are the per-call scoring options. Zero values fall back to the aggregator Config.
type Options struct {
	Mode        types.PerformanceMode `json:"mode,omitempty" validate:"omitempty,oneof=fast balanced comprehensive"`
	DomainFocus *bool                 `json:"domain_focus,omitempty"`
	// Weights replaces the mode, context and experience weighting entirely when non-zero.
	Weights *types.Weights `json:"weights,omitempty"`
}

// Validate checks the option values.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return &types.ValidationError{Field: "options", Message: err.Error()}
	}
	return nil
}

// resolvedOptions is Options merged with the Config; it is also part of the result cache key.
type resolvedOptions struct {
	Mode        types.PerformanceMode `json:"mode"`
	DomainFocus bool                  `json:"domain_focus"`
	Weights     *types.Weights        `json:"weights,omitempty"`
}

func (c Config) resolve(o Options) resolvedOptions {
	r := resolvedOptions{Mode: c.Mode, DomainFocus: c.DomainFocus}
	if o.Mode != "" {
		r.Mode = o.Mode
	}
	if o.DomainFocus != nil {
		r.DomainFocus = *o.DomainFocus
	}
	if o.Weights != nil && o.Weights.Total() > 0 {
		w := o.Weights.Normalized()
		r.Weights = &w
	}
	return r
}
