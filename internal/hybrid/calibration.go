package hybrid

import (
	"github.com/jonathan/match-engine/internal/keyword"
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// SectorCompatibility is how well a candidate from a given profile context transfers into a
// job sector. Rows are job sectors from the keyword taxonomy, columns candidate contexts.
// Pairs not listed use CalibrationConfig.UnknownTransfer.
var SectorCompatibility = map[string]map[string]float64{
	keyword.SectorTechnology: {
		ContextIT: 1.0, ContextManagement: 0.6, ContextFinance: 0.5, ContextBanking: 0.5, ContextInsurance: 0.5,
	},
	keyword.SectorBanking: {
		ContextBanking: 1.0, ContextFinance: 0.85, ContextInsurance: 0.7, ContextManagement: 0.6, ContextIT: 0.5,
	},
	keyword.SectorInsurance: {
		ContextInsurance: 1.0, ContextBanking: 0.75, ContextFinance: 0.75, ContextManagement: 0.6, ContextIT: 0.5,
	},
	keyword.SectorFinance: {
		ContextFinance: 1.0, ContextBanking: 0.85, ContextInsurance: 0.75, ContextManagement: 0.65, ContextIT: 0.45,
	},
	keyword.SectorHealthcare: {
		ContextManagement: 0.6, ContextIT: 0.5, ContextFinance: 0.4, ContextInsurance: 0.55, ContextBanking: 0.35,
	},
	keyword.SectorLegal: {
		ContextInsurance: 0.6, ContextBanking: 0.55, ContextFinance: 0.55, ContextManagement: 0.5, ContextIT: 0.35,
	},
	keyword.SectorMarketing: {
		ContextManagement: 0.7, ContextIT: 0.5, ContextFinance: 0.4, ContextBanking: 0.4, ContextInsurance: 0.4,
	},
	keyword.SectorHumanResources: {
		ContextManagement: 0.8, ContextFinance: 0.45, ContextIT: 0.4, ContextBanking: 0.4, ContextInsurance: 0.4,
	},
}

// calibrationInput is what the transform needs from the signals.
type calibrationInput struct {
	base            float64
	keyword         float64
	semantic        float64
	jobSector       string
	candidateSector string
	sameSector      bool
	context         string
}

// calibrate applies the domain-focused or plain band transform to the base score and returns
// the calibration record with the final score.
func calibrate(cfg CalibrationConfig, in calibrationInput, domainFocus bool) (types.Calibration, float64) {
	c := types.Calibration{
		BaseScore:        textproc.Round2(in.base),
		DomainFocus:      domainFocus,
		JobSector:        in.jobSector,
		CandidateSector:  in.candidateSector,
		CandidateContext: in.context,
	}

	if !domainFocus {
		score, band := remap(cfg.PlainBands, in.base)
		c.AdjustedScore = c.BaseScore
		c.Band = band
		return c, score
	}

	same := 0.0
	if in.sameSector {
		same = 1
	}
	alignment := cfg.SectorAlignmentBase + cfg.SectorAlignmentSpan*(0.5*same+0.5*in.semantic/100)
	transfer := transferability(cfg, in)
	adjusted := textproc.Clamp(in.base*alignment*(cfg.TransferFloor+(1-cfg.TransferFloor)*transfer), 0, 100)

	score, band := remap(cfg.FocusBands, adjusted)
	c.SectorAlignment = textproc.Round2(alignment)
	c.Transferability = textproc.Round2(transfer)
	c.AdjustedScore = textproc.Round2(adjusted)
	c.Band = band
	return c, score
}

// transferability looks up the job sector against the candidate context, then rewards strong
// technical relevance (keyword) and domain expertise (semantic).
func transferability(cfg CalibrationConfig, in calibrationInput) float64 {
	var t float64
	switch {
	case in.context == ContextGeneral || in.context == "":
		t = cfg.GeneralTransfer
	default:
		row, ok := SectorCompatibility[in.jobSector]
		if v, found := row[in.context]; ok && found {
			t = v
		} else {
			t = cfg.UnknownTransfer
		}
	}
	if in.keyword >= cfg.TechnicalRelevanceThreshold {
		t += cfg.TechnicalRelevanceBoost
	}
	if in.semantic >= cfg.DomainExpertiseThreshold {
		t += cfg.DomainExpertiseBoost
	}
	return min(1, t)
}

// remap finds the band holding x and maps it linearly onto the band's output range.
func remap(bands []Band, x float64) (float64, string) {
	x = textproc.Clamp(x, 0, 100)
	for i, b := range bands {
		last := i == len(bands)-1
		if x < b.Low || x > b.High || (x == b.High && !last) {
			continue
		}
		span := b.High - b.Low
		if span <= 0 {
			return b.OutLow, b.Name
		}
		return textproc.Clamp(b.OutLow+(x-b.Low)/span*(b.OutHigh-b.OutLow), 0, 100), b.Name
	}
	return x, ""
}
