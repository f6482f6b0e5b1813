package dimensions

import "github.com/jonathan/match-engine/internal/types"

// DefaultSector is the weight table key used when the sector is unknown.
const DefaultSector = "default"

func weights(technical, experience, education, soft, cultural, authenticity float64) types.DimensionWeights {
	return types.DimensionWeights{
		types.DimensionTechnical:    technical,
		types.DimensionExperience:   experience,
		types.DimensionEducation:    education,
		types.DimensionSoftSkills:   soft,
		types.DimensionCultural:     cultural,
		types.DimensionAuthenticity: authenticity,
	}
}

// SectorWeights holds the dimension weights per sector. Technical roles lean on skills,
// regulated sectors on education and experience, people-facing ones on soft skills.
var SectorWeights = map[string]types.DimensionWeights{
	DefaultSector:     weights(0.30, 0.25, 0.15, 0.15, 0.10, 0.05),
	"technology":      weights(0.40, 0.20, 0.10, 0.12, 0.10, 0.08),
	"banking":         weights(0.25, 0.25, 0.20, 0.15, 0.08, 0.07),
	"insurance":       weights(0.25, 0.25, 0.15, 0.18, 0.10, 0.07),
	"finance":         weights(0.28, 0.25, 0.20, 0.12, 0.08, 0.07),
	"healthcare":      weights(0.25, 0.20, 0.25, 0.15, 0.10, 0.05),
	"legal":           weights(0.20, 0.25, 0.30, 0.12, 0.08, 0.05),
	"marketing":       weights(0.22, 0.20, 0.08, 0.25, 0.17, 0.08),
	"human_resources": weights(0.15, 0.20, 0.10, 0.30, 0.18, 0.07),
}

// weightsFor returns the normalized table for sector, falling back to the default table.
func weightsFor(table map[string]types.DimensionWeights, sector string) (types.DimensionWeights, string) {
	if w, ok := table[sector]; ok && sector != "" {
		return w.Normalized(), sector
	}
	if w, ok := table[DefaultSector]; ok {
		return w.Normalized(), DefaultSector
	}
	return SectorWeights[DefaultSector].Normalized(), DefaultSector
}
