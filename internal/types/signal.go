// Package types provides type definitions for structured data used throughout the match engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SignalKind identifies one of the independent scoring signals.
type SignalKind string

// Signal kinds combined by the hybrid aggregator
const (
	SignalVector    SignalKind = "vector"
	SignalKeyword   SignalKind = "keyword"
	SignalSemantic  SignalKind = "semantic"
	SignalEmbedding SignalKind = "embedding"
)

// AllSignals lists the signals in their canonical order.
var AllSignals = []SignalKind{SignalVector, SignalKeyword, SignalEmbedding, SignalSemantic}

// SignalResult is the output of a single scoring signal for one text pair.
type SignalResult struct {
	Signal   SignalKind     `json:"signal"`
	Score    float64        `json:"score"`              // 0-100
	Evidence []string       `json:"evidence,omitempty"` // Matched terms or concepts
	Metadata map[string]any `json:"metadata,omitempty"`
	// Degraded is set when the signal could not run normally and Score is a neutral fallback.
	Degraded bool   `json:"degraded,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// NeutralSignal returns a zero-score result carrying the reason it could not be computed.
func NeutralSignal(kind SignalKind, reason string) SignalResult {
	return SignalResult{
		Signal:   kind,
		Score:    0,
		Degraded: true,
		Reason:   reason,
	}
}

// SetMeta records a metadata value, allocating the map on first use.
func (r *SignalResult) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}
