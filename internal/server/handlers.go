package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/hybrid"
	"github.com/jonathan/match-engine/internal/parsing"
	"github.com/jonathan/match-engine/internal/schemas"
	"github.com/jonathan/match-engine/internal/types"
)

// maxBodyBytes caps request bodies; a batch carries up to 200 full documents.
const maxBodyBytes = 8 << 20

// ScoreRequest is the body of POST /v1/score
type ScoreRequest struct {
	JobText       string         `json:"job_text"`
	CandidateText string         `json:"candidate_text"`
	Options       hybrid.Options `json:"options"`
}

// ScoreResponse wraps a hybrid result. Error is set when the result is a sentinel.
type ScoreResponse struct {
	Result *types.HybridResult `json:"result"`
	Error  *ErrorResponse      `json:"error,omitempty"`
}

// BatchRequest is the body of POST /v1/score/batch
type BatchRequest struct {
	JobText        string         `json:"job_text"`
	CandidateTexts []string       `json:"candidate_texts" validate:"required,min=1,max=200"`
	Options        hybrid.Options `json:"options"`
}

// BatchResponse lists results best first plus the per-candidate failures.
type BatchResponse struct {
	Results []*types.HybridResult `json:"results"`
	Errors  []string              `json:"errors,omitempty"`
}

// DimensionsRequest is the body of POST /v1/dimensions. Profiles are raw documents and go
// through the validating parser, so invalid fields are defaulted rather than rejected.
type DimensionsRequest struct {
	Candidate    json.RawMessage `json:"candidate" validate:"required"`
	Job          json.RawMessage `json:"job" validate:"required"`
	Authenticity float64         `json:"authenticity" validate:"gte=0,lte=100"`
	Persist      bool            `json:"persist,omitempty"`
}

// DimensionsResponse carries the score and the fields that were defaulted.
type DimensionsResponse struct {
	ID                 string                  `json:"id,omitempty"`
	Score              *types.DimensionalScore `json:"score"`
	CandidateDefaulted []schemas.FieldError    `json:"candidate_defaulted,omitempty"`
	JobDefaulted       []schemas.FieldError    `json:"job_defaulted,omitempty"`
}

// decode reads a JSON body into v and validates its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation", "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation", err.Error())
		return false
	}
	return true
}

// handleScore scores one job/candidate pair.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.aggregator.Score(r.Context(), req.JobText, req.CandidateText, req.Options)
	if err != nil {
		if result == nil {
			s.writeError(w, err)
			return
		}
		// A sentinel result is still returned alongside the error.
		resp := ScoreResponse{Result: result, Error: &ErrorResponse{Code: types.ErrorKind(err), Message: err.Error()}}
		var ve *types.ValidationError
		if errors.As(err, &ve) {
			resp.Error.Field = ve.Field
		}
		s.jsonResponse(w, HTTPStatus(err), resp)
		return
	}
	s.jsonResponse(w, http.StatusOK, ScoreResponse{Result: result})
}

// handleScoreBatch scores one job against many candidates. Partial failures still return 200.
func (s *Server) handleScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return
	}

	results, err := s.aggregator.ScoreBatch(r.Context(), req.JobText, req.CandidateTexts, req.Options)
	if err != nil && len(results) == 0 {
		s.writeError(w, err)
		return
	}

	resp := BatchResponse{Results: results}
	if err != nil {
		resp.Errors = splitJoined(err)
		s.logger.Warn("batch scored with failures", zap.Int("failed", len(resp.Errors)), zap.Int("scored", len(results)))
	}
	if resp.Results == nil {
		resp.Results = []*types.HybridResult{}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// splitJoined unpacks an errors.Join into its messages.
func splitJoined(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		out := make([]string, len(errs))
		for i, e := range errs {
			out[i] = e.Error()
		}
		return out
	}
	return []string{err.Error()}
}

// handleDimensions parses both profiles and runs the multi-dimensional matcher.
func (s *Server) handleDimensions(w http.ResponseWriter, r *http.Request) {
	var req DimensionsRequest
	if !s.decode(w, r, &req) {
		return
	}

	cand, candDropped, err := parsing.ParseCandidateProfile(req.Candidate)
	if err != nil {
		s.writeError(w, fmt.Errorf("invalid candidate profile: %w", asValidation("candidate", err)))
		return
	}
	job, jobDropped, err := parsing.ParseJobProfile(req.Job)
	if err != nil {
		s.writeError(w, fmt.Errorf("invalid job profile: %w", asValidation("job", err)))
		return
	}

	score, err := s.matcher.Score(r.Context(), cand, job, req.Authenticity)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := DimensionsResponse{Score: score, CandidateDefaulted: candDropped, JobDefaulted: jobDropped}
	if req.Persist && s.store != nil {
		id, err := s.store.SaveDimensionalScore(r.Context(), score)
		if err != nil {
			s.logger.Warn("failed to save dimensional score", zap.Error(err))
		} else {
			resp.ID = id.String()
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// asValidation turns parse failures into client errors.
func asValidation(field string, err error) error {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &types.ValidationError{Field: field, Message: err.Error()}
}

// handleCacheStats reports cache counters, the entry age histogram and the hottest keys.
func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	if s.cache == nil {
		s.errorResponse(w, http.StatusNotFound, "cache_disabled", "cache is not configured")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.cache.DetailedMetrics())
}

// handleCacheClear drops every cached entry.
func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	if s.cache == nil {
		s.errorResponse(w, http.StatusNotFound, "cache_disabled", "cache is not configured")
		return
	}
	s.cache.Clear()
	s.logger.Info("cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			s.jsonResponse(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}
	s.jsonResponse(w, http.StatusOK, status)
}
