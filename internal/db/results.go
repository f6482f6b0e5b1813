package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/match-engine/internal/types"
)

// HybridResultRecord is a stored hybrid result with its indexed columns.
type HybridResultRecord struct {
	ID              uuid.UUID           `json:"id"`
	CandidateIndex  int                 `json:"candidate_index"`
	Mode            string              `json:"mode"`
	FinalScore      float64             `json:"final_score"`
	Confidence      float64             `json:"confidence"`
	Band            string              `json:"band"`
	Context         string              `json:"context"`
	ExperienceLevel string              `json:"experience_level"`
	JobSector       string              `json:"job_sector,omitempty"`
	Sentinel        bool                `json:"sentinel"`
	Result          *types.HybridResult `json:"result"`
	CreatedAt       time.Time           `json:"created_at"`
}

// DimensionalScoreRecord is a stored dimensional score.
type DimensionalScoreRecord struct {
	ID        uuid.UUID               `json:"id"`
	Sector    string                  `json:"sector"`
	Overall   float64                 `json:"overall"`
	Result    *types.DimensionalScore `json:"result"`
	CreatedAt time.Time               `json:"created_at"`
}

// newHybridRecord derives the column values of a result. A missing or malformed ID is replaced.
func newHybridRecord(r *types.HybridResult) (*HybridResultRecord, error) {
	if r == nil {
		return nil, fmt.Errorf("hybrid result is nil")
	}
	id, err := uuid.Parse(r.ID)
	if err != nil {
		id = uuid.New()
	}
	return &HybridResultRecord{
		ID:              id,
		CandidateIndex:  r.CandidateIndex,
		Mode:            string(r.Performance.Mode),
		FinalScore:      r.FinalScore,
		Confidence:      r.Confidence,
		Band:            r.Calibration.Band,
		Context:         r.Context.Context,
		ExperienceLevel: r.Context.ExperienceLevel,
		JobSector:       r.Calibration.JobSector,
		Sentinel:        r.Sentinel,
		Result:          r,
	}, nil
}

// SaveHybridResult stores a hybrid result. Saving the same ID twice overwrites the row.
func (db *DB) SaveHybridResult(ctx context.Context, r *types.HybridResult) error {
	rec, err := newHybridRecord(r)
	if err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal hybrid result: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO hybrid_results (id, candidate_index, mode, final_score, confidence, band, context,
		                             experience_level, job_sector, sentinel, result)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11)
		 ON CONFLICT (id) DO UPDATE SET final_score = $4, confidence = $5, band = $6, result = $11`,
		rec.ID, rec.CandidateIndex, rec.Mode, rec.FinalScore, rec.Confidence, rec.Band, rec.Context,
		rec.ExperienceLevel, rec.JobSector, rec.Sentinel, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save hybrid result %s: %w", rec.ID, err)
	}
	return nil
}

const hybridColumns = `id, candidate_index, mode, final_score, confidence, band, context, experience_level,
	COALESCE(job_sector, ''), sentinel, result, created_at`

func scanHybrid(row pgx.Row) (*HybridResultRecord, error) {
	var rec HybridResultRecord
	var raw []byte
	if err := row.Scan(&rec.ID, &rec.CandidateIndex, &rec.Mode, &rec.FinalScore, &rec.Confidence,
		&rec.Band, &rec.Context, &rec.ExperienceLevel, &rec.JobSector, &rec.Sentinel, &raw, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Result = &types.HybridResult{}
	if err := json.Unmarshal(raw, rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hybrid result %s: %w", rec.ID, err)
	}
	return &rec, nil
}

// GetHybridResult retrieves a hybrid result by ID. It returns nil when the row does not exist.
func (db *DB) GetHybridResult(ctx context.Context, id uuid.UUID) (*HybridResultRecord, error) {
	rec, err := scanHybrid(db.pool.QueryRow(ctx,
		`SELECT `+hybridColumns+` FROM hybrid_results WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get hybrid result %s: %w", id, err)
	}
	return rec, nil
}

// ListHybridResults returns the most recent results, newest first.
func (db *DB) ListHybridResults(ctx context.Context, limit int) ([]HybridResultRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+hybridColumns+` FROM hybrid_results ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list hybrid results: %w", err)
	}
	defer rows.Close()

	var records []HybridResultRecord
	for rows.Next() {
		rec, err := scanHybrid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hybrid result: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list hybrid results: %w", err)
	}
	return records, nil
}

// SaveDimensionalScore stores a dimensional score and returns its new ID.
func (db *DB) SaveDimensionalScore(ctx context.Context, s *types.DimensionalScore) (uuid.UUID, error) {
	if s == nil {
		return uuid.Nil, fmt.Errorf("dimensional score is nil")
	}
	jsonBytes, err := json.Marshal(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal dimensional score: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO dimensional_scores (id, sector, overall, result)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		uuid.New(), s.Sector, s.Overall, jsonBytes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save dimensional score: %w", err)
	}
	return id, nil
}

// GetDimensionalScore retrieves a dimensional score by ID. It returns nil when the row does not exist.
func (db *DB) GetDimensionalScore(ctx context.Context, id uuid.UUID) (*DimensionalScoreRecord, error) {
	var rec DimensionalScoreRecord
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, sector, overall, result, created_at FROM dimensional_scores WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Sector, &rec.Overall, &raw, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dimensional score %s: %w", id, err)
	}
	rec.Result = &types.DimensionalScore{}
	if err := json.Unmarshal(raw, rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dimensional score %s: %w", id, err)
	}
	return &rec, nil
}
