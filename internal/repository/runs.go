package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/evaluate"
)

var ErrRunNotFound = errors.New("evaluation run not found")

// RunRecord is one row of evaluation_runs.
type RunRecord struct {
	ID        uuid.UUID
	Family    domain.Family
	CreatedAt time.Time
	Summary   evaluate.Summary
}

type RunRepository struct {
	pool PgxPool
}

func NewRunRepository(pool PgxPool) *RunRepository {
	return &RunRepository{pool: pool}
}

// SaveReport stores a completed report: one run row plus one verdict row
// per evaluated video, in a single transaction so a failed insert never
// leaves a truncated run behind.
func (r *RunRepository) SaveReport(ctx context.Context, report *evaluate.Report) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save report: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO evaluation_runs (
			id, family, created_at, accuracy, precision_pct, recall_pct, f1_score,
			true_positives, true_negatives, false_positives, false_negatives, total_videos
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	s := report.Summary
	_, err = tx.Exec(ctx, query,
		report.RunID,
		report.Family,
		report.Timestamp,
		s.Accuracy,
		s.Precision,
		s.Recall,
		s.F1Score,
		s.ConfusionMatrix.TP,
		s.ConfusionMatrix.TN,
		s.ConfusionMatrix.FP,
		s.ConfusionMatrix.FN,
		s.TotalVideos,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation run: %w", err)
	}

	for _, v := range report.Results {
		if err := saveVerdict(ctx, tx, report.RunID, v); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save report: %w", err)
	}
	return nil
}

func saveVerdict(ctx context.Context, tx pgx.Tx, runID uuid.UUID, v domain.LabeledVerdict) error {
	query := `
		INSERT INTO evaluation_verdicts (
			id, run_id, video_path, ground_truth, prediction, confidence, detector, error
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var detector []byte
	if v.Detector != nil {
		var err error
		detector, err = json.Marshal(v.Detector)
		if err != nil {
			return fmt.Errorf("marshal detector result: %w", err)
		}
	}

	var prediction *string
	if v.Prediction != domain.PredictionNone {
		p := string(v.Prediction)
		prediction = &p
	}

	var verdictErr *string
	if v.Error != "" {
		verdictErr = &v.Error
	}

	_, err := tx.Exec(ctx, query,
		uuid.New(),
		runID,
		v.VideoPath,
		string(v.GroundTruth),
		prediction,
		v.Confidence,
		detector,
		verdictErr,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation verdict: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run for a family.
func (r *RunRepository) LatestRun(ctx context.Context, family domain.Family) (*RunRecord, error) {
	query := `
		SELECT id, family, created_at, accuracy, precision_pct, recall_pct, f1_score,
		       true_positives, true_negatives, false_positives, false_negatives, total_videos
		FROM evaluation_runs
		WHERE family = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rec RunRecord
	err := r.pool.QueryRow(ctx, query, family).Scan(
		&rec.ID,
		&rec.Family,
		&rec.CreatedAt,
		&rec.Summary.Accuracy,
		&rec.Summary.Precision,
		&rec.Summary.Recall,
		&rec.Summary.F1Score,
		&rec.Summary.ConfusionMatrix.TP,
		&rec.Summary.ConfusionMatrix.TN,
		&rec.Summary.ConfusionMatrix.FP,
		&rec.Summary.ConfusionMatrix.FN,
		&rec.Summary.TotalVideos,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest run: %w", err)
	}
	return &rec, nil
}
