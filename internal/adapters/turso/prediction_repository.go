package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// timeLayout has fixed-width fractional seconds so stored timestamps sort
// lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Save stores p, assigning an ID and creation time when they are unset.
func (r *PredictionRepository) Save(ctx context.Context, p *domain.Prediction) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO predictions (id, features, predicted_price, created_at)
		VALUES (?, ?, ?, ?)
	`, p.ID, string(features), p.PredictedPrice, p.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// ListRecent returns the newest predictions first.
func (r *PredictionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Prediction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, features, predicted_price, created_at
		FROM predictions
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Prediction
	for rows.Next() {
		var (
			p         domain.Prediction
			features  string
			createdAt string
		)
		if err := rows.Scan(&p.ID, &features, &p.PredictedPrice, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
			return nil, fmt.Errorf("failed to decode features of %s: %w", p.ID, err)
		}
		p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PredictionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return n, nil
}

func (r *PredictionRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM predictions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete predictions: %w", err)
	}
	return res.RowsAffected()
}
