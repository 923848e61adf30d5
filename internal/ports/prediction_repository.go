package ports

import (
	"context"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// PredictionRepository stores the predictions made from the dashboard and CLI.
type PredictionRepository interface {
	Save(ctx context.Context, p *domain.Prediction) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Prediction, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}
