package ports

import (
	"context"

	"github.com/emiliopalmerini/pricepaid/internal/domain"
)

// MockPredictionRepository is a mock implementation of PredictionRepository for testing.
type MockPredictionRepository struct {
	SaveFunc       func(ctx context.Context, p *domain.Prediction) error
	ListRecentFunc func(ctx context.Context, limit int) ([]*domain.Prediction, error)
	CountFunc      func(ctx context.Context) (int64, error)
	DeleteAllFunc  func(ctx context.Context) (int64, error)
}

func (m *MockPredictionRepository) Save(ctx context.Context, p *domain.Prediction) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	return nil
}

func (m *MockPredictionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Prediction, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return []*domain.Prediction{}, nil
}

func (m *MockPredictionRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockPredictionRepository) DeleteAll(ctx context.Context) (int64, error) {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return 0, nil
}
