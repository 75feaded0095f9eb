package application

import (
	"context"

	"github.com/trendkart/order-service/internal/inventory/domain"
)

// StockRepository applies a reservation as a single atomic unit: either every
// line is decremented or none are. Release is the exact inverse.
type StockRepository interface {
	Reserve(ctx context.Context, lines []domain.Line) error
	Release(ctx context.Context, lines []domain.Line) error
	Stock(ctx context.Context, key domain.Key) (domain.StockEntry, error)
}
