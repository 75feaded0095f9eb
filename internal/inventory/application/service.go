package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trendkart/order-service/internal/inventory/domain"
)

// Ledger owns the stock counters. Reservation is all-or-nothing across every
// line of one order; the heavy lifting lives in the StockRepository so the
// atomicity guarantee matches the backing store.
type Ledger struct {
	log  *slog.Logger
	repo StockRepository
}

func NewLedger(log *slog.Logger, repo StockRepository) *Ledger {
	return &Ledger{log: log, repo: repo}
}

func (l *Ledger) Reserve(ctx context.Context, lines []domain.Line) error {
	if len(lines) == 0 {
		return fmt.Errorf("reserve: no lines")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("reserve: non-positive quantity %d for product %s", line.Quantity, line.ProductID)
		}
	}
	if err := l.repo.Reserve(ctx, lines); err != nil {
		l.log.Info("reservation rejected", "lines", len(lines), "err", err)
		return err
	}
	l.log.Info("stock reserved", "lines", len(lines))
	return nil
}

func (l *Ledger) Release(ctx context.Context, lines []domain.Line) error {
	if len(lines) == 0 {
		return nil
	}
	if err := l.repo.Release(ctx, lines); err != nil {
		l.log.Error("stock release failed", "lines", len(lines), "err", err)
		return err
	}
	l.log.Info("stock released", "lines", len(lines))
	return nil
}

func (l *Ledger) Stock(ctx context.Context, key domain.Key) (domain.StockEntry, error) {
	return l.repo.Stock(ctx, key)
}
