package postgres

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trendkart/order-service/internal/inventory/domain"
)

// Repository backs the ledger with a stock_entries table. A reservation runs
// inside one transaction: each line is a conditional decrement guarded by
// `available >= quantity`, so the row can never go negative, and any line
// that fails aborts the transaction, undoing the decrements already applied.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Reserve(ctx context.Context, lines []domain.Line) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Row locks are taken in a fixed key order so two reservations touching
	// overlapping products cannot deadlock each other.
	for _, line := range sortedByKey(lines) {
		ct, err := tx.Exec(ctx, `
			UPDATE stock_entries
			SET available = available - $3
			WHERE product_id = $1 AND size = $2 AND available >= $3`,
			line.ProductID, line.Size, line.Quantity)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return r.classifyFailure(ctx, tx, line)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) Release(ctx context.Context, lines []domain.Line) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, line := range sortedByKey(lines) {
		ct, err := tx.Exec(ctx, `
			UPDATE stock_entries
			SET available = available + $3
			WHERE product_id = $1 AND size = $2`,
			line.ProductID, line.Size, line.Quantity)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return domain.LineError(domain.ErrUnknownProduct, line)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) Stock(ctx context.Context, key domain.Key) (domain.StockEntry, error) {
	var entry domain.StockEntry
	err := r.pool.QueryRow(ctx,
		`SELECT product_id, size, available FROM stock_entries WHERE product_id = $1 AND size = $2`,
		key.ProductID, key.Size).
		Scan(&entry.ProductID, &entry.Size, &entry.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StockEntry{}, domain.ErrUnknownProduct
	}
	if err != nil {
		return domain.StockEntry{}, err
	}
	return entry, nil
}

// SetStock seeds or overwrites a counter; used by catalog sync and tests.
func (r *Repository) SetStock(ctx context.Context, productID, size string, available int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stock_entries (product_id, size, available)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, size) DO UPDATE SET available = $3`,
		productID, size, available)
	return err
}

func (r *Repository) classifyFailure(ctx context.Context, tx pgx.Tx, line domain.Line) error {
	var available int
	err := tx.QueryRow(ctx,
		`SELECT available FROM stock_entries WHERE product_id = $1 AND size = $2`,
		line.ProductID, line.Size).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LineError(domain.ErrUnknownProduct, line)
	}
	if err != nil {
		return err
	}
	return domain.LineError(domain.ErrInsufficientStock, line)
}

func sortedByKey(lines []domain.Line) []domain.Line {
	out := make([]domain.Line, len(lines))
	copy(out, lines)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Size < out[j].Size
	})
	return out
}
