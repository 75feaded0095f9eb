package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trendkart/order-service/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// CreateWithOutbox writes the order, its lines and the outbox event in one
// transaction, so the event exists exactly when the order does.
func (r *Repository) CreateWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, customer_id, street, city, state, zip, country, payment_method, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.CustomerID,
		o.Address.Street, o.Address.City, o.Address.State, o.Address.Zip, o.Address.Country,
		o.PaymentMethod, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, line := range o.Lines {
		// Duplicate cart lines for the same product/size fold into one row.
		batch.Queue(`
			INSERT INTO order_lines (order_id, product_id, size, quantity) VALUES ($1,$2,$3,$4)
			ON CONFLICT (order_id, product_id, size)
			DO UPDATE SET quantity = order_lines.quantity + EXCLUDED.quantity`,
			o.ID, line.ProductID, line.Size, line.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	if err := insertOutbox(ctx, tx, o.ID, eventType, payload, traceparent); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, street, city, state, zip, country, payment_method, status, created_at, updated_at
		FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.CustomerID,
			&o.Address.Street, &o.Address.City, &o.Address.State, &o.Address.Zip, &o.Address.Country,
			&o.PaymentMethod, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	lines, err := r.linesFor(ctx, []string{id})
	if err != nil {
		return domain.Order{}, err
	}
	o.Lines = lines[id]
	return o, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT id, customer_id, street, city, state, zip, country, payment_method, status, created_at, updated_at
		FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT id, customer_id, street, city, state, zip, country, payment_method, status, created_at, updated_at
		FROM orders ORDER BY created_at DESC`)
}

// UpdateStatusWithOutbox is a compare-and-set on the order's current status;
// a row that already moved on reports ErrInvalidTransition.
func (r *Repository) UpdateStatusWithOutbox(ctx context.Context, id string, from, to domain.Status, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		var current domain.Status
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrInvalidTransition
	}

	if err := insertOutbox(ctx, tx, id, eventType, payload, traceparent); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID,
			&o.Address.Street, &o.Address.City, &o.Address.State, &o.Address.Zip, &o.Address.Country,
			&o.PaymentMethod, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (r *Repository) linesFor(ctx context.Context, orderIDs []string) (map[string][]domain.Line, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT order_id, product_id, size, quantity FROM order_lines WHERE order_id = ANY($1) ORDER BY product_id, size`,
		orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make(map[string][]domain.Line, len(orderIDs))
	for rows.Next() {
		var orderID string
		var line domain.Line
		if err := rows.Scan(&orderID, &line.ProductID, &line.Size, &line.Quantity); err != nil {
			return nil, err
		}
		lines[orderID] = append(lines[orderID], line)
	}
	return lines, rows.Err()
}

func insertOutbox(ctx context.Context, tx pgx.Tx, aggregateID, eventType string, payload []byte, traceparent string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ('order', $1, $2, $3, $4, 'pending')`,
		aggregateID, eventType, payload, traceparent)
	return err
}
