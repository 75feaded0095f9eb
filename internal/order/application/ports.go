package application

import (
	"context"

	invdomain "github.com/trendkart/order-service/internal/inventory/domain"
	"github.com/trendkart/order-service/internal/order/domain"
)

// OrderRepository persists orders together with their outbox events in one
// transaction. UpdateStatus is a compare-and-set on the current status: it
// returns domain.ErrNotFound when the order is missing and
// domain.ErrInvalidTransition when the stored status no longer matches from.
type OrderRepository interface {
	CreateWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatusWithOutbox(ctx context.Context, id string, from, to domain.Status, eventType string, payload []byte, traceparent string) error
}

// InventoryLedger is the all-or-nothing reservation boundary.
type InventoryLedger interface {
	Reserve(ctx context.Context, lines []invdomain.Line) error
	Release(ctx context.Context, lines []invdomain.Line) error
}
