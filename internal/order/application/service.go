package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trendkart/order-service/internal/auth"
	invdomain "github.com/trendkart/order-service/internal/inventory/domain"
	"github.com/trendkart/order-service/internal/order/domain"
	"github.com/trendkart/order-service/pkg/tracing"
)

const (
	eventOrderPlaced        = "OrderPlaced"
	eventOrderStatusChanged = "OrderStatusChanged"
)

type Service struct {
	log    *slog.Logger
	repo   OrderRepository
	ledger InventoryLedger
}

func NewService(log *slog.Logger, repo OrderRepository, ledger InventoryLedger) *Service {
	return &Service{log: log, repo: repo, ledger: ledger}
}

// PlaceOrder turns a cart into a persisted order, or fails with no side
// effects. Inventory commitment and order creation behave as one logical
// transaction: the reservation happens first, and if persistence fails
// afterwards the reservation is released before the error surfaces.
func (s *Service) PlaceOrder(ctx context.Context, customerID string, lines []domain.Line, address domain.Address, paymentMethod string) (domain.Order, error) {
	if err := validatePlacement(customerID, lines, address); err != nil {
		return domain.Order{}, err
	}

	reservation := reservationLines(lines)
	if err := s.ledger.Reserve(ctx, reservation); err != nil {
		return domain.Order{}, err
	}

	o := domain.NewOrder(customerID, lines, address, paymentMethod)
	payload, err := json.Marshal(domain.OrderPlaced{OrderID: o.ID, CustomerID: customerID, Lines: lines})
	if err != nil {
		return domain.Order{}, s.compensate(ctx, reservation, fmt.Errorf("marshal event: %w", err))
	}
	if err := s.repo.CreateWithOutbox(ctx, o, eventOrderPlaced, payload, tracing.Traceparent(ctx)); err != nil {
		return domain.Order{}, s.compensate(ctx, reservation, fmt.Errorf("persist order: %w", err))
	}

	s.log.Info("order placed", "order_id", o.ID, "customer_id", customerID, "lines", len(lines))
	return o, nil
}

// compensate releases a reservation taken for an order that never came to
// exist, so stock is not lost.
func (s *Service) compensate(ctx context.Context, reservation []invdomain.Line, cause error) error {
	if relErr := s.ledger.Release(ctx, reservation); relErr != nil {
		s.log.Error("compensating release failed", "err", relErr, "cause", cause)
		return errors.Join(cause, relErr)
	}
	s.log.Warn("reservation rolled back", "cause", cause)
	return cause
}

func (s *Service) OrdersForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id required", domain.ErrValidation)
	}
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) AllOrders(ctx context.Context, caller auth.Identity) ([]domain.Order, error) {
	if !caller.Operator {
		return nil, auth.ErrUnauthorized
	}
	return s.repo.ListAll(ctx)
}

// GetOrder returns one order to its owner or to an operator. Other callers
// get ErrNotFound so the order's existence is not leaked.
func (s *Service) GetOrder(ctx context.Context, caller auth.Identity, id string) (domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !caller.Operator && o.CustomerID != caller.CustomerID {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

// UpdateStatus advances an order through the status machine. The persisted
// transition is a compare-and-set on the current status, so of two
// concurrent updates at most one wins. Cancellation releases the order's
// reserved stock after the status is durably Cancelled; since Cancelled is
// terminal, that release can run at most once per order.
func (s *Service) UpdateStatus(ctx context.Context, caller auth.Identity, orderID string, requested domain.Status) (domain.Order, error) {
	if !caller.Operator {
		return domain.Order{}, auth.ErrUnauthorized
	}
	if !requested.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, requested)
	}

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.Status.CanTransitionTo(requested) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, requested)
	}

	payload, err := json.Marshal(domain.OrderStatusChanged{OrderID: o.ID, From: o.Status, To: requested})
	if err != nil {
		return domain.Order{}, fmt.Errorf("marshal event: %w", err)
	}
	if err := s.repo.UpdateStatusWithOutbox(ctx, o.ID, o.Status, requested, eventOrderStatusChanged, payload, tracing.Traceparent(ctx)); err != nil {
		return domain.Order{}, err
	}

	if requested == domain.StatusCancelled {
		if err := s.ledger.Release(ctx, reservationLines(o.Lines)); err != nil {
			s.log.Error("release after cancellation failed", "order_id", o.ID, "err", err)
			return domain.Order{}, fmt.Errorf("release reserved stock: %w", err)
		}
	}

	s.log.Info("order status updated", "order_id", o.ID, "from", o.Status, "to", requested)
	o.Status = requested
	return o, nil
}

func validatePlacement(customerID string, lines []domain.Line, address domain.Address) error {
	switch {
	case customerID == "":
		return fmt.Errorf("%w: customer id required", domain.ErrValidation)
	case len(lines) == 0:
		return fmt.Errorf("%w: order has no lines", domain.ErrValidation)
	case !address.Complete():
		return fmt.Errorf("%w: incomplete shipping address", domain.ErrValidation)
	}
	for _, line := range lines {
		if line.ProductID == "" {
			return fmt.Errorf("%w: line missing product id", domain.ErrValidation)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: non-positive quantity %d for product %s", domain.ErrValidation, line.Quantity, line.ProductID)
		}
	}
	return nil
}

func reservationLines(lines []domain.Line) []invdomain.Line {
	out := make([]invdomain.Line, len(lines))
	for i, l := range lines {
		out[i] = invdomain.Line{ProductID: l.ProductID, Size: l.Size, Quantity: l.Quantity}
	}
	return out
}
