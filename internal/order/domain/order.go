package domain

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPlaced     Status = "Placed"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// transitions lists the legal next states. The lifecycle runs strictly
// forward except Cancelled, which is reachable from any non-terminal state.
// Delivered and Cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPlaced:     {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  nil,
	StatusCancelled:  nil,
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Line is one cart entry. Lines never exist outside an order.
type Line struct {
	ProductID string
	Size      string
	Quantity  int
}

// Address is captured at order-creation time and never re-derived from a
// live customer profile, so later profile edits don't rewrite history.
type Address struct {
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.Zip != "" && a.Country != ""
}

// Order records what was reserved at placement. Everything except Status is
// immutable once created; Status changes only through the status machine.
type Order struct {
	ID            string
	CustomerID    string
	Lines         []Line
	Address       Address
	PaymentMethod string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewOrder(customerID string, lines []Line, address Address, paymentMethod string) Order {
	now := time.Now().UTC()
	return Order{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		Lines:         lines,
		Address:       address,
		PaymentMethod: paymentMethod,
		Status:        StatusPlaced,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
