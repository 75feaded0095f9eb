package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownProduct    = errors.New("unknown product")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Key identifies a single stock counter.
type Key struct {
	ProductID string
	Size      string
}

// Line is one product/size/quantity demand against the ledger.
type Line struct {
	ProductID string
	Size      string
	Quantity  int
}

func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, Size: l.Size}
}

// StockEntry is the authoritative counter for one product/size.
// Available never goes below zero; the ledger enforces this, not its callers.
type StockEntry struct {
	ProductID string
	Size      string
	Available int
}

// LineError wraps a ledger sentinel with the offending line so callers can
// report which part of the cart failed.
func LineError(sentinel error, l Line) error {
	return fmt.Errorf("%w: product %s size %q quantity %d", sentinel, l.ProductID, l.Size, l.Quantity)
}
