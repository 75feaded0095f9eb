package memory

import (
	"context"
	"sync"

	"github.com/trendkart/order-service/internal/inventory/domain"
)

// Store is a mutex-guarded in-memory ledger used by tests and local runs.
// Reserve is two-pass under one lock: validate every line against current
// counters first, apply the decrements only when all of them fit. Concurrent
// reservations therefore serialize on the lock and can never interleave
// partial decrements.
type Store struct {
	mu     sync.Mutex
	stocks map[domain.Key]int
}

func NewStore() *Store {
	return &Store{stocks: make(map[domain.Key]int)}
}

// SetStock seeds or overwrites a counter.
func (s *Store) SetStock(productID, size string, available int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[domain.Key{ProductID: productID, Size: size}] = available
}

func (s *Store) Stock(_ context.Context, key domain.Key) (domain.StockEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	available, ok := s.stocks[key]
	if !ok {
		return domain.StockEntry{}, domain.ErrUnknownProduct
	}
	return domain.StockEntry{ProductID: key.ProductID, Size: key.Size, Available: available}, nil
}

func (s *Store) Reserve(_ context.Context, lines []domain.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: aggregate demand per key and check it fits.
	need := make(map[domain.Key]int, len(lines))
	for _, line := range lines {
		key := line.Key()
		available, ok := s.stocks[key]
		if !ok {
			return domain.LineError(domain.ErrUnknownProduct, line)
		}
		need[key] += line.Quantity
		if need[key] > available {
			return domain.LineError(domain.ErrInsufficientStock, line)
		}
	}

	// Second pass: apply.
	for key, quantity := range need {
		s.stocks[key] -= quantity
	}
	return nil
}

func (s *Store) Release(_ context.Context, lines []domain.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range lines {
		if _, ok := s.stocks[line.Key()]; !ok {
			return domain.LineError(domain.ErrUnknownProduct, line)
		}
	}
	for _, line := range lines {
		s.stocks[line.Key()] += line.Quantity
	}
	return nil
}
