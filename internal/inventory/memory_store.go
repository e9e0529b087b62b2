package inventory

import (
	"context"
	"sync"
)

type stockKey struct {
	productID string
	color     string
}

type stockRecord struct {
	quantity  int
	unlimited bool
}

// MemoryStore implements Store with in-memory storage. It is seeded from
// the catalog at startup and mutated only through DecreaseStock.
type MemoryStore struct {
	mu     sync.RWMutex
	stocks map[stockKey]*stockRecord
}

// NewMemoryStore creates an empty in-memory inventory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stocks: make(map[stockKey]*stockRecord),
	}
}

// SetStock sets the available quantity for a (product, color) pair.
func (s *MemoryStore) SetStock(productID, color string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[stockKey{productID, color}] = &stockRecord{quantity: quantity}
}

// SetUnlimited marks a (product, color) pair as sellable without a cap.
func (s *MemoryStore) SetUnlimited(productID, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[stockKey{productID, color}] = &stockRecord{unlimited: true}
}

func (s *MemoryStore) CheckStock(_ context.Context, productID, color string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.lookup(productID, color)
	if err != nil {
		return false, err
	}
	return rec.unlimited || rec.quantity > 0, nil
}

func (s *MemoryStore) DecreaseStock(_ context.Context, productID string, quantity int, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(productID, color)
	if err != nil {
		return err
	}
	if rec.unlimited {
		return nil
	}
	if rec.quantity < quantity {
		return ErrInsufficientStock
	}
	rec.quantity -= quantity
	return nil
}

// lookup resolves the record for a pair, falling back to the product's base
// record when no color-level one exists (legacy color-list products carry a
// single stock pool). Callers must hold the lock.
func (s *MemoryStore) lookup(productID, color string) (*stockRecord, error) {
	if rec, ok := s.stocks[stockKey{productID, color}]; ok {
		return rec, nil
	}
	if color != "" {
		if rec, ok := s.stocks[stockKey{productID, ""}]; ok {
			return rec, nil
		}
	}
	return nil, ErrProductNotFound
}
