package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/cart/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/inventory"
)

var (
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrStockLimitExceeded = errors.New("requested quantity exceeds available stock")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrLineNotFound       = errors.New("line not found in cart")
)

// Service maintains the authoritative cart for each session and keeps it
// consistent with the stock collaborator. Every mutation is validated
// against stock first and persisted in full afterwards.
type Service struct {
	repo  repository.CartRepository
	stock inventory.Store
}

func NewService(repo repository.CartRepository, stock inventory.Store) *Service {
	return &Service{
		repo:  repo,
		stock: stock,
	}
}

func (s *Service) Get(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	return s.repo.Load(ctx, sessionID)
}

// AddItem merges the given line into the cart. Two additions with the same
// (product, color, size) key increment a single line. The mutation is
// rejected, without persisting anything, when the stock collaborator reports
// the pair unavailable or the prospective total exceeds the available cap.
func (s *Service) AddItem(ctx context.Context, sessionID string, line domain.CartLine) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}

	available, err := s.stock.CheckStock(ctx, line.Product.ID, line.Color)
	if err != nil {
		// Fail closed: an unanswered stock check never unlocks a sale.
		log.Printf("stock check failed for product %s: %v", line.Product.ID, err)
		return ErrOutOfStock
	}
	if !available {
		return ErrOutOfStock
	}

	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	existing := findLine(lines, line.Key())
	prospective := line.Quantity
	if existing >= 0 {
		prospective += lines[existing].Quantity
	}

	if limit := availableStock(line); limit != nil && prospective > *limit {
		return ErrStockLimitExceeded
	}

	if existing >= 0 {
		lines[existing].Quantity = prospective
	} else {
		line.AddedAt = time.Now()
		lines = append(lines, line)
	}

	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return err
	}

	if line.Color != "" {
		log.Printf("added %q (%s) x%d to cart %s", line.Product.Title, line.Color, line.Quantity, sessionID)
	} else {
		log.Printf("added %q x%d to cart %s", line.Product.Title, line.Quantity, sessionID)
	}
	return nil
}

// UpdateQuantity sets the quantity of the line matching (productID, color).
// A non-positive quantity removes the line instead. The new quantity is
// re-validated against stock; on failure the cart is left unchanged.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int, color string) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID, color)
	}

	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	idx := -1
	for i, l := range lines {
		if l.Product.ID == productID && l.Color == color {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrLineNotFound
	}

	available, err := s.stock.CheckStock(ctx, productID, color)
	if err != nil {
		log.Printf("stock check failed for product %s: %v", productID, err)
		return ErrOutOfStock
	}
	if !available {
		return ErrOutOfStock
	}

	if limit := availableStock(lines[idx]); limit != nil && quantity > *limit {
		return ErrStockLimitExceeded
	}

	lines[idx].Quantity = quantity
	return s.repo.Save(ctx, sessionID, lines)
}

// RemoveItem removes the line matching the exact (productID, color) pair.
// When color is empty it removes ALL lines for the product regardless of
// color — callers wanting single-variant removal must pass the color.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID, color string) error {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	kept := lines[:0]
	for _, l := range lines {
		if l.Product.ID == productID && (color == "" || l.Color == color) {
			continue
		}
		kept = append(kept, l)
	}
	if len(kept) == len(lines) {
		return ErrLineNotFound
	}

	return s.repo.Save(ctx, sessionID, kept)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}

// Subtotal is the discount-aware sum of line extensions.
func Subtotal(lines []domain.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Extension()
	}
	return sum
}

// Total is the subtotal plus the selected delivery method's flat fee, or
// the subtotal alone when no method is selected.
func Total(lines []domain.CartLine, method *domain.DeliveryMethod) float64 {
	total := Subtotal(lines)
	if method != nil {
		total += method.Fee
	}
	return total
}

// DecrementResult reports the outcome of one line's stock decrement.
type DecrementResult struct {
	Line domain.CartLine
	Err  error
}

// DecreaseStockForItems deducts stock for the given lines, one call per
// line, color included. It stops at the first failing line and does NOT
// roll back prior successful decrements; callers get the per-line results
// so partial failures can be escalated to an operator.
func (s *Service) DecreaseStockForItems(ctx context.Context, lines []domain.CartLine) ([]DecrementResult, error) {
	results := make([]DecrementResult, 0, len(lines))
	for _, l := range lines {
		err := s.stock.DecreaseStock(ctx, l.Product.ID, l.Quantity, l.Color)
		results = append(results, DecrementResult{Line: l, Err: err})
		if err != nil {
			log.Printf("stock decrement failed for product %s (%s): %v", l.Product.ID, l.Color, err)
			return results, fmt.Errorf("decrease stock for product %s: %w", l.Product.ID, err)
		}
	}
	return results, nil
}

func findLine(lines []domain.CartLine, key domain.LineKey) int {
	for i, l := range lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// availableStock resolves the quantity cap for a line: the selected
// variant's stock when a color is chosen on a variant product, else the
// product's own. A nil result means "unknown/unlimited" — no cap applies
// as long as the stock check passed.
func availableStock(line domain.CartLine) *int {
	if line.Color != "" && len(line.Product.Variants) > 0 {
		if v := line.Product.Variant(line.Color); v != nil {
			return v.StockQuantity
		}
	}
	return line.Product.StockQuantity
}
