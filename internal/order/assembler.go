package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/cart"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/order/repository"
)

var (
	ErrEmptyCart             = errors.New("cart is empty, nothing to order")
	ErrMissingContactField   = errors.New("missing required contact field")
	ErrMissingTelegramHandle = errors.New("telegram handle is required for telegram contact")
)

// Notifier receives the post-commit order summary. It is structurally
// incapable of failing order placement: the assembler logs and swallows
// every error it returns.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
}

// CheckoutDetails is the customer-supplied contact and delivery form.
type CheckoutDetails struct {
	Name           string
	Phone          string
	Email          string
	Address        string
	ContactMethod  string
	TelegramHandle string
	DeliveryMethod *domain.DeliveryMethod
}

func (d CheckoutDetails) validate() error {
	for _, field := range []string{d.Name, d.Phone, d.Email, d.Address} {
		if strings.TrimSpace(field) == "" {
			return ErrMissingContactField
		}
	}
	if d.ContactMethod == "telegram" && strings.TrimSpace(d.TelegramHandle) == "" {
		return ErrMissingTelegramHandle
	}
	return nil
}

// Assembler freezes a cart snapshot plus checkout details into an immutable
// order. The cart is cleared only after the order persisted; the stock
// decrement and the notification relay run post-commit, best-effort.
type Assembler struct {
	carts    *cart.Service
	orders   repository.OrderRepository
	notifier Notifier
}

func NewAssembler(carts *cart.Service, orders repository.OrderRepository, notifier Notifier) *Assembler {
	return &Assembler{
		carts:    carts,
		orders:   orders,
		notifier: notifier,
	}
}

func (a *Assembler) PlaceOrder(ctx context.Context, sessionID string, details CheckoutDetails) (*domain.Order, error) {
	if err := details.validate(); err != nil {
		return nil, err
	}

	lines, err := a.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := assemble(sessionID, lines, details)

	if err := a.orders.Create(ctx, order); err != nil {
		// Blocking failure, no partial state: the cart stays intact.
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if results, errDec := a.carts.DecreaseStockForItems(ctx, lines); errDec != nil {
		// Best-effort and non-transactional: already-decremented lines are
		// not rolled back, an operator has to reconcile.
		log.Printf("order %s: stock decrement incomplete after %d of %d lines: %v",
			order.ID, len(results), len(lines), errDec)
	}

	if errNotify := a.notifier.OrderPlaced(ctx, order); errNotify != nil {
		log.Printf("order %s: notification relay failed: %v", order.ID, errNotify)
	}

	if errClear := a.carts.Clear(ctx, sessionID); errClear != nil {
		log.Printf("order %s: failed to clear cart: %v", order.ID, errClear)
	}

	return order, nil
}

// assemble snapshots the cart lines into order items. The total is
// recomputed here, never copied from a cached cart subtotal.
func assemble(sessionID string, lines []domain.CartLine, details CheckoutDetails) *domain.Order {
	items := make([]domain.OrderItem, 0, len(lines))
	var total float64
	for _, l := range lines {
		item := domain.OrderItem{
			ProductID:     l.Product.ID,
			ProductName:   l.Product.Title,
			UnitPrice:     l.UnitPrice(),
			Quantity:      l.Quantity,
			Color:         l.Color,
			Size:          l.Size,
			ArticleNumber: l.ArticleNumber(),
		}
		items = append(items, item)
		total += item.Subtotal()
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		Items:           items,
		Total:           total,
		Status:          domain.StatusNew,
		DeliveryAddress: details.Address,
		Contact: domain.ContactInfo{
			Name:           details.Name,
			Phone:          details.Phone,
			Email:          details.Email,
			Address:        details.Address,
			Method:         details.ContactMethod,
			TelegramHandle: details.TelegramHandle,
		},
		CreatedAt: time.Now(),
	}
	if details.DeliveryMethod != nil {
		order.DeliveryMethod = details.DeliveryMethod.ID
		order.DeliveryFee = details.DeliveryMethod.Fee
		order.Total += details.DeliveryMethod.Fee
	}
	return order
}
