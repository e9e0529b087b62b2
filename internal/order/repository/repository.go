package repository

import (
	"context"
	"errors"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrDuplicateOrder    = errors.New("order already exists")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// OrderRepository persists assembled orders. Creation is the storefront's
// only write; status and tracking mutations belong to the back-office and
// are guarded by the domain transition table.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	SetTracking(ctx context.Context, id, number, url string) error
}
