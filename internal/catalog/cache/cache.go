package cache

import (
	"context"
	"errors"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

// CatalogCache holds the projected display-product list. The catalog is
// read-only from the storefront's perspective, so entries expire by TTL
// rather than being invalidated.
type CatalogCache interface {
	Get(ctx context.Context) ([]domain.DisplayProduct, error)
	Set(ctx context.Context, products []domain.DisplayProduct) error
}

var ErrCacheMiss = errors.New("cache miss")
