package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/catalog/cache"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/catalog/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

const displayListKey = "display-products"

// Service serves the projected catalog. The display list is cached; loads
// on a cache miss go through singleflight so concurrent listings don't
// stampede the repository.
type Service struct {
	repo  repository.CatalogRepository
	cache cache.CatalogCache
	sfg   singleflight.Group
}

func NewService(repo repository.CatalogRepository, cache cache.CatalogCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// DisplayProducts returns the full projected display list.
func (s *Service) DisplayProducts(ctx context.Context) ([]domain.DisplayProduct, error) {
	v, err, _ := s.sfg.Do(displayListKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("catalog cache get error: %v", err) // log cache error but continue
		}

		raw, errGet := s.repo.GetAllProducts(ctx)
		if errGet != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", errGet)
		}

		projected := Project(raw)

		go func() {
			if errSet := s.cache.Set(context.Background(), projected); errSet != nil {
				log.Printf("catalog cache set error: %v", errSet)
			}
		}()

		return projected, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.DisplayProduct), nil
}

// List applies the filter set and sort order over the projected catalog.
func (s *Service) List(ctx context.Context, f Filter, order SortOrder) (*ListResult, error) {
	products, err := s.DisplayProducts(ctx)
	if err != nil {
		return nil, err
	}

	res := Apply(products, f, order)
	return &res, nil
}

// GetDisplayProduct looks an entry up by display id, which is either a raw
// product id or a derived variant id.
func (s *Service) GetDisplayProduct(ctx context.Context, id string) (*domain.DisplayProduct, error) {
	products, err := s.DisplayProducts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, repository.ErrProductNotFound
}

// ResolveForCart maps a display id to the catalog product a cart line must
// reference: variant-derived entries route back to their parent product and
// selected color, plain entries resolve to themselves.
func (s *Service) ResolveForCart(ctx context.Context, displayID string) (*domain.Product, string, *domain.ColorVariant, error) {
	d, err := s.GetDisplayProduct(ctx, displayID)
	if err != nil {
		return nil, "", nil, err
	}

	id := d.ID
	if d.FromColorVariant {
		id = d.ParentID
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}

	if !d.FromColorVariant {
		return p, "", nil, nil
	}

	variant := p.Variant(d.Color)
	if variant == nil {
		return nil, "", nil, fmt.Errorf("variant %q of product %s: %w", d.Color, p.ID, repository.ErrProductNotFound)
	}
	return p, d.Color, variant, nil
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.GetCategories(ctx)
}
