package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

// Filter holds the active filter set. A zero/absent value disables the
// corresponding predicate.
type Filter struct {
	Search      string
	Color       string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
}

// SortOrder names one of the supported total orderings.
type SortOrder string

const (
	SortDefault   SortOrder = ""
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortInStock   SortOrder = "in-stock"
	SortNew       SortOrder = "new"
	SortPopular   SortOrder = "popular"
)

// ListResult is the outcome of filtering and sorting a candidate list.
// AvailableColors is computed over the UNFILTERED candidates so filter
// chips don't disappear when a filter narrows the list.
type ListResult struct {
	Products        []domain.DisplayProduct `json:"products"`
	InStockCount    int                     `json:"in_stock_count"`
	OutOfStockCount int                     `json:"out_of_stock_count"`
	AvailableColors []string                `json:"available_colors"`
}

// Apply reduces candidates to those matching the filter set, then orders
// them. Candidates are not modified.
func Apply(candidates []domain.DisplayProduct, f Filter, order SortOrder) ListResult {
	res := ListResult{
		Products:        make([]domain.DisplayProduct, 0, len(candidates)),
		AvailableColors: distinctColors(candidates),
	}

	for _, d := range candidates {
		if !matches(d, f) {
			continue
		}
		if d.InStock {
			res.InStockCount++
		} else {
			res.OutOfStockCount++
		}
		res.Products = append(res.Products, d)
	}

	sortProducts(res.Products, order)
	return res
}

func matches(d domain.DisplayProduct, f Filter) bool {
	if f.Color != "" && !hasColor(d, f.Color) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(d.Title), needle) &&
			!strings.Contains(strings.ToLower(d.Description), needle) &&
			!strings.Contains(strings.ToLower(d.Category), needle) {
			return false
		}
	}
	price := d.EffectivePrice()
	if f.MinPrice != nil && price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && price > *f.MaxPrice {
		return false
	}
	if f.InStockOnly && !d.InStock {
		return false
	}
	return true
}

func hasColor(d domain.DisplayProduct, color string) bool {
	for _, c := range d.Colors() {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// distinctColors collects the color set across all candidates, first-seen
// spelling wins, case-insensitive dedup.
func distinctColors(candidates []domain.DisplayProduct) []string {
	seen := make(map[string]struct{})
	var colors []string
	for _, d := range candidates {
		for _, c := range d.Colors() {
			k := strings.ToLower(c)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			colors = append(colors, c)
		}
	}
	return colors
}

func sortProducts(products []domain.DisplayProduct, order SortOrder) {
	// Collators keep internal buffers, so build one per call.
	coll := collate.New(language.Und)
	byTitle := func(i, j int) bool {
		return coll.CompareString(products[i].Title, products[j].Title) < 0
	}

	switch order {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			pi, pj := products[i].EffectivePrice(), products[j].EffectivePrice()
			if pi != pj {
				return pi < pj
			}
			return byTitle(i, j)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			pi, pj := products[i].EffectivePrice(), products[j].EffectivePrice()
			if pi != pj {
				return pi > pj
			}
			return byTitle(i, j)
		})
	case SortInStock:
		// In-stock first, titles ascending within each stock group.
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].InStock != products[j].InStock {
				return products[i].InStock
			}
			return byTitle(i, j)
		})
	case SortNew:
		// New first, original order within each group.
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsNew && !products[j].IsNew
		})
	case SortPopular:
		// Rating descending, bestsellers win ties, insertion order last.
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].Rating != products[j].Rating {
				return products[i].Rating > products[j].Rating
			}
			return products[i].IsBestseller && !products[j].IsBestseller
		})
	default:
		sort.SliceStable(products, byTitle)
	}
}
