package catalog

import (
	"strings"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

// Project fans each product's color variants out into independent display
// entries, preserving product order and the order variants were listed in.
// Products without variants pass through unchanged. Duplicate color strings
// are not deduplicated here; uniqueness is a form-validation concern.
func Project(products []domain.Product) []domain.DisplayProduct {
	out := make([]domain.DisplayProduct, 0, len(products))
	for _, p := range products {
		if len(p.Variants) == 0 {
			out = append(out, domain.DisplayProduct{Product: p})
			continue
		}
		for _, v := range p.Variants {
			out = append(out, projectVariant(p, v))
		}
	}
	return out
}

// VariantID derives the stable display id for a (product, color) pair.
// The same pair always yields the same id; it is used for cart line
// identity and deep-linking.
func VariantID(parentID, color string) string {
	return parentID + "-" + slugify(color)
}

func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

func projectVariant(p domain.Product, v domain.ColorVariant) domain.DisplayProduct {
	d := p
	d.ID = VariantID(p.ID, v.Color)
	d.Price = v.Price
	// Discount never falls back to the parent's discount.
	d.DiscountPrice = v.DiscountPrice
	if v.ImageURL != "" {
		d.ImageURL = v.ImageURL
	}
	d.StockQuantity = v.StockQuantity
	if v.StockQuantity != nil {
		d.InStock = *v.StockQuantity > 0
	}
	if v.ArticleNumber != "" {
		d.ArticleNumber = v.ArticleNumber
	}
	if v.Barcode != "" {
		d.Barcode = v.Barcode
	}
	if v.OzonURL != "" {
		d.OzonURL = v.OzonURL
	}
	if v.WildberriesURL != "" {
		d.WildberriesURL = v.WildberriesURL
	}
	if v.AvitoURL != "" {
		d.AvitoURL = v.AvitoURL
	}
	// A derived entry represents exactly one color; suppress the variant
	// list so consumers don't render it as a multi-variant product.
	d.Variants = nil
	d.LegacyColors = nil

	return domain.DisplayProduct{
		Product:          d,
		ParentID:         p.ID,
		Color:            v.Color,
		FromColorVariant: true,
	}
}
