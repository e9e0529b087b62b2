package domain

import "time"

// ColorVariant is one purchasable color of a catalog product. Price and
// discount are always the variant's own; image, stock and marketplace links
// fall back to the parent product when absent (see catalog.Project).
type ColorVariant struct {
	Color          string   `json:"color" bson:"color"`
	Price          float64  `json:"price" bson:"price"`
	DiscountPrice  *float64 `json:"discount_price,omitempty" bson:"discount_price,omitempty"`
	StockQuantity  *int     `json:"stock_quantity,omitempty" bson:"stock_quantity,omitempty"`
	ArticleNumber  string   `json:"article_number,omitempty" bson:"article_number,omitempty"`
	Barcode        string   `json:"barcode,omitempty" bson:"barcode,omitempty"`
	ImageURL       string   `json:"image_url,omitempty" bson:"image_url,omitempty"`
	OzonURL        string   `json:"ozon_url,omitempty" bson:"ozon_url,omitempty"`
	WildberriesURL string   `json:"wildberries_url,omitempty" bson:"wildberries_url,omitempty"`
	AvitoURL       string   `json:"avito_url,omitempty" bson:"avito_url,omitempty"`
}

// Product is a catalog record as the admin back-office owns it. The core
// treats it as read-only. A nil StockQuantity means "unknown/unlimited";
// when StockQuantity is set, InStock must equal StockQuantity > 0.
type Product struct {
	ID              string         `json:"id" bson:"id"`
	Title           string         `json:"title" bson:"title"`
	Description     string         `json:"description" bson:"description"`
	Price           float64        `json:"price" bson:"price"`
	DiscountPrice   *float64       `json:"discount_price,omitempty" bson:"discount_price,omitempty"`
	Category        string         `json:"category" bson:"category"`
	ImageURL        string         `json:"image_url" bson:"image_url"`
	Images          []string       `json:"images,omitempty" bson:"images,omitempty"`
	Rating          float64        `json:"rating" bson:"rating"`
	InStock         bool           `json:"in_stock" bson:"in_stock"`
	StockQuantity   *int           `json:"stock_quantity,omitempty" bson:"stock_quantity,omitempty"`
	Variants        []ColorVariant `json:"variants,omitempty" bson:"variants,omitempty"`
	LegacyColors    []string       `json:"colors,omitempty" bson:"colors,omitempty"`
	Sizes           []string       `json:"sizes,omitempty" bson:"sizes,omitempty"`
	ArticleNumber   string         `json:"article_number,omitempty" bson:"article_number,omitempty"`
	Barcode         string         `json:"barcode,omitempty" bson:"barcode,omitempty"`
	CountryOfOrigin string         `json:"country_of_origin,omitempty" bson:"country_of_origin,omitempty"`
	Material        string         `json:"material,omitempty" bson:"material,omitempty"`
	IsNew           bool           `json:"is_new" bson:"is_new"`
	IsBestseller    bool           `json:"is_bestseller" bson:"is_bestseller"`
	Archived        bool           `json:"archived" bson:"archived"`
	OzonURL         string         `json:"ozon_url,omitempty" bson:"ozon_url,omitempty"`
	WildberriesURL  string         `json:"wildberries_url,omitempty" bson:"wildberries_url,omitempty"`
	AvitoURL        string         `json:"avito_url,omitempty" bson:"avito_url,omitempty"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
}

// EffectivePrice is the price used for filtering, sorting and cart totals:
// the discount price when present, the base price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// Variant returns the color variant with the given color (exact match),
// or nil when the product has no such variant.
func (p Product) Variant(color string) *ColorVariant {
	for i := range p.Variants {
		if p.Variants[i].Color == color {
			return &p.Variants[i]
		}
	}
	return nil
}

// DisplayProduct is a catalog entry as shown in a listing. It is either a
// whole Product passed through unchanged, or a single color variant fanned
// out into its own entry, in which case FromColorVariant is set, ParentID
// points at the source product and ID is the derived variant id.
type DisplayProduct struct {
	Product

	ParentID         string `json:"parent_id,omitempty"`
	Color            string `json:"color,omitempty"`
	FromColorVariant bool   `json:"from_color_variant,omitempty"`
}

// Colors lists the colors this entry answers to: just its own color for a
// variant-derived entry, otherwise all variant colors plus the legacy
// color name list.
func (d DisplayProduct) Colors() []string {
	if d.FromColorVariant {
		return []string{d.Color}
	}
	colors := make([]string, 0, len(d.Variants)+len(d.LegacyColors))
	for _, v := range d.Variants {
		colors = append(colors, v.Color)
	}
	colors = append(colors, d.LegacyColors...)
	return colors
}
