package domain

import "time"

// CartLine is a single logical line in a cart. It carries a full denormalized
// Product snapshot rather than just an id, since catalog data may change
// after the item was added.
type CartLine struct {
	Product  Product       `json:"product" bson:"product"`
	Color    string        `json:"color,omitempty" bson:"color,omitempty"`
	Size     string        `json:"size,omitempty" bson:"size,omitempty"`
	Variant  *ColorVariant `json:"variant,omitempty" bson:"variant,omitempty"`
	Quantity int           `json:"quantity" bson:"quantity"`
	AddedAt  time.Time     `json:"added_at" bson:"added_at"`
}

// LineKey identifies a logical cart line. Two additions with the same key
// are the same line and must be merged, not duplicated.
type LineKey struct {
	ProductID string
	Color     string
	Size      string
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Color: l.Color, Size: l.Size}
}

// UnitPrice is the per-unit price of the line: the selected variant's
// discount-or-base price when a variant was chosen, else the product's own.
func (l CartLine) UnitPrice() float64 {
	if l.Variant != nil {
		if l.Variant.DiscountPrice != nil {
			return *l.Variant.DiscountPrice
		}
		return l.Variant.Price
	}
	return l.Product.EffectivePrice()
}

// Extension is the line total (unit price times quantity).
func (l CartLine) Extension() float64 {
	return l.UnitPrice() * float64(l.Quantity)
}

// ArticleNumber is the variant's article number when one was selected and
// carries its own, else the product's.
func (l CartLine) ArticleNumber() string {
	if l.Variant != nil && l.Variant.ArticleNumber != "" {
		return l.Variant.ArticleNumber
	}
	return l.Product.ArticleNumber
}

// Valid reports whether a persisted line is usable. Lines failing this check
// are dropped silently when a cart is loaded from storage.
func (l CartLine) Valid() bool {
	return l.Product.ID != "" && l.Product.Title != "" && l.Quantity >= 1
}

// DeliveryMethod is a named delivery option with a flat fee.
type DeliveryMethod struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}
