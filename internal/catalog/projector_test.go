package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestProject_ProductWithoutVariantsPassesThrough(t *testing.T) {
	p := domain.Product{ID: "p-1", Title: "Plain Mug", Price: 100, InStock: true}

	out := Project([]domain.Product{p})

	require.Len(t, out, 1)
	assert.Equal(t, "p-1", out[0].ID)
	assert.False(t, out[0].FromColorVariant)
	assert.Empty(t, out[0].ParentID)
	assert.Equal(t, 100.0, out[0].Price)
}

func TestProject_VariantsBecomeIndependentEntries(t *testing.T) {
	p := domain.Product{
		ID:       "p-2",
		Title:    "Hoodie",
		Price:    500,
		ImageURL: "parent.jpg",
		InStock:  true,
		Variants: []domain.ColorVariant{
			{Color: "Deep Red", Price: 450, StockQuantity: intPtr(3), ImageURL: "red.jpg"},
			{Color: "blue", Price: 470, StockQuantity: intPtr(0)},
		},
	}

	out := Project([]domain.Product{p})
	require.Len(t, out, 2)

	red := out[0]
	assert.Equal(t, "p-2-deep-red", red.ID)
	assert.Equal(t, "p-2", red.ParentID)
	assert.Equal(t, "Deep Red", red.Color)
	assert.True(t, red.FromColorVariant)
	assert.Equal(t, 450.0, red.Price)
	assert.Equal(t, "red.jpg", red.ImageURL)
	assert.True(t, red.InStock)
	assert.Empty(t, red.Variants)

	blue := out[1]
	assert.Equal(t, "p-2-blue", blue.ID)
	// Image falls back to the parent's when the variant has none.
	assert.Equal(t, "parent.jpg", blue.ImageURL)
	// Zero stock overrides the parent's in-stock flag.
	assert.False(t, blue.InStock)
}

func TestProject_DiscountDoesNotFallBackToParent(t *testing.T) {
	p := domain.Product{
		ID:            "p-3",
		Title:         "Lamp",
		Price:         1000,
		DiscountPrice: floatPtr(800),
		Variants: []domain.ColorVariant{
			{Color: "white", Price: 900},
			{Color: "black", Price: 950, DiscountPrice: floatPtr(700)},
		},
	}

	out := Project([]domain.Product{p})
	require.Len(t, out, 2)
	assert.Nil(t, out[0].DiscountPrice)
	assert.Equal(t, 900.0, out[0].EffectivePrice())
	require.NotNil(t, out[1].DiscountPrice)
	assert.Equal(t, 700.0, out[1].EffectivePrice())
}

func TestProject_UnknownVariantStockInheritsParentFlag(t *testing.T) {
	p := domain.Product{
		ID:      "p-4",
		Title:   "Chair",
		InStock: true,
		Variants: []domain.ColorVariant{
			{Color: "oak", Price: 3000}, // no stock quantity
		},
	}

	out := Project([]domain.Product{p})
	require.Len(t, out, 1)
	assert.Nil(t, out[0].StockQuantity)
	assert.True(t, out[0].InStock)
}

func TestProject_MarketplaceLinksFallBackToParent(t *testing.T) {
	p := domain.Product{
		ID:             "p-5",
		Title:          "Rug",
		OzonURL:        "https://ozon.example/p-5",
		WildberriesURL: "https://wb.example/p-5",
		Variants: []domain.ColorVariant{
			{Color: "green", Price: 100, OzonURL: "https://ozon.example/p-5-green"},
		},
	}

	out := Project([]domain.Product{p})
	require.Len(t, out, 1)
	assert.Equal(t, "https://ozon.example/p-5-green", out[0].OzonURL)
	assert.Equal(t, "https://wb.example/p-5", out[0].WildberriesURL)
}

func TestProject_PreservesOrderAcrossProducts(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Title: "A", Variants: []domain.ColorVariant{{Color: "x", Price: 1}, {Color: "y", Price: 2}}},
		{ID: "b", Title: "B"},
		{ID: "c", Title: "C", Variants: []domain.ColorVariant{{Color: "z", Price: 3}}},
	}

	out := Project(products)
	require.Len(t, out, 4)
	assert.Equal(t, []string{"a-x", "a-y", "b", "c-z"},
		[]string{out[0].ID, out[1].ID, out[2].ID, out[3].ID})
}

func TestProject_CaseInsensitiveDuplicateColorsBothEmitted(t *testing.T) {
	p := domain.Product{
		ID:    "p-6",
		Title: "Scarf",
		Variants: []domain.ColorVariant{
			{Color: "Red", Price: 10},
			{Color: "red", Price: 20},
		},
	}

	out := Project([]domain.Product{p})
	require.Len(t, out, 2)
	// Both slugs collide; the projector performs no uniqueness enforcement.
	assert.Equal(t, out[0].ID, out[1].ID)
	assert.Equal(t, 10.0, out[0].Price)
	assert.Equal(t, 20.0, out[1].Price)
}

func TestVariantID_StableAndSlugged(t *testing.T) {
	assert.Equal(t, "p-1-sky-blue", VariantID("p-1", "Sky  Blue"))
	assert.Equal(t, VariantID("p-1", "Sky  Blue"), VariantID("p-1", "Sky  Blue"))
}

// Projecting then looking up by derived id must yield the variant's own
// effective price.
func TestProject_LookupByDerivedIDYieldsVariantPrice(t *testing.T) {
	p := domain.Product{
		ID:    "p-7",
		Title: "Vase",
		Price: 999,
		Variants: []domain.ColorVariant{
			{Color: "amber", Price: 120},
			{Color: "smoke", Price: 150, DiscountPrice: floatPtr(110)},
		},
	}

	out := Project([]domain.Product{p})
	byID := make(map[string]domain.DisplayProduct, len(out))
	for _, d := range out {
		byID[d.ID] = d
	}

	assert.Equal(t, 120.0, byID[VariantID("p-7", "amber")].EffectivePrice())
	assert.Equal(t, 110.0, byID[VariantID("p-7", "smoke")].EffectivePrice())
}
