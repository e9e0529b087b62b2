package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/cart"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/catalog"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

type CartHandler struct {
	carts   *cart.Service
	catalog *catalog.Service
	timeout time.Duration
}

func NewCartHandler(carts *cart.Service, catalog *catalog.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int    `json:"quantity"`
	Color    string `json:"color,omitempty"`
}

type CartResponse struct {
	Items    []domain.CartLine `json:"items"`
	Subtotal float64           `json:"subtotal"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "session id is required")
		return
	}

	lines, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{Items: lines, Subtotal: cart.Subtotal(lines)})
}

// AddItem resolves the display id supplied by the storefront to a catalog
// product (variant-derived ids route back to their parent with the color
// preselected) and adds the line to the session's cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "session id is required")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, color, variant, err := h.catalog.ResolveForCart(ctx, req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// A plain display id with an explicit color picked client-side.
	if color == "" && req.Color != "" {
		color = req.Color
		variant = product.Variant(color)
	}

	line := domain.CartLine{
		Product:  *product,
		Color:    color,
		Size:     req.Size,
		Variant:  variant,
		Quantity: req.Quantity,
		AddedAt:  time.Now(),
	}

	if err := h.carts.AddItem(ctx, sessionID, line); err != nil {
		handleServiceError(w, err)
		return
	}

	h.respondWithCart(ctx, w, http.StatusCreated, sessionID)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "session id is required")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	if err := h.carts.UpdateQuantity(ctx, sessionID, productID, req.Quantity, req.Color); err != nil {
		handleServiceError(w, err)
		return
	}

	h.respondWithCart(ctx, w, http.StatusOK, sessionID)
}

// RemoveItem drops a cart line. Without a color query parameter every line
// of the product is removed, regardless of selected variant.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "session id is required")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	if err := h.carts.RemoveItem(ctx, sessionID, productID, r.URL.Query().Get("color")); err != nil {
		handleServiceError(w, err)
		return
	}

	h.respondWithCart(ctx, w, http.StatusOK, sessionID)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "session id is required")
		return
	}

	if err := h.carts.Clear(ctx, sessionID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{Items: []domain.CartLine{}})
}

func (h *CartHandler) respondWithCart(ctx context.Context, w http.ResponseWriter, status int, sessionID string) {
	lines, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, status, CartResponse{Items: lines, Subtotal: cart.Subtotal(lines)})
}
