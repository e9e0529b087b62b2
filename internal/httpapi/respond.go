package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/cart"
	cartrepo "github.com/DmitryShetinin/The-X-Shop-sub001/internal/cart/repository"
	catalogrepo "github.com/DmitryShetinin/The-X-Shop-sub001/internal/catalog/repository"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/inventory"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/order"
	orderrepo "github.com/DmitryShetinin/The-X-Shop-sub001/internal/order/repository"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps domain sentinel errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogrepo.ErrProductNotFound),
		errors.Is(err, inventory.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, orderrepo.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.Is(err, cart.ErrLineNotFound):
		respondError(w, http.StatusNotFound, "not_found", "cart item not found")
	case errors.Is(err, cart.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
	case errors.Is(err, cart.ErrStockLimitExceeded):
		respondError(w, http.StatusConflict, "stock_limit_exceeded", "requested quantity exceeds available stock")
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, order.ErrMissingContactField):
		respondError(w, http.StatusBadRequest, "missing_contact_field", "name, phone, email and address are required")
	case errors.Is(err, order.ErrMissingTelegramHandle):
		respondError(w, http.StatusBadRequest, "missing_telegram_handle", "telegram handle is required for telegram contact")
	case errors.Is(err, orderrepo.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", "order status transition not allowed")
	case errors.Is(err, orderrepo.ErrDuplicateOrder):
		respondError(w, http.StatusConflict, "already_exists", "order already exists")
	case errors.Is(err, cartrepo.ErrStorageUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "storage temporarily unavailable")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
