package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/order"
	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/order/repository"
)

// deliveryMethods is the fixed set of delivery options with flat fees.
var deliveryMethods = []domain.DeliveryMethod{
	{ID: "courier", Name: "Courier delivery", Fee: 300},
	{ID: "pickup", Name: "Pickup point", Fee: 0},
	{ID: "post", Name: "Postal delivery", Fee: 250},
}

func findDeliveryMethod(id string) *domain.DeliveryMethod {
	for i := range deliveryMethods {
		if deliveryMethods[i].ID == id {
			return &deliveryMethods[i]
		}
	}
	return nil
}

type CheckoutHandler struct {
	assembler *order.Assembler
	orders    repository.OrderRepository
	timeout   time.Duration
}

func NewCheckoutHandler(assembler *order.Assembler, orders repository.OrderRepository, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		assembler: assembler,
		orders:    orders,
		timeout:   timeout,
	}
}

type PlaceOrderRequestDTO struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	ContactMethod  string `json:"contact_method,omitempty"`
	TelegramHandle string `json:"telegram_handle,omitempty"`
	DeliveryMethod string `json:"delivery_method,omitempty"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

type SetTrackingRequestDTO struct {
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url,omitempty"`
}

func (h *CheckoutHandler) DeliveryMethods(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, deliveryMethods)
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "session id is required")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	details := order.CheckoutDetails{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		ContactMethod:  req.ContactMethod,
		TelegramHandle: req.TelegramHandle,
	}
	if req.DeliveryMethod != "" {
		method := findDeliveryMethod(req.DeliveryMethod)
		if method == nil {
			respondError(w, http.StatusBadRequest, "invalid_delivery_method", "unknown delivery method")
			return
		}
		details.DeliveryMethod = method
	}

	placed, err := h.assembler.PlaceOrder(ctx, sessionID, details)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, placed)
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "session id is required")
		return
	}

	orders, err := h.orders.ListBySession(ctx, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// GetOrder serves one order, scoped to the caller's session: another
// session's order id reads as not found, not as forbidden.
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "session id is required")
		return
	}

	o, err := h.orders.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if o.SessionID != sessionID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// UpdateStatus is a back-office endpoint; transitions are validated against
// the domain transition table and illegal ones come back as 409.
func (h *CheckoutHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	switch status {
	case domain.StatusNew, domain.StatusProcessing, domain.StatusShipped,
		domain.StatusDelivered, domain.StatusCancelled, domain.StatusArchived:
	default:
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.orders.UpdateStatus(ctx, chi.URLParam(r, "id"), status); err != nil {
		handleServiceError(w, err)
		return
	}

	o, err := h.orders.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *CheckoutHandler) SetTracking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SetTrackingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.TrackingNumber == "" {
		respondError(w, http.StatusBadRequest, "invalid_tracking", "tracking_number is required")
		return
	}

	if err := h.orders.SetTracking(ctx, chi.URLParam(r, "id"), req.TrackingNumber, req.TrackingURL); err != nil {
		handleServiceError(w, err)
		return
	}

	o, err := h.orders.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
