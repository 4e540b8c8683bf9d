package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mwangikc/orderdesk/internal/models"
	"github.com/mwangikc/orderdesk/internal/service"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	orderService service.OrderService
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.orderService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, result)
}

// ListOrders handles GET /orders with optional ?customer_id= filtering
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	customerID, _ := strconv.ParseInt(query.Get("customer_id"), 10, 64)

	filter := models.OrderFilter{
		CustomerID: customerID,
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.orderService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// GetOrder handles GET /orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	result, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// UpdateOrder handles PUT /orders/{id}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.orderService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// DeleteOrder handles DELETE /orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondNoContent(w)
}
