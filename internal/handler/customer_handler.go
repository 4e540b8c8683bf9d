package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mwangikc/orderdesk/internal/models"
	"github.com/mwangikc/orderdesk/internal/service"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// idParam extracts the {id} route parameter as int64
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	customer, err := h.customerService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, customer)
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	filter := models.CustomerFilter{
		Phone:    query.Get("phone"),
		Location: query.Get("location"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.customerService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// GetCustomer handles GET /customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// UpdateCustomer handles PUT /customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID")
		return
	}

	var req service.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	customer, err := h.customerService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// DeleteCustomer handles DELETE /customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID")
		return
	}

	if err := h.customerService.Delete(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondNoContent(w)
}
