package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/app/service"
	"github.com/mrops-br/storefront-api/internal/infrastructure/http/response"
	"github.com/mrops-br/storefront-api/internal/infrastructure/telemetry"
)

var errInvalidProductID = errors.New("product id must be an integer")

// StorefrontHandler handles HTTP requests for storefront sessions
type StorefrontHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(service *service.StorefrontService, logger *slog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: service,
		logger:  logger,
	}
}

func (h *StorefrontHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// sessionCtx tags the request context with the session in the path so
// service and repository logs carry it.
func sessionCtx(r *http.Request) context.Context {
	return telemetry.WithSessionID(r.Context(), chi.URLParam(r, "id"))
}

func productIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		return 0, errInvalidProductID
	}
	return id, nil
}

func (h *StorefrontHandler) writeView(w http.ResponseWriter, view *dto.SessionViewResponse, err error) {
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, view)
}

// Catalog handles GET /catalog
func (h *StorefrontHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.Catalog(r.Context()))
}

// CreateSession handles POST /sessions
func (h *StorefrontHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.CreateSession(r.Context())
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, view)
}

// GetSession handles GET /sessions/{id}
func (h *StorefrontHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetView(sessionCtx(r), chi.URLParam(r, "id"))
	h.writeView(w, view, err)
}

// DeleteSession handles DELETE /sessions/{id}
func (h *StorefrontHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSession(sessionCtx(r), chi.URLParam(r, "id")); err != nil {
		response.DomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectProduct handles POST /sessions/{id}/select
func (h *StorefrontHandler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectProductRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.SelectProduct(sessionCtx(r), chi.URLParam(r, "id"), req.ProductID)
	h.writeView(w, view, err)
}

// StepQuantity handles POST /sessions/{id}/detail/quantity
func (h *StorefrontHandler) StepQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.StepQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.StepQuantity(sessionCtx(r), chi.URLParam(r, "id"), req.Delta)
	h.writeView(w, view, err)
}

// AddToCart handles POST /sessions/{id}/cart
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req dto.AddToCartRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.AddToCart(sessionCtx(r), chi.URLParam(r, "id"), req.ProductID, req.Quantity)
	h.writeView(w, view, err)
}

// UpdateQuantity handles PUT /sessions/{id}/cart/{productID}
func (h *StorefrontHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	var req dto.UpdateQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.UpdateQuantity(sessionCtx(r), chi.URLParam(r, "id"), productID, req.RawQuantity())
	h.writeView(w, view, err)
}

// RemoveFromCart handles DELETE /sessions/{id}/cart/{productID}
func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	view, err := h.service.RemoveFromCart(sessionCtx(r), chi.URLParam(r, "id"), productID)
	h.writeView(w, view, err)
}

// Navigate handles POST /sessions/{id}/navigate
func (h *StorefrontHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req dto.NavigateRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.Navigate(sessionCtx(r), chi.URLParam(r, "id"), req.Screen)
	h.writeView(w, view, err)
}

// Search handles POST /sessions/{id}/search
func (h *StorefrontHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.Search(sessionCtx(r), chi.URLParam(r, "id"), req.Term)
	h.writeView(w, view, err)
}

// UpdateCriteria handles PUT /sessions/{id}/criteria
func (h *StorefrontHandler) UpdateCriteria(w http.ResponseWriter, r *http.Request) {
	var req dto.CriteriaRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.UpdateCriteria(sessionCtx(r), chi.URLParam(r, "id"), req)
	h.writeView(w, view, err)
}

// Checkout handles GET /sessions/{id}/checkout
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Checkout(sessionCtx(r), chi.URLParam(r, "id"))
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

// PlaceOrder handles POST /sessions/{id}/orders
func (h *StorefrontHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.service.PlaceOrder(sessionCtx(r), chi.URLParam(r, "id"), req)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, order)
}
