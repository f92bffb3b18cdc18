package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartStore is the part of service.CartService the handlers call.
type CartStore interface {
	Lines() []domain.CartLine
	Count() int
	Total() float64
	AddToCart(ctx context.Context, product domain.Product, size, color string) domain.CartLine
	UpdateQuantity(ctx context.Context, index, quantity int) error
	RemoveItem(ctx context.Context, index int) error
	UpdateQuantityByID(ctx context.Context, lineID string, quantity int) error
	RemoveItemByID(ctx context.Context, lineID string) error
	ClearCart(ctx context.Context)
}

type CartHandler struct {
	cart    CartStore
	catalog Catalog
	logger  *zap.Logger
}

func NewCartHandler(cart CartStore, c Catalog, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, catalog: c, logger: logger}
}

// AddItemRequestDTO omits size or color to get the product's default choice;
// an explicit empty string means "no selection".
type AddItemRequestDTO struct {
	ProductID string  `json:"product_id"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type CartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
}

type AddItemResponse struct {
	Line domain.CartLine `json:"line"`
	CartResponse
}

func (h *CartHandler) snapshot() CartResponse {
	lines := h.cart.Lines()
	return CartResponse{Lines: lines, Count: domain.Count(lines), Total: domain.Total(lines)}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, h.snapshot())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, _, err := h.catalog.Get(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		h.logger.Error("product lookup failed", zap.Error(err), zap.String("product_id", req.ProductID))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	sel, err := catalog.ResolveSelection(product, req.Size, req.Color)
	switch {
	case errors.Is(err, catalog.ErrInvalidSize):
		respondError(w, h.logger, http.StatusBadRequest, "invalid_size", "size is not offered for this product")
		return
	case errors.Is(err, catalog.ErrInvalidColor):
		respondError(w, h.logger, http.StatusBadRequest, "invalid_color", "color is not offered for this product")
		return
	}

	line := h.cart.AddToCart(r.Context(), product, sel.Size, sel.Color)
	respondJSON(w, h.logger, http.StatusCreated, AddItemResponse{Line: line, CartResponse: h.snapshot()})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	index, ok := h.parseIndex(w, r)
	if !ok {
		return
	}
	quantity, ok := h.parseQuantity(w, r)
	if !ok {
		return
	}
	h.respondMutation(w, h.cart.UpdateQuantity(r.Context(), index, quantity))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := h.parseIndex(w, r)
	if !ok {
		return
	}
	h.respondMutation(w, h.cart.RemoveItem(r.Context(), index))
}

func (h *CartHandler) UpdateQuantityByID(w http.ResponseWriter, r *http.Request) {
	quantity, ok := h.parseQuantity(w, r)
	if !ok {
		return
	}
	h.respondMutation(w, h.cart.UpdateQuantityByID(r.Context(), chi.URLParam(r, "lineID"), quantity))
}

func (h *CartHandler) RemoveItemByID(w http.ResponseWriter, r *http.Request) {
	h.respondMutation(w, h.cart.RemoveItemByID(r.Context(), chi.URLParam(r, "lineID")))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart(r.Context())
	respondJSON(w, h.logger, http.StatusOK, h.snapshot())
}

func (h *CartHandler) respondMutation(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrLineNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "line_not_found", "cart line not found")
		return
	}
	if err != nil {
		h.logger.Error("cart update failed", zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, h.snapshot())
}

func (h *CartHandler) parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_index", "index must be an integer")
		return 0, false
	}
	return index, true
}

func (h *CartHandler) parseQuantity(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return 0, false
	}
	if req.Quantity == nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return 0, false
	}
	return *req.Quantity, true
}
