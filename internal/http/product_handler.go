package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Catalog is the read side the handlers need from catalog.Service.
type Catalog interface {
	Filter(ctx context.Context, c catalog.Criteria) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, []domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type ProductHandler struct {
	catalog Catalog
	logger  *zap.Logger
}

func NewProductHandler(c Catalog, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: c, logger: logger}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

type ProductDetailResponse struct {
	Product domain.Product   `json:"product"`
	Related []domain.Product `json:"related"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// List serves GET /products?category=&max_price=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria := catalog.Criteria{Category: r.URL.Query().Get("category")}

	if raw := r.URL.Query().Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "invalid_max_price", "max_price must be a number")
			return
		}
		criteria.MaxPrice = maxPrice
	}

	products, err := h.catalog.Filter(r.Context(), criteria)
	if err != nil {
		h.internalError(w, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, &ProductsResponse{Products: products})
}

func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Featured(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, &ProductsResponse{Products: products})
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, &CategoriesResponse{Categories: categories})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, related, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, &ProductDetailResponse{Product: p, Related: related})
}

func (h *ProductHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("catalog query failed", zap.Error(err))
	respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "internal server error")
}
