package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopkart/storefront/internal/catalog"
	"github.com/shopkart/storefront/internal/domain"
)

type ProductsHandler struct {
	catalog catalog.Catalog
	timeout time.Duration
}

func NewProductsHandler(c catalog.Catalog, timeout time.Duration) *ProductsHandler {
	return &ProductsHandler{catalog: c, timeout: timeout}
}

// GET /api/v1/products
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		respondError(w, http.StatusBadGateway, "catalog_unavailable", "failed to load products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /api/v1/products/{product_id}
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		respondProductError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// GET /api/v1/products/{product_id}/related
func (h *ProductsHandler) Related(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseProductID(w, r)
	if !ok {
		return
	}

	related, err := h.catalog.GetRelated(ctx, id)
	if err != nil {
		respondProductError(w, err)
		return
	}
	if related == nil {
		related = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, related)
}

func respondProductError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	respondError(w, http.StatusBadGateway, "catalog_unavailable", "failed to load product")
}
