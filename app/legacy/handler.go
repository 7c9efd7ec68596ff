// Package legacy serves the read-only JSON API kept for the older catalog
// view. Shapes are frozen: changing them breaks deployed clients.
package legacy

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/models"
)

// Product is the legacy wire shape.
type Product struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	CategoryID  *uint    `json:"categoryId"`
}

type Provider interface {
	AllProducts(ctx context.Context) ([]models.Product, error)
	ProductsByCategorySlug(ctx context.Context, slug string) ([]models.Product, error)
}

type LegacyHandler struct {
	repo  Provider
	store cache.Store
}

func NewLegacyHandler(r Provider, store cache.Store) *LegacyHandler {
	return &LegacyHandler{
		repo:  r,
		store: store,
	}
}

func mapProducts(products []models.Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Image:       p.Image,
			CategoryID:  p.CategoryID,
		}
		if p.Price.Valid {
			f := p.Price.Decimal.InexactFloat64()
			out[i].Price = &f
		}
	}
	return out
}

func (h *LegacyHandler) serveProducts(c *gin.Context, key string, fetch func(context.Context) ([]models.Product, error)) {
	ctx := c.Request.Context()

	if h.store != nil {
		var cached []Product
		if hit, err := h.store.Get(ctx, key, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, err := fetch(ctx)
	if err != nil {
		log.Printf("legacy products fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get products"})
		return
	}

	response := mapProducts(products)
	if h.store != nil {
		if err := h.store.Set(ctx, key, response); err != nil {
			log.Printf("legacy cache set failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, response)
}

// HandleProducts serves GET /api/products.
func (h *LegacyHandler) HandleProducts(c *gin.Context) {
	h.serveProducts(c, cache.ViewLegacy+"products", h.repo.AllProducts)
}

// HandleProductsByCategory serves GET /api/products/category/:slug. An
// unknown slug yields an empty array.
func (h *LegacyHandler) HandleProductsByCategory(c *gin.Context) {
	slug := c.Param("slug")
	h.serveProducts(c, cache.ViewLegacy+"products:category:"+slug, func(ctx context.Context) ([]models.Product, error) {
		return h.repo.ProductsByCategorySlug(ctx, slug)
	})
}
