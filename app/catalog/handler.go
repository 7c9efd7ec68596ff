package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/models"
)

const (
	defaultPageSize = 12
	previewPageSize = 8
)

// Category is the public shape of a product's category.
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product is the public shape of a catalog item.
type Product struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	Image       *string   `json:"image"`
	InStock     bool      `json:"in_stock"`
	Category    *Category `json:"category"`
}

// Response is one page of the catalog.
type Response struct {
	Items      []Product `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

type ProductProvider interface {
	PageProducts(ctx context.Context, filter models.ProductFilter, page, pageSize int) (*models.ProductPage, error)
	GetProductByID(ctx context.Context, id uint) (*models.Product, error)
}

type CatalogHandler struct {
	repo  ProductProvider
	store cache.Store
}

// NewCatalogHandler wires the storefront browse endpoints. store may be nil
// to disable caching.
func NewCatalogHandler(r ProductProvider, store cache.Store) *CatalogHandler {
	return &CatalogHandler{
		repo:  r,
		store: store,
	}
}

func mapProduct(p models.Product) Product {
	out := Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		InStock:     p.InStock,
	}
	if p.Price.Valid {
		f := p.Price.Decimal.InexactFloat64()
		out.Price = &f
	}
	if p.Category != nil {
		out.Category = &Category{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		}
	}
	return out
}

func mapPage(page *models.ProductPage) *Response {
	items := make([]Product, len(page.Items))
	for i, p := range page.Items {
		items[i] = mapProduct(p)
	}
	return &Response{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// intQuery parses a positive integer query param, ignoring invalid values.
func intQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			return v
		}
	}
	return fallback
}

func (h *CatalogHandler) servePage(c *gin.Context, keyPrefix string, filter models.ProductFilter, page, pageSize int) {
	ctx := c.Request.Context()
	key := fmt.Sprintf("%spage=%d:size=%d:cat=%s", keyPrefix, page, pageSize, filter.CategorySlug)

	if h.store != nil {
		var cached Response
		if hit, err := h.store.Get(ctx, key, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.repo.PageProducts(ctx, filter, page, pageSize)
	if err != nil {
		log.Printf("catalog page fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get products"})
		return
	}

	resp := mapPage(result)
	if h.store != nil {
		if err := h.store.Set(ctx, key, resp); err != nil {
			log.Printf("catalog cache set failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCatalog serves the full paged catalog view.
func (h *CatalogHandler) HandleCatalog(c *gin.Context) {
	filter := models.ProductFilter{CategorySlug: c.Query("category")}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", defaultPageSize)
	h.servePage(c, cache.ViewCatalog, filter, page, pageSize)
}

// HandlePreview serves the fixed-size landing grid: first page, same
// category filter as the full catalog.
func (h *CatalogHandler) HandlePreview(c *gin.Context) {
	filter := models.ProductFilter{CategorySlug: c.Query("category")}
	h.servePage(c, cache.ViewCatalog+"preview:", filter, 1, previewPageSize)
}

// HandleProduct serves one product by id.
func (h *CatalogHandler) HandleProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.repo.GetProductByID(c.Request.Context(), uint(id))
	if err != nil {
		if err == models.ErrProductNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		log.Printf("product fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}
	c.JSON(http.StatusOK, mapProduct(*product))
}
