// Package admin is the back-office API: CRUD for categories and products,
// inquiry triage, import from the legacy export, and basic statistics.
// It is deliberately unauthenticated; access control lives in front of it.
package admin

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/images"
	"github.com/claystudio/storefront/models"
	"github.com/claystudio/storefront/storage"
)

type CategoryStore interface {
	PageCategories(ctx context.Context, page, pageSize int) (*models.CategoryPage, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	ImportCategories(ctx context.Context, categories []models.Category) error
	CountCategories(ctx context.Context) (int64, error)
}

type ProductStore interface {
	PageProducts(ctx context.Context, filter models.ProductFilter, page, pageSize int) (*models.ProductPage, error)
	GetProductByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	ImportProducts(ctx context.Context, products []models.Product) error
	CountProducts(ctx context.Context) (int64, error)
}

type RequestStore interface {
	PageRequests(ctx context.Context, filter models.RequestFilter, page, pageSize int) (*models.RequestPage, error)
	UpdateRequestStatus(ctx context.Context, id uint, status string) error
	CountRequestsByStatus(ctx context.Context) (map[string]int64, error)
}

type AdminHandler struct {
	categories CategoryStore
	products   ProductStore
	requests   RequestStore
	objects    storage.ObjectStore
	preparer   *images.Preparer
	inv        *cache.Invalidator
	store      cache.Store

	// deleting guards against re-triggering a delete already in flight for
	// the same product row.
	mu       sync.Mutex
	deleting map[uint]struct{}
}

func NewAdminHandler(
	categories CategoryStore,
	products ProductStore,
	requests RequestStore,
	objects storage.ObjectStore,
	preparer *images.Preparer,
	inv *cache.Invalidator,
	store cache.Store,
) *AdminHandler {
	return &AdminHandler{
		categories: categories,
		products:   products,
		requests:   requests,
		objects:    objects,
		preparer:   preparer,
		inv:        inv,
		store:      store,
		deleting:   map[uint]struct{}{},
	}
}

// storeError converts a repository error into one user-visible response.
func storeError(c *gin.Context, err error) {
	log.Printf("store operation failed: %v", err)
	c.JSON(models.StoreErrorStatus(err), gin.H{"error": models.StoreErrorMessage(err)})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
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
