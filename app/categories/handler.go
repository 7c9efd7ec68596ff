package categories

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/models"
)

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryProvider interface {
	AllCategories(ctx context.Context) ([]models.Category, error)
}

type CategoryHandler struct {
	repo  CategoryProvider
	store cache.Store
}

func NewCategoryHandler(r CategoryProvider, store cache.Store) *CategoryHandler {
	return &CategoryHandler{
		repo:  r,
		store: store,
	}
}

// HandleGetAll serves the category filter list for the storefront.
func (h *CategoryHandler) HandleGetAll(c *gin.Context) {
	ctx := c.Request.Context()
	key := cache.ViewCategories + "all"

	if h.store != nil {
		var cached []CategoryResponse
		if hit, err := h.store.Get(ctx, key, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	categories, err := h.repo.AllCategories(ctx)
	if err != nil {
		log.Printf("categories fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		response[i] = CategoryResponse{
			ID:   cat.ID,
			Name: cat.Name,
			Slug: cat.Slug,
		}
	}

	if h.store != nil {
		if err := h.store.Set(ctx, key, response); err != nil {
			log.Printf("categories cache set failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, response)
}
