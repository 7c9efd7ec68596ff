package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/models"
)

// Stats is the back-office dashboard summary.
type Stats struct {
	Products   int64            `json:"products"`
	Categories int64            `json:"categories"`
	Requests   map[string]int64 `json:"requests"`
}

// HandleStats serves GET /api/admin/stats.
func (h *AdminHandler) HandleStats(c *gin.Context) {
	ctx := c.Request.Context()
	key := cache.ViewAdminStats + "summary"

	if h.store != nil {
		var cached Stats
		if hit, err := h.store.Get(ctx, key, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, err := h.products.CountProducts(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	categories, err := h.categories.CountCategories(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	requests, err := h.requests.CountRequestsByStatus(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	for _, status := range []string{models.RequestStatusNew, models.RequestStatusProcessing, models.RequestStatusDone} {
		if _, present := requests[status]; !present {
			requests[status] = 0
		}
	}

	stats := Stats{
		Products:   products,
		Categories: categories,
		Requests:   requests,
	}
	if h.store != nil {
		if err := h.store.Set(ctx, key, stats); err != nil {
			log.Printf("admin stats cache set failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, stats)
}
