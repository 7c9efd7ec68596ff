package admin

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/middlewares"
	"github.com/claystudio/storefront/models"
)

// HandleListRequests serves GET /api/admin/requests with an optional status
// filter.
func (h *AdminHandler) HandleListRequests(c *gin.Context) {
	ctx := c.Request.Context()
	filter := models.RequestFilter{Status: c.Query("status")}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)
	key := fmt.Sprintf("%spage=%d:size=%d:status=%s", cache.ViewAdminRequests, page, pageSize, filter.Status)

	if h.store != nil {
		var cached models.RequestPage
		if hit, err := h.store.Get(ctx, key, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.requests.PageRequests(ctx, filter, page, pageSize)
	if err != nil {
		storeError(c, err)
		return
	}
	if h.store != nil {
		if err := h.store.Set(ctx, key, result); err != nil {
			log.Printf("admin requests cache set failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, result)
}

type statusInput struct {
	Status string `json:"status"`
}

// HandleUpdateRequestStatus serves PUT /api/admin/requests/:id/status.
func (h *AdminHandler) HandleUpdateRequestStatus(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordAdminOperation("request", "status", ok) }()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if !models.ValidRequestStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of new, processing, done"})
		return
	}

	ctx := c.Request.Context()
	if err := h.requests.UpdateRequestStatus(ctx, uint(id), input.Status); err != nil {
		if errors.Is(err, models.ErrRequestNotFound) {
			notFound(c, "request")
			return
		}
		storeError(c, err)
		return
	}

	h.inv.EntityChanged(ctx, cache.EntityRequest)
	ok = true
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}
