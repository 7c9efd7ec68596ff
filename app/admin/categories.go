package admin

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/middlewares"
	"github.com/claystudio/storefront/models"
	"github.com/claystudio/storefront/slugify"
)

type categoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// HandleListCategories serves GET /api/admin/categories.
func (h *AdminHandler) HandleListCategories(c *gin.Context) {
	ctx := c.Request.Context()
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)
	key := fmt.Sprintf("%spage=%d:size=%d", cache.ViewAdminCategories, page, pageSize)

	if h.store != nil {
		var cached models.CategoryPage
		if hit, err := h.store.Get(ctx, key, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.categories.PageCategories(ctx, page, pageSize)
	if err != nil {
		storeError(c, err)
		return
	}
	if h.store != nil {
		if err := h.store.Set(ctx, key, result); err != nil {
			log.Printf("admin categories cache set failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, result)
}

// HandleCreateCategory serves POST /api/admin/categories. The slug is
// derived from the name when not supplied.
func (h *AdminHandler) HandleCreateCategory(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordAdminOperation("category", "create", ok) }()

	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = slugify.Make(input.Name)
	} else {
		slug = slugify.Make(slug)
	}

	category := &models.Category{Name: input.Name, Slug: slug}
	ctx := c.Request.Context()
	if err := h.categories.CreateCategory(ctx, category); err != nil {
		storeError(c, err)
		return
	}

	h.inv.EntityChanged(ctx, cache.EntityCategory)
	ok = true
	c.JSON(http.StatusCreated, category)
}

// HandleUpdateCategory serves PUT /api/admin/categories/:id.
func (h *AdminHandler) HandleUpdateCategory(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordAdminOperation("category", "update", ok) }()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = slugify.Make(input.Name)
	} else {
		slug = slugify.Make(slug)
	}

	category := &models.Category{ID: uint(id), Name: input.Name, Slug: slug}
	ctx := c.Request.Context()
	if err := h.categories.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			notFound(c, "category")
			return
		}
		storeError(c, err)
		return
	}

	h.inv.EntityChanged(ctx, cache.EntityCategory)
	ok = true
	c.JSON(http.StatusOK, category)
}

// HandleDeleteCategory serves DELETE /api/admin/categories/:id. Products in
// the category are orphaned to "no category", never deleted.
func (h *AdminHandler) HandleDeleteCategory(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordAdminOperation("category", "delete", ok) }()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	ctx := c.Request.Context()
	if err := h.categories.DeleteCategory(ctx, uint(id)); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			notFound(c, "category")
			return
		}
		storeError(c, err)
		return
	}

	h.inv.EntityChanged(ctx, cache.EntityCategory)
	ok = true
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
