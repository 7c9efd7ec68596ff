package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/middlewares"
	"github.com/claystudio/storefront/models"
	"github.com/claystudio/storefront/slugify"
)

// Import endpoints load rows exported from the legacy system. Rows arrive
// loosely typed; the mapping layer coerces them and rejects the batch on the
// first row with an unusable id.

// HandleImportCategories serves POST /api/admin/import/categories.
func (h *AdminHandler) HandleImportCategories(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordAdminOperation("category", "import", ok) }()

	var rows []map[string]any
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		cat, err := models.CategoryFromRow(row)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if cat.Slug == "" {
			cat.Slug = slugify.Make(cat.Name)
		}
		categories = append(categories, cat)
	}

	ctx := c.Request.Context()
	if err := h.categories.ImportCategories(ctx, categories); err != nil {
		storeError(c, err)
		return
	}

	h.inv.EntityChanged(ctx, cache.EntityCategory)
	ok = true
	c.JSON(http.StatusOK, gin.H{"imported": len(categories)})
}

// HandleImportProducts serves POST /api/admin/import/products.
func (h *AdminHandler) HandleImportProducts(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordAdminOperation("product", "import", ok) }()

	var rows []map[string]any
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := models.ProductFromRow(row)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		products = append(products, p)
	}

	ctx := c.Request.Context()
	if err := h.products.ImportProducts(ctx, products); err != nil {
		storeError(c, err)
		return
	}

	h.inv.EntityChanged(ctx, cache.EntityProduct)
	ok = true
	c.JSON(http.StatusOK, gin.H{"imported": len(products)})
}
