package admin

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/middlewares"
	"github.com/claystudio/storefront/models"
	"github.com/claystudio/storefront/storage"
)

// categoryNone is the form sentinel for "no category".
const categoryNone = "none"

// HandleListProducts serves GET /api/admin/products.
func (h *AdminHandler) HandleListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	filter := models.ProductFilter{CategorySlug: c.Query("category")}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)
	key := fmt.Sprintf("%spage=%d:size=%d:cat=%s", cache.ViewAdminProducts, page, pageSize, filter.CategorySlug)

	if h.store != nil {
		var cached models.ProductPage
		if hit, err := h.store.Get(ctx, key, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.products.PageProducts(ctx, filter, page, pageSize)
	if err != nil {
		storeError(c, err)
		return
	}
	if h.store != nil {
		if err := h.store.Set(ctx, key, result); err != nil {
			log.Printf("admin products cache set failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, result)
}

// parseProductForm validates the multipart form fields shared by create and
// update. It returns a product without an image; image staging is separate.
func parseProductForm(c *gin.Context) (*models.Product, string) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		return nil, "name is required"
	}

	p := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(c.PostForm("description")),
	}

	switch v := c.PostForm("in_stock"); v {
	case "true", "1", "on":
		p.InStock = true
	}

	if raw := strings.TrimSpace(c.PostForm("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, "price must be a number"
		}
		p.Price = decimal.NullDecimal{Decimal: price, Valid: true}
	}

	if raw := strings.TrimSpace(c.PostForm("category_id")); raw != "" && raw != categoryNone {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, "category_id must be an integer id or \"none\""
		}
		cid := uint(id)
		p.CategoryID = &cid
	}

	return p, ""
}

// stageImage runs a freshly selected file through the preparation pipeline,
// uploads the result, and returns the public URL to store on the record.
// Returns ("", nil) when no file was staged.
func (h *AdminHandler) stageImage(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		// No file staged.
		return "", nil
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	prepared, err := h.preparer.Prepare(c.Request.Context(), data)
	if err != nil {
		return "", err
	}
	defer prepared.Release()

	key := storage.ObjectKey(header.Filename, prepared.Data)
	if err := h.objects.Upload(c.Request.Context(), key, prepared.Data, prepared.ContentType); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return h.objects.PublicURL(key), nil
}

// HandleCreateProduct serves POST /api/admin/products (multipart form).
func (h *AdminHandler) HandleCreateProduct(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordAdminOperation("product", "create", ok) }()

	product, msg := parseProductForm(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	url, err := h.stageImage(c)
	if err != nil {
		log.Printf("image staging failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
		return
	}
	if url != "" {
		product.Image = &url
	}

	ctx := c.Request.Context()
	if err := h.products.CreateProduct(ctx, product); err != nil {
		storeError(c, err)
		return
	}

	h.inv.EntityChanged(ctx, cache.EntityProduct)
	ok = true
	c.JSON(http.StatusCreated, product)
}

// HandleUpdateProduct serves PUT /api/admin/products/:id (multipart form).
// Without a staged image the existing image URL is preserved.
func (h *AdminHandler) HandleUpdateProduct(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordAdminOperation("product", "update", ok) }()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, msg := parseProductForm(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	product.ID = uint(id)

	ctx := c.Request.Context()
	existing, err := h.products.GetProductByID(ctx, product.ID)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			notFound(c, "product")
			return
		}
		storeError(c, err)
		return
	}
	product.Image = existing.Image

	url, err := h.stageImage(c)
	if err != nil {
		log.Printf("image staging failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
		return
	}
	if url != "" {
		product.Image = &url
	}

	if err := h.products.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			notFound(c, "product")
			return
		}
		storeError(c, err)
		return
	}

	h.inv.EntityChanged(ctx, cache.EntityProduct)
	ok = true
	c.JSON(http.StatusOK, product)
}

// HandleDeleteProduct serves DELETE /api/admin/products/:id. The row
// deletion is authoritative; removing the backing stored object is
// best-effort and a failure is reported as a warning, not rolled back.
func (h *AdminHandler) HandleDeleteProduct(c *gin.Context) {
	ok := false
	defer func() { middlewares.RecordAdminOperation("product", "delete", ok) }()

	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	id := uint(id64)

	h.mu.Lock()
	if _, inFlight := h.deleting[id]; inFlight {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "delete already in progress"})
		return
	}
	h.deleting[id] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.deleting, id)
		h.mu.Unlock()
	}()

	ctx := c.Request.Context()

	// Resolve the image before the row disappears.
	var imageURL string
	existing, err := h.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			notFound(c, "product")
			return
		}
		storeError(c, err)
		return
	}
	if existing.Image != nil {
		imageURL = *existing.Image
	}

	if err := h.products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			notFound(c, "product")
			return
		}
		storeError(c, err)
		return
	}

	h.inv.EntityChanged(ctx, cache.EntityProduct)
	ok = true

	if imageURL != "" && h.objects != nil {
		if key := h.objects.KeyFromPublicURL(imageURL); key != "" {
			if err := h.objects.Remove(ctx, key); err != nil {
				log.Printf("image cleanup for product %d failed: %v", id, err)
				c.JSON(http.StatusOK, gin.H{
					"message": "product deleted",
					"warning": "the product was deleted but its image could not be removed from storage",
				})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
