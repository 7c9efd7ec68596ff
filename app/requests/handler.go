// Package requests captures customer inquiries from the storefront and
// remembers contact details for prefilling the form.
package requests

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/cache"
	"github.com/claystudio/storefront/models"
	"github.com/claystudio/storefront/prefs"
)

type RequestCreator interface {
	CreateRequest(ctx context.Context, request *models.Request) error
}

type RequestHandler struct {
	repo     RequestCreator
	contacts prefs.Store
	inv      *cache.Invalidator
}

func NewRequestHandler(r RequestCreator, contacts prefs.Store, inv *cache.Invalidator) *RequestHandler {
	return &RequestHandler{
		repo:     r,
		contacts: contacts,
		inv:      inv,
	}
}

type createInput struct {
	ClientName    string `json:"client_name"`
	ClientPhone   string `json:"client_phone"`
	ClientMessage string `json:"client_message"`
	ProductID     *uint  `json:"product_id"`
	// Client is the caller's prefill identity; optional.
	Client string `json:"client"`
}

// HandleCreate serves POST /api/requests: the product inquiry form and the
// phone-capture form both land here.
func (h *RequestHandler) HandleCreate(c *gin.Context) {
	var input createInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	input.ClientName = strings.TrimSpace(input.ClientName)
	input.ClientPhone = strings.TrimSpace(input.ClientPhone)
	if input.ClientName == "" || input.ClientPhone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and phone are required"})
		return
	}

	status := models.RequestStatusNew
	request := &models.Request{
		ClientName:    input.ClientName,
		ClientPhone:   input.ClientPhone,
		ClientMessage: input.ClientMessage,
		ProductID:     input.ProductID,
		Status:        &status,
	}

	ctx := c.Request.Context()
	if err := h.repo.CreateRequest(ctx, request); err != nil {
		log.Printf("request create failed: %v", err)
		c.JSON(models.StoreErrorStatus(err), gin.H{"error": models.StoreErrorMessage(err)})
		return
	}

	// Remember the contact for prefilling. Best-effort: a failed write is
	// logged and the inquiry still succeeds.
	if h.contacts != nil && input.Client != "" {
		if err := h.contacts.Set(ctx, input.Client, prefs.Contact{
			Name:  input.ClientName,
			Phone: input.ClientPhone,
		}); err != nil {
			log.Printf("contact prefill save failed: %v", err)
		}
	}

	h.inv.EntityChanged(ctx, cache.EntityRequest)
	c.JSON(http.StatusCreated, gin.H{"id": request.ID})
}

type prefillInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// HandleSetPrefill serves PUT /api/prefill/:client, storing contact details
// without filing an inquiry. The write is best-effort like the capture on
// create: a failed store is logged and the call still succeeds.
func (h *RequestHandler) HandleSetPrefill(c *gin.Context) {
	var input prefillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Name == "" || input.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and phone are required"})
		return
	}

	if h.contacts != nil {
		if err := h.contacts.Set(c.Request.Context(), c.Param("client"), prefs.Contact{
			Name:  input.Name,
			Phone: input.Phone,
		}); err != nil {
			log.Printf("contact prefill save failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "contact saved"})
}

// HandlePrefill serves GET /api/prefill/:client with the remembered contact.
// Misses and store trouble both return an empty contact.
func (h *RequestHandler) HandlePrefill(c *gin.Context) {
	if h.contacts == nil {
		c.JSON(http.StatusOK, prefs.Contact{})
		return
	}

	contact, ok, err := h.contacts.Get(c.Request.Context(), c.Param("client"))
	if err != nil {
		log.Printf("contact prefill read failed: %v", err)
	}
	if !ok {
		c.JSON(http.StatusOK, prefs.Contact{})
		return
	}
	c.JSON(http.StatusOK, contact)
}
