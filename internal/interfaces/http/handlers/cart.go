// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/pkg/pdf"
)

// CartHandler exposes the cart partition store to the UI shell
type CartHandler struct {
	store    *cart.Store
	sessions *session.Manager
	pdf      *pdf.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store *cart.Store, sessions *session.Manager, pdfService *pdf.Service) *CartHandler {
	return &CartHandler{
		store:    store,
		sessions: sessions,
		pdf:      pdfService,
	}
}

// AddItemRequest is the add-to-cart payload
type AddItemRequest struct {
	Product  cart.Product `json:"product" binding:"required"`
	Quantity int          `json:"quantity"`
}

// UpdateItemRequest is the set-quantity payload
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// PanelRequest toggles the cart panel
type PanelRequest struct {
	Open bool `json:"open"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.cartState(),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if req.Product.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product id is required",
		})
		return
	}

	h.store.AddItem(req.Product, req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.cartState(),
	})
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.store.SetQuantity(c.Param("id"), req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.cartState(),
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.store.RemoveItem(c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed successfully",
		"data":    h.cartState(),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.store.Clear()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    h.cartState(),
	})
}

// SetPanel handles POST /cart/panel
func (h *CartHandler) SetPanel(c *gin.Context) {
	var req PanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if req.Open {
		h.store.OpenPanel()
	} else {
		h.store.ClosePanel()
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart panel updated",
		"data":    h.cartState(),
	})
}

// Receipt handles GET /cart/receipt
func (h *CartHandler) Receipt(c *gin.Context) {
	viewer := "Guest"
	if user, ok := h.sessions.CurrentUser(); ok {
		viewer = user.Name
	}

	buf, err := h.pdf.GenerateReceipt(h.store.Items(), h.store.GetTotals(), viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cart-quote.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *CartHandler) cartState() gin.H {
	return gin.H{
		"identity":   h.store.ActiveIdentity().String(),
		"items":      h.store.Items(),
		"totals":     h.store.GetTotals(),
		"panel_open": h.store.IsPanelOpen(),
	}
}
