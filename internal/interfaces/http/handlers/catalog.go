// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-gateway/internal/backend"
	"github.com/your-org/storefront-gateway/internal/domain/catalog"
	"github.com/your-org/storefront-gateway/internal/domain/session"
)

// CatalogHandler proxies catalog and order endpoints to the backend
type CatalogHandler struct {
	catalog  *catalog.Service
	client   *backend.Client
	sessions *session.Manager
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, client *backend.Client, sessions *session.Manager) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalogService,
		client:   client,
		sessions: sessions,
	}
}

// GetProducts handles GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to retrieve products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProductBySlug handles GET /products/:slug
func (h *CatalogHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.catalog.ProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// GetServiceCategories handles GET /services/categories
func (h *CatalogHandler) GetServiceCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Service categories retrieved successfully",
		"data":    h.catalog.ServiceCategories(c.Request.Context()),
	})
}

// GetOrders handles GET /orders
func (h *CatalogHandler) GetOrders(c *gin.Context) {
	bearer, ok := h.requireBearer(c)
	if !ok {
		return
	}

	orders, err := h.client.Orders(c.Request.Context(), bearer)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// CreateOrder handles POST /orders
func (h *CatalogHandler) CreateOrder(c *gin.Context) {
	bearer, ok := h.requireBearer(c)
	if !ok {
		return
	}

	var req backend.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := h.client.CreateOrder(c.Request.Context(), bearer, &req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to create order",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data":    order,
	})
}

func (h *CatalogHandler) requireBearer(c *gin.Context) (string, bool) {
	if !h.sessions.IsAuthenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Sign in to access orders",
		})
		return "", false
	}

	bearer, _ := h.sessions.BearerToken(c.Request.Context())
	return bearer, true
}
