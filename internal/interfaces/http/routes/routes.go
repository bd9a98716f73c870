// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-gateway/internal/interfaces/http/handlers"
)

// SetupRoutes wires all route groups onto the API group
func SetupRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler, authHandler *handlers.AuthHandler, catalogHandler *handlers.CatalogHandler) {
	SetupCartRoutes(rg, cartHandler)
	SetupAuthRoutes(rg, authHandler)
	SetupCatalogRoutes(rg, catalogHandler)
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/panel", cartHandler.SetPanel)
		cart.GET("/receipt", cartHandler.Receipt)
	}
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/status", authHandler.Status)
		auth.POST("/refresh-status", authHandler.Refresh)
	}
}

// SetupCatalogRoutes sets up catalog and order routes
func SetupCatalogRoutes(rg *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/:slug", catalogHandler.GetProductBySlug)
	}

	services := rg.Group("/services")
	{
		services.GET("/categories", catalogHandler.GetServiceCategories)
	}

	orders := rg.Group("/orders")
	{
		orders.GET("", catalogHandler.GetOrders)
		orders.POST("", catalogHandler.CreateOrder)
	}
}
