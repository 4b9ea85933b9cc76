package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InitRoutes registers all back-office endpoints on the given Gin engine.
func InitRoutes(e *gin.Engine, h *Handler) {
	e.POST("/sales", h.handleCreateSale)
	e.PUT("/sales/:id", h.handleUpdateSale)
	e.DELETE("/sales/:id", h.handleDeleteSale)
	e.GET("/sales/:id", h.handleGetSale)
	e.GET("/sales", h.handleListSales)
	e.GET("/customers/:id/sales", h.handleListCustomerSales)

	e.GET("/stats/:kind", h.handleStats)
	e.POST("/inventory/decrement", h.handleDecrementInventory)

	e.POST("/products", h.handleCreateProduct)
	e.PUT("/products/:id", h.handleUpdateProduct)
	e.DELETE("/products/:id", h.handleDeleteProduct)
	e.GET("/products/:id", h.handleGetProduct)
	e.GET("/products/:id/inventory", h.handleProductInventory)
	e.GET("/products", h.handleListProducts)

	e.POST("/coupons", h.handleCreateCoupon)
	e.PUT("/coupons/:id", h.handleUpdateCoupon)
	e.DELETE("/coupons/:id", h.handleDeleteCoupon)
	e.GET("/coupons/:id", h.handleGetCoupon)
	e.GET("/coupons/code/:code", h.handleGetCouponByCode)
	e.GET("/coupons", h.handleListCoupons)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
