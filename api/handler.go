package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/catalog"
	"backoffice/internal/inventory"
	"backoffice/internal/sales"
	"backoffice/internal/stats"
)

// Handler holds the back-office services and implements the HTTP handlers.
type Handler struct {
	sales   *sales.Service
	catalog *catalog.Service
	ledger  *inventory.Ledger
	stats   *stats.Engine
	logger  *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(s *sales.Service, c *catalog.Service, l *inventory.Ledger, e *stats.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		sales:   s,
		catalog: c,
		ledger:  l,
		stats:   e,
		logger:  logger,
	}
}

// saleStatus maps the sale error taxonomy onto HTTP status codes.
func saleStatus(err error) int {
	switch {
	case errors.Is(err, sales.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, sales.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sales.ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleCreateSale(ctx *gin.Context) {
	var req sales.Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind sale request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.sales.Create(ctx.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to create sale", zap.Error(err), zap.String("customer_id", req.CustomerID))
		ctx.JSON(saleStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, sale)
}

func (h *Handler) handleUpdateSale(ctx *gin.Context) {
	var req sales.Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.sales.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		h.logger.Error("failed to update sale", zap.Error(err), zap.String("sale_id", ctx.Param("id")))
		ctx.JSON(saleStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

func (h *Handler) handleDeleteSale(ctx *gin.Context) {
	sale, err := h.sales.Delete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(saleStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

func (h *Handler) handleGetSale(ctx *gin.Context) {
	sale, err := h.sales.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(saleStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

func (h *Handler) handleListSales(ctx *gin.Context) {
	var (
		list []*sales.Sale
		err  error
	)
	if customerID := ctx.Query("customer_id"); customerID != "" {
		list, err = h.sales.ListByCustomer(ctx.Request.Context(), customerID)
	} else {
		list, err = h.sales.List(ctx.Request.Context())
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *Handler) handleListCustomerSales(ctx *gin.Context) {
	list, err := h.sales.ListByCustomer(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// handleStats serves monthly stats. Degraded reports still answer 200 with
// zeroed values: dashboard availability wins over signaling the outage.
func (h *Handler) handleStats(ctx *gin.Context) {
	kind, err := stats.ParseKind(ctx.Param("kind"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report := h.stats.ComputeMonthly(ctx.Request.Context(), kind)
	ctx.JSON(http.StatusOK, report.Stats)
}

func (h *Handler) handleDecrementInventory(ctx *gin.Context) {
	var req struct {
		ProductID string `json:"product_id"`
		ColorID   string `json:"color_id"`
		SizeID    string `json:"size_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	err := h.ledger.Decrement(ctx.Request.Context(), req.ProductID, req.ColorID, req.SizeID, req.Quantity)
	switch {
	case errors.Is(err, inventory.ErrInvalidQuantity):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, inventory.ErrInsufficientStock):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		ctx.Status(http.StatusNoContent)
	}
}

func (h *Handler) handleProductInventory(ctx *gin.Context) {
	rows, err := h.ledger.ListForProduct(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, rows)
}

func catalogStatus(err error) int {
	if errors.Is(err, catalog.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *Handler) handleCreateProduct(ctx *gin.Context) {
	var req catalog.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	p, err := h.catalog.CreateProduct(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, p)
}

func (h *Handler) handleUpdateProduct(ctx *gin.Context) {
	var req catalog.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	p, err := h.catalog.UpdateProduct(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		ctx.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, p)
}

func (h *Handler) handleDeleteProduct(ctx *gin.Context) {
	p, err := h.catalog.DeleteProduct(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, p)
}

func (h *Handler) handleGetProduct(ctx *gin.Context) {
	p, err := h.catalog.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, p)
}

func (h *Handler) handleListProducts(ctx *gin.Context) {
	list, err := h.catalog.ListProducts(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *Handler) handleCreateCoupon(ctx *gin.Context) {
	var req catalog.CouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	c, err := h.catalog.CreateCoupon(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, c)
}

func (h *Handler) handleUpdateCoupon(ctx *gin.Context) {
	var req catalog.CouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	c, err := h.catalog.UpdateCoupon(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		ctx.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, c)
}

func (h *Handler) handleDeleteCoupon(ctx *gin.Context) {
	c, err := h.catalog.DeleteCoupon(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, c)
}

func (h *Handler) handleGetCoupon(ctx *gin.Context) {
	c, err := h.catalog.GetCoupon(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, c)
}

func (h *Handler) handleGetCouponByCode(ctx *gin.Context) {
	c, err := h.catalog.FindCouponByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		ctx.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, c)
}

func (h *Handler) handleListCoupons(ctx *gin.Context) {
	list, err := h.catalog.ListCoupons(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, list)
}
