package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"stocktrack/internal/models"
	"stocktrack/internal/monitor"
	"stocktrack/internal/service"
	"stocktrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	auth      *service.AuthService
	inventory *service.InventoryService
	sales     *service.SalesService
	monitor   *monitor.Monitor
}

// NewHandler creates a new HTTP handler
func NewHandler(
	auth *service.AuthService,
	inventory *service.InventoryService,
	sales *service.SalesService,
	mon *monitor.Monitor,
) *Handler {
	return &Handler{
		auth:      auth,
		inventory: inventory,
		sales:     sales,
		monitor:   mon,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", h.register)
		v1.POST("/auth/login", h.login)

		v1.GET("/products/available", h.availableProducts)
		v1.POST("/products/:id/purchase", h.purchase)

		admin := v1.Group("", adminOnly())
		{
			admin.GET("/products", h.listProducts)
			admin.POST("/products", h.addProduct)
			admin.POST("/products/:id/stock", h.increaseStock)
			admin.DELETE("/products/:id", h.deleteProduct)

			admin.GET("/sales", h.listSales)
			admin.GET("/sales/export", h.exportSales)
			admin.GET("/sales/trends", h.salesTrends)
			admin.DELETE("/sales/:id", h.deleteSale)
			admin.DELETE("/sales", h.clearSales)

			admin.GET("/alerts", h.activeAlerts)
		}
	}
}

// adminOnly enforces the two-role model. There are no session tokens; the
// shell passes the role it obtained at login.
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Role") != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.auth.Register(c.Request.Context(), req.Username, req.Password, req.Role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"username": req.Username, "role": req.Role})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	creds, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, creds)
}

type addProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (h *Handler) addProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	product, err := h.inventory.AddProduct(c.Request.Context(), req.Name, req.Price, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

type increaseStockRequest struct {
	Amount int `json:"amount" binding:"required"`
}

func (h *Handler) increaseStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req increaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.inventory.IncreaseStock(c.Request.Context(), id, req.Amount); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product_id": id, "amount": req.Amount})
}

type purchaseRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *Handler) purchase(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	sale, err := h.inventory.Purchase(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.inventory.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.inventory.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) availableProducts(c *gin.Context) {
	products, err := h.inventory.AvailableProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) listSales(c *gin.Context) {
	records, err := h.sales.ListSales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": records})
}

func (h *Handler) exportSales(c *gin.Context) {
	records, err := h.sales.ListSales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="sales.csv"`)
	if err := service.WriteCSV(c.Writer, records); err != nil {
		respondError(c, err)
	}
}

func (h *Handler) salesTrends(c *gin.Context) {
	trends, err := h.inventory.SalesTrends(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

func (h *Handler) deleteSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.sales.DeleteSale(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) clearSales(c *gin.Context) {
	if err := h.sales.ClearAllSales(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) activeAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": h.monitor.ActiveAlerts()})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps the service error taxonomy onto HTTP statuses.
// Persistence failures stay 500 and never leak details beyond the message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
