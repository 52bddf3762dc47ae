package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"golfpos/internal/config"
	"golfpos/internal/insight"
	"golfpos/internal/report"
	"golfpos/internal/shop"
	"golfpos/internal/sheet"
)

// posHandler holds the services and implements the HTTP handlers for every
// view.
type posHandler struct {
	service  *shop.Service
	insights *insight.Generator
	tester   *sheet.Tester
	settings *config.Settings
	logger   *zap.Logger
}

// newPosHandler creates a new handler.
func newPosHandler(service *shop.Service, insights *insight.Generator, tester *sheet.Tester, settings *config.Settings, logger *zap.Logger) *posHandler {
	return &posHandler{
		service:  service,
		insights: insights,
		tester:   tester,
		settings: settings,
		logger:   logger,
	}
}

// productRow is a product enriched with the derived columns the inventory
// table shows.
type productRow struct {
	shop.Product
	DaysInStock int     `json:"daysInStock"`
	RiskPercent float64 `json:"riskPercent"`
	RiskLabel   string  `json:"riskLabel"`
	Obsolete    bool    `json:"obsolete"`
	LowStock    bool    `json:"lowStock"`
}

// handleListProducts handles GET /api/products?q=...&threshold=...
func (h *posHandler) handleListProducts(ctx *gin.Context) {
	threshold := thresholdParam(ctx)
	products := report.FilterProducts(h.service.Products(), ctx.Query("q"))

	now := time.Now()
	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		days := report.DaysInStock(p.DateAdded, now)
		risk := report.RiskPercent(days, threshold)
		rows = append(rows, productRow{
			Product:     p,
			DaysInStock: days,
			RiskPercent: risk,
			RiskLabel:   report.RiskLabel(risk),
			Obsolete:    days > threshold,
			LowStock:    report.LowStock(p),
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"products":   rows,
		"categories": report.AvailableCategories(h.service.Products()),
	})
}

// handleSaveProduct handles POST /api/products. An empty id creates, a
// known id replaces.
func (h *posHandler) handleSaveProduct(ctx *gin.Context) {
	var req struct {
		ID           string  `json:"id"`
		SKU          string  `json:"sku"`
		Name         string  `json:"name"`
		Category     string  `json:"category"`
		CostPrice    float64 `json:"costPrice"`
		SellingPrice float64 `json:"sellingPrice"`
		Quantity     int     `json:"quantity"`
		DateAdded    string  `json:"dateAdded"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind product request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	var dateAdded time.Time
	if req.DateAdded != "" {
		d, err := parseDate(req.DateAdded)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateAdded, expected YYYY-MM-DD"})
			return
		}
		dateAdded = d
	}

	created := req.ID == ""
	saved, err := h.service.SaveProduct(shop.Product{
		ID:           req.ID,
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Quantity:     req.Quantity,
		DateAdded:    dateAdded,
	})
	if err != nil {
		if errors.Is(err, shop.ErrInvalidProduct) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to save product", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save product"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, saved)
}

// handleDeleteProduct handles DELETE /api/products/:id. Deleting an unknown
// id is a no-op, matching the store contract.
func (h *posHandler) handleDeleteProduct(ctx *gin.Context) {
	h.service.DeleteProduct(ctx.Param("id"))
	ctx.Status(http.StatusNoContent)
}

// handleListTransactions handles GET /api/transactions.
func (h *posHandler) handleListTransactions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"transactions": h.service.Transactions()})
}

// handleCheckout handles POST /api/sales.
func (h *posHandler) handleCheckout(ctx *gin.Context) {
	var req struct {
		Items           []shop.CartLine `json:"items"`
		PaymentMethod   string          `json:"paymentMethod"`
		CustomerName    string          `json:"customerName"`
		CustomerAddress string          `json:"customerAddress"`
		Date            string          `json:"date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind checkout request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	var date time.Time
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = d
	}

	t, err := h.service.Checkout(req.Items, shop.PaymentMethod(req.PaymentMethod), req.CustomerName, req.CustomerAddress, date)
	if err != nil {
		switch {
		case errors.Is(err, shop.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, shop.ErrEmptyCart), errors.Is(err, shop.ErrInvalidPayment):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to record sale", zap.Error(err))
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusCreated, t)
}

func thresholdParam(ctx *gin.Context) int {
	threshold := report.DefaultObsolescenceThreshold
	if raw := ctx.Query("threshold"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			threshold = v
		}
	}
	return threshold
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
