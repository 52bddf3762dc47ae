package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"golfpos/internal/report"
)

type legendEntry struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Percent  int    `json:"percent"`
}

// handleDashboard handles GET /api/dashboard: the KPI cards plus the data
// behind both charts.
func (h *posHandler) handleDashboard(ctx *gin.Context) {
	products := h.service.Products()
	transactions := h.service.Transactions()
	now := time.Now()

	totalUnits := report.TotalUnits(products)
	distribution := report.CategoryDistribution(products)
	categories := make([]legendEntry, 0, len(distribution))
	for _, slice := range distribution {
		categories = append(categories, legendEntry{
			Name:     slice.Name,
			Quantity: slice.Quantity,
			Percent:  report.LegendPercent(slice.Quantity, totalUnits),
		})
	}

	fresh, aging, obsolete := report.ObsolescenceBuckets(products, now)
	buckets := make([]legendEntry, 0, 3)
	for _, b := range []legendEntry{
		{Name: "Fresh (< 90 days)", Quantity: fresh},
		{Name: "Aging (90-120 days)", Quantity: aging},
		{Name: "Obsolete (> 120 days)", Quantity: obsolete},
	} {
		if b.Quantity == 0 {
			continue
		}
		b.Percent = report.LegendPercent(b.Quantity, totalUnits)
		buckets = append(buckets, b)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"totalRevenue":         report.Revenue(transactions),
		"inventoryValue":       report.InventoryValuation(products),
		"obsoleteItems":        report.ObsoleteCount(products, now, report.DefaultObsolescenceThreshold),
		"salesCount":           len(transactions),
		"categoryDistribution": categories,
		"obsolescenceBuckets":  buckets,
	})
}

// handleInventoryCSV handles GET /api/reports/inventory.csv?threshold=...
func (h *posHandler) handleInventoryCSV(ctx *gin.Context) {
	now := time.Now()
	csv := report.InventoryCSV(h.service.Products(), thresholdParam(ctx), now)
	ctx.Header("Content-Disposition", `attachment; filename="`+report.InventoryCSVFilename(now)+`"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// handleSalesCSV handles GET /api/reports/sales.csv.
func (h *posHandler) handleSalesCSV(ctx *gin.Context) {
	now := time.Now()
	csv := report.SalesCSV(h.service.Transactions())
	ctx.Header("Content-Disposition", `attachment; filename="`+report.SalesCSVFilename(now)+`"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// handleDailyInsight handles GET /api/insight/daily. The generator never
// errors; at worst the insight is a placeholder.
func (h *posHandler) handleDailyInsight(ctx *gin.Context) {
	text := h.insights.DailyInsight(ctx.Request.Context(), h.service.Transactions(), h.service.Products())
	ctx.JSON(http.StatusOK, gin.H{"insight": text})
}

// handleObsolescenceInsight handles GET /api/insight/obsolescence.
func (h *posHandler) handleObsolescenceInsight(ctx *gin.Context) {
	text := h.insights.ObsolescenceAnalysis(ctx.Request.Context(), h.service.Products())
	ctx.JSON(http.StatusOK, gin.H{"insight": text})
}
