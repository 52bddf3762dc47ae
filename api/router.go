package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"golfpos/internal/config"
	"golfpos/internal/insight"
	"golfpos/internal/shop"
	"golfpos/internal/sheet"
)

// InitRoutes wires storage, sync and handlers onto the given Gin engine and
// registers every endpoint. The store is seeded with the bundled sample
// data, then silently refreshed from the sheet if an endpoint is already
// configured.
func InitRoutes(e *gin.Engine, cfg *config.Config) error {
	return initRoutes(e, cfg, true)
}

// InitRoutesEmpty is InitRoutes without the sample seed, so integration
// tests start from empty collections.
func InitRoutesEmpty(e *gin.Engine, cfg *config.Config) error {
	return initRoutes(e, cfg, false)
}

func initRoutes(e *gin.Engine, cfg *config.Config, seed bool) error {
	logger, _ := zap.NewProduction()

	settings, err := config.OpenSettings(cfg.SettingsFile)
	if err != nil {
		return err
	}

	storage := shop.NewLocalStorage()
	client := sheet.NewClient(logger)
	outbox := sheet.NewOutbox(client, settings.Endpoint, logger)
	service := shop.NewService(storage, outbox, logger)
	if seed {
		service.ApplySnapshot(shop.SampleProducts(), shop.SampleTransactions())
	}

	poller := sheet.NewPoller(client, service, cfg.PollInterval, logger)
	tester := sheet.NewTester(client, settings, service, poller, logger)
	insights := insight.NewGenerator(cfg.GeminiAPIKey, cfg.GeminiModel, logger)

	if endpoint := settings.Endpoint(); endpoint != "" {
		poller.SetEndpoint(endpoint)
		// The endpoint may be stale or the shop offline; the startup
		// refresh fails silently just like background polls.
		go poller.Refresh(context.Background(), endpoint)
	}

	h := newPosHandler(service, insights, tester, settings, logger)

	e.Use(cors.Default())

	e.GET("/api/products", h.handleListProducts)
	e.POST("/api/products", h.handleSaveProduct)
	e.DELETE("/api/products/:id", h.handleDeleteProduct)

	e.GET("/api/transactions", h.handleListTransactions)
	e.POST("/api/sales", h.handleCheckout)

	e.GET("/api/dashboard", h.handleDashboard)
	e.GET("/api/reports/inventory.csv", h.handleInventoryCSV)
	e.GET("/api/reports/sales.csv", h.handleSalesCSV)

	e.GET("/api/insight/daily", h.handleDailyInsight)
	e.GET("/api/insight/obsolescence", h.handleObsolescenceInsight)

	e.GET("/api/settings", h.handleGetSettings)
	e.PUT("/api/settings/endpoint", h.handleTestEndpoint)
	e.GET("/api/settings/status", h.handleTestStatus)
	e.POST("/api/settings/reset", h.handleResetStatus)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	return nil
}
