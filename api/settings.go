package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"golfpos/internal/sheet"
)

// handleGetSettings handles GET /api/settings.
func (h *posHandler) handleGetSettings(ctx *gin.Context) {
	state, message := h.tester.State()
	ctx.JSON(http.StatusOK, gin.H{
		"endpoint": h.settings.Endpoint(),
		"state":    state,
		"message":  message,
	})
}

// handleTestEndpoint handles PUT /api/settings/endpoint: the interactive
// save-and-test flow. The candidate only becomes the configured endpoint if
// the test fetch succeeds; on failure the previous endpoint stays in place
// and the precise diagnostic is returned.
func (h *posHandler) handleTestEndpoint(ctx *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	state, message := h.tester.Test(ctx.Request.Context(), req.Endpoint)
	if state != sheet.StateSuccess {
		h.logger.Warn("endpoint test failed", zap.String("message", message))
		ctx.JSON(http.StatusBadRequest, gin.H{
			"state":   state,
			"message": message,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"state":    state,
		"endpoint": h.settings.Endpoint(),
	})
}

// handleTestStatus handles GET /api/settings/status.
func (h *posHandler) handleTestStatus(ctx *gin.Context) {
	state, message := h.tester.State()
	ctx.JSON(http.StatusOK, gin.H{"state": state, "message": message})
}

// handleResetStatus handles POST /api/settings/reset, called when the user
// edits the endpoint field after a failed test.
func (h *posHandler) handleResetStatus(ctx *gin.Context) {
	h.tester.Reset()
	ctx.JSON(http.StatusOK, gin.H{"state": sheet.StateIdle})
}
