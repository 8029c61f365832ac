package handlers

import (
	"net/http"

	"model-serving-api/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary Serving health
// @Description Reports healthy when at least one model version is loaded, degraded otherwise. The process keeps serving in either state.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToHealthResponse(h.modelSvc.Health()))
}
