package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"model-serving-api/internal/adapters/primary/http/dto"
	"model-serving-api/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Predict godoc
// @Summary Classify a feature vector
// @Description Runs the feature vector through the requested model version, or the active version when none is named.
// @Tags predictions
// @Accept json
// @Produce json
// @Param request body dto.PredictRequest true "feature vector and optional model version"
// @Success 200 {object} dto.PredictionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /predict [post]
// @Security ApiKeyAuth
func (h *Handler) Predict(c *gin.Context) {
	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Features) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingFeatures.Error()})
		return
	}

	// The raw message is kept as-is so the validator can name the actual
	// type a caller sent; an explicit null decodes to nil and is rejected
	// there, not here.
	var features any
	if err := json.Unmarshal(req.Features, &features); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.predictionSvc.Predict(c.Request.Context(), features, req.ModelVersion)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			log.WithError(err).Warn("prediction rejected")
		} else {
			log.WithError(err).Error("prediction failed")
		}
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictionResponse(res))
}

// RecentPredictions godoc
// @Summary List recently served predictions
// @Description Returns the newest audit-trail records, newest first.
// @Tags predictions
// @Produce json
// @Param limit query int false "maximum records to return" default(20)
// @Success 200 {object} dto.RecentPredictionsResponse
// @Failure 503 {object} map[string]string
// @Router /predictions/recent [get]
// @Security ApiKeyAuth
func (h *Handler) RecentPredictions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.predictionSvc.Recent(limit)
	if err != nil {
		log.WithError(err).Error("recent predictions query failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecentPredictionsResponse(records))
}
