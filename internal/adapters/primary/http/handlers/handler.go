// Package handlers exposes the prediction and model-management HTTP API.
// Handlers bind requests, delegate to the core services, and translate
// domain errors to wire responses; none of them hold state of their own.
package handlers

import (
	"model-serving-api/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	predictionSvc *services.PredictionService
	modelSvc      *services.ModelService
}

func New(predictionSvc *services.PredictionService, modelSvc *services.ModelService) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
		modelSvc:      modelSvc,
	}
}

// RegisterRoutes wires the API group. predictLimit, when non-nil, is
// applied to the prediction route only; management and inspection routes
// are not rate limited.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, predictLimit gin.HandlerFunc) {
	// Predictions
	if predictLimit != nil {
		r.POST("/predict", predictLimit, h.Predict)
	} else {
		r.POST("/predict", h.Predict)
	}
	r.GET("/predictions/recent", h.RecentPredictions)

	// Model management
	r.GET("/models", h.ListModels)
	r.GET("/models/:version", h.GetModel)
	r.POST("/models/:version/load", h.LoadModel)
	r.PUT("/models/active", h.SetActiveModel)
}
