package handlers

import (
	"net/http"

	"model-serving-api/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ListModels godoc
// @Summary List loaded model versions
// @Description Returns every loaded version's description together with the active version.
// @Tags models
// @Produce json
// @Success 200 {object} dto.ListModelsResponse
// @Router /models [get]
// @Security ApiKeyAuth
func (h *Handler) ListModels(c *gin.Context) {
	models, active := h.modelSvc.List()
	c.JSON(http.StatusOK, dto.ToListModelsResponse(models, active))
}

// GetModel godoc
// @Summary Describe one model version
// @Tags models
// @Produce json
// @Param version path string true "model version"
// @Success 200 {object} dto.ModelDescriptionResponse
// @Failure 404 {object} map[string]string
// @Router /models/{version} [get]
// @Security ApiKeyAuth
func (h *Handler) GetModel(c *gin.Context) {
	desc, err := h.modelSvc.Get(c.Param("version"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelDescriptionResponse(desc))
}

// LoadModel godoc
// @Summary Load or reload a model version
// @Description Deserializes the version's artifact and publishes it. The body may name an explicit artifact path; by default the conventional file in the models directory is used.
// @Tags models
// @Accept json
// @Produce json
// @Param version path string true "model version"
// @Param request body dto.LoadModelRequest false "optional artifact path"
// @Success 200 {object} dto.ModelDescriptionResponse
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /models/{version}/load [post]
// @Security ApiKeyAuth
func (h *Handler) LoadModel(c *gin.Context) {
	version := c.Param("version")

	var req dto.LoadModelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.modelSvc.Load(c.Request.Context(), version, req.Path); err != nil {
		log.WithError(err).Error("model load failed")
		mapDomainError(c, err)
		return
	}

	desc, err := h.modelSvc.Get(version)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelDescriptionResponse(desc))
}

// SetActiveModel godoc
// @Summary Switch the active model version
// @Description Points requests that name no version at an already-loaded version.
// @Tags models
// @Accept json
// @Produce json
// @Param request body dto.SetActiveModelRequest true "version to activate"
// @Success 200 {object} dto.ActiveModelResponse
// @Failure 404 {object} map[string]string
// @Router /models/active [put]
// @Security ApiKeyAuth
func (h *Handler) SetActiveModel(c *gin.Context) {
	var req dto.SetActiveModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.modelSvc.Activate(req.Version); err != nil {
		log.WithError(err).Error("model activation failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ActiveModelResponse{ActiveModel: h.modelSvc.Active()})
}
