package dto

import (
	"time"

	"model-serving-api/internal/core/domain"
)

// unknownCapability marks description fields a model kind does not expose.
const unknownCapability = "unknown"

// ModelDescriptionResponse reports one loaded version. NFeatures and
// NClasses are an int when the model exposes the capability and the
// string "unknown" otherwise; NEstimators is omitted entirely for models
// without sub-estimators.
type ModelDescriptionResponse struct {
	Version     string   `json:"version"`
	ModelType   string   `json:"model_type"`
	Loaded      bool     `json:"loaded"`
	NFeatures   any      `json:"n_features"`
	NClasses    any      `json:"n_classes"`
	Classes     []string `json:"classes"`
	NEstimators *int     `json:"n_estimators,omitempty"`
}

type ListModelsResponse struct {
	Models      map[string]ModelDescriptionResponse `json:"models"`
	ActiveModel string                              `json:"active_model"`
	Timestamp   string                              `json:"timestamp"`
}

type LoadModelRequest struct {
	Path string `json:"path"`
}

type SetActiveModelRequest struct {
	Version string `json:"version" binding:"required"`
}

type ActiveModelResponse struct {
	ActiveModel string `json:"active_model"`
}

type HealthResponse struct {
	Status       string   `json:"status"`
	ModelsLoaded []string `json:"models_loaded"`
	ActiveModel  string   `json:"active_model"`
	Timestamp    string   `json:"timestamp"`
}

func ToModelDescriptionResponse(desc domain.ModelDescription) ModelDescriptionResponse {
	resp := ModelDescriptionResponse{
		Version:     desc.Version,
		ModelType:   desc.ModelType,
		Loaded:      desc.Loaded,
		NFeatures:   unknownCapability,
		NClasses:    unknownCapability,
		Classes:     desc.Classes,
		NEstimators: desc.EstimatorCount,
	}
	if desc.FeatureCount != nil {
		resp.NFeatures = *desc.FeatureCount
	}
	if desc.ClassCount != nil {
		resp.NClasses = *desc.ClassCount
	}
	if resp.Classes == nil {
		resp.Classes = []string{}
	}
	return resp
}

func ToListModelsResponse(all map[string]domain.ModelDescription, active string) ListModelsResponse {
	models := make(map[string]ModelDescriptionResponse, len(all))
	for version, desc := range all {
		models[version] = ToModelDescriptionResponse(desc)
	}
	return ListModelsResponse{
		Models:      models,
		ActiveModel: active,
		Timestamp:   time.Now().UTC().Format(timeFormat),
	}
}

func ToHealthResponse(h domain.HealthStatus) HealthResponse {
	return HealthResponse{
		Status:       h.Status,
		ModelsLoaded: h.LoadedVersions,
		ActiveModel:  h.ActiveVersion,
		Timestamp:    time.Now().UTC().Format(timeFormat),
	}
}
