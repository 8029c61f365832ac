package domain

import "time"

// PredictionResult is the registry's answer to a prediction request.
type PredictionResult struct {
	Prediction    int
	ClassName     string
	Confidence    []float64
	ConfidenceMax float64
	ModelVersion  string
	Timestamp     time.Time
}

// PredictionRecord is the audit-trail entry written for a served
// prediction.
type PredictionRecord struct {
	ID            string    `json:"id"`
	ModelVersion  string    `json:"model_version"`
	Features      []float64 `json:"features"`
	Prediction    int       `json:"prediction"`
	ClassName     string    `json:"class_name"`
	ConfidenceMax float64   `json:"confidence_max"`
	Timestamp     time.Time `json:"timestamp"`
}

// Health states reported by the serving layer. The process stays up and
// reports degraded when it has no usable model versions.
const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
)

// HealthStatus is the serving layer's liveness summary.
type HealthStatus struct {
	Status         string
	LoadedVersions []string
	ActiveVersion  string
}
