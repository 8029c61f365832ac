package dto

import (
	"encoding/json"
	"time"

	"model-serving-api/internal/core/domain"
)

const timeFormat = time.RFC3339

// PredictRequest is the body of POST /predict. Features stays raw JSON so
// the validator can report the offending type when callers send something
// other than a numeric array; a missing key is distinguishable from an
// explicit null.
type PredictRequest struct {
	Features     json.RawMessage `json:"features" swaggertype:"array,number"`
	ModelVersion string          `json:"model_version"`
}

type PredictionResponse struct {
	Prediction    int       `json:"prediction"`
	ClassName     string    `json:"class_name"`
	Confidence    []float64 `json:"confidence"`
	ConfidenceMax float64   `json:"confidence_max"`
	ModelVersion  string    `json:"model_version"`
	Timestamp     string    `json:"timestamp"`
}

type PredictionRecordResponse struct {
	ID            string    `json:"id"`
	ModelVersion  string    `json:"model_version"`
	Features      []float64 `json:"features"`
	Prediction    int       `json:"prediction"`
	ClassName     string    `json:"class_name"`
	ConfidenceMax float64   `json:"confidence_max"`
	Timestamp     string    `json:"timestamp"`
}

type RecentPredictionsResponse struct {
	Predictions []PredictionRecordResponse `json:"predictions"`
	Count       int                        `json:"count"`
}

func ToPredictionResponse(res *domain.PredictionResult) PredictionResponse {
	return PredictionResponse{
		Prediction:    res.Prediction,
		ClassName:     res.ClassName,
		Confidence:    res.Confidence,
		ConfidenceMax: res.ConfidenceMax,
		ModelVersion:  res.ModelVersion,
		Timestamp:     res.Timestamp.Format(timeFormat),
	}
}

func ToPredictionRecordResponse(rec domain.PredictionRecord) PredictionRecordResponse {
	return PredictionRecordResponse{
		ID:            rec.ID,
		ModelVersion:  rec.ModelVersion,
		Features:      rec.Features,
		Prediction:    rec.Prediction,
		ClassName:     rec.ClassName,
		ConfidenceMax: rec.ConfidenceMax,
		Timestamp:     rec.Timestamp.Format(timeFormat),
	}
}

func ToRecentPredictionsResponse(records []domain.PredictionRecord) RecentPredictionsResponse {
	items := make([]PredictionRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, ToPredictionRecordResponse(rec))
	}
	return RecentPredictionsResponse{Predictions: items, Count: len(items)}
}
