package ports

import "model-serving-api/internal/core/domain"

// AuditStore persists served predictions for later inspection. Recording
// is best-effort from the caller's point of view: a store failure must
// never fail the prediction that triggered it.
type AuditStore interface {
	// Record appends one prediction to the trail.
	Record(rec domain.PredictionRecord) error

	// Recent returns up to limit records, newest first.
	Recent(limit int) ([]domain.PredictionRecord, error)

	// Close releases the underlying storage.
	Close() error
}
