package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-serving-api/internal/core/domain"
	"model-serving-api/internal/core/ports/output"
	"model-serving-api/internal/core/registry"
	"model-serving-api/internal/core/validation"
	"model-serving-api/internal/metrics"
)

// versionNone is the metrics label used when a request never resolved to a
// loaded version, which keeps caller-chosen strings out of label values.
const versionNone = "none"

// PredictionService runs the full prediction pipeline: feature validation,
// registry dispatch, class labeling, audit trail, and instrumentation.
type PredictionService struct {
	registry *registry.Registry
	audit    ports.AuditStore // nil disables the audit trail
	metrics  *metrics.Metrics // nil disables instrumentation
}

// NewPredictionService creates a PredictionService. audit and m may be nil.
func NewPredictionService(reg *registry.Registry, audit ports.AuditStore, m *metrics.Metrics) *PredictionService {
	return &PredictionService{registry: reg, audit: audit, metrics: m}
}

// Predict validates rawFeatures against the serving input contract, routes
// the vector to the requested model version (empty selects the active
// one), and returns the classification. Rejected inputs surface as
// *domain.ValidationError before any model runs. A prediction that cannot
// be written to the audit trail is still returned; the write failure is
// logged and counted.
func (s *PredictionService) Predict(ctx context.Context, rawFeatures any, version string) (*domain.PredictionResult, error) {
	start := time.Now()

	features, err := validation.Features(rawFeatures, validation.DefaultFeatureCount)
	if err != nil {
		s.observe(versionNone, metrics.OutcomeInvalid, start)
		s.countValidationFailure(err)
		return nil, err
	}

	res, err := s.registry.Predict(ctx, features, version)
	if err != nil {
		s.observe(errorVersionLabel(err), metrics.OutcomeError, start)
		return nil, err
	}
	if res.ClassName == "" {
		res.ClassName = fmt.Sprintf("class_%d", res.Prediction)
	}

	s.record(res, features)
	s.observe(res.ModelVersion, metrics.OutcomeOK, start)
	return res, nil
}

// Recent returns the newest persisted prediction records, newest first.
func (s *PredictionService) Recent(limit int) ([]domain.PredictionRecord, error) {
	if s.audit == nil {
		return nil, domain.ErrAuditDisabled
	}
	return s.audit.Recent(limit)
}

func (s *PredictionService) record(res *domain.PredictionResult, features []float64) {
	if s.audit == nil {
		return
	}
	rec := domain.PredictionRecord{
		ID:            uuid.NewString(),
		ModelVersion:  res.ModelVersion,
		Features:      features,
		Prediction:    res.Prediction,
		ClassName:     res.ClassName,
		ConfidenceMax: res.ConfidenceMax,
		Timestamp:     res.Timestamp,
	}
	if err := s.audit.Record(rec); err != nil {
		log.WithError(err).WithField("version", res.ModelVersion).Warn("audit record write failed")
		if s.metrics != nil {
			s.metrics.AuditWriteFailures.Inc()
		}
	}
}

func (s *PredictionService) observe(version, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.PredictionsTotal.WithLabelValues(version, outcome).Inc()
	s.metrics.PredictionLatency.Observe(time.Since(start).Seconds())
}

func (s *PredictionService) countValidationFailure(err error) {
	if s.metrics == nil {
		return
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		s.metrics.ValidationFailures.WithLabelValues(string(vErr.Kind)).Inc()
	}
}

// errorVersionLabel extracts a bounded version label from a registry
// error. Only versions that actually resolved to a loaded artifact are
// used verbatim.
func errorVersionLabel(err error) string {
	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Version
	}
	return versionNone
}
