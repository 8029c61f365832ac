package services

import (
	"context"

	"model-serving-api/internal/core/domain"
	"model-serving-api/internal/core/registry"
	"model-serving-api/internal/metrics"
)

// ModelService exposes registry management: loading versions, switching
// the active version, and describing what is resident.
type ModelService struct {
	registry *registry.Registry
	metrics  *metrics.Metrics // nil disables instrumentation
}

// NewModelService creates a ModelService. m may be nil.
func NewModelService(reg *registry.Registry, m *metrics.Metrics) *ModelService {
	return &ModelService{registry: reg, metrics: m}
}

// Get returns the description of one loaded version; an empty version
// describes the active one.
func (s *ModelService) Get(version string) (domain.ModelDescription, error) {
	return s.registry.Describe(version)
}

// List returns the descriptions of every loaded version keyed by version,
// together with the active version.
func (s *ModelService) List() (map[string]domain.ModelDescription, string) {
	return s.registry.DescribeAll(), s.registry.Active()
}

// Load loads or reloads a model version. An empty path selects the
// conventional artifact file in the models directory.
func (s *ModelService) Load(ctx context.Context, version, path string) error {
	err := s.registry.LoadVersion(ctx, version, path)
	s.countLoad(version, err)
	s.setLoadedGauge()
	return err
}

// LoadAll loads every artifact found in the models directory and returns
// per-version success, falling back to the default version when the
// directory holds no artifacts.
func (s *ModelService) LoadAll(ctx context.Context) map[string]bool {
	results := s.registry.LoadAll(ctx)
	for version, ok := range results {
		s.countLoadResult(version, ok)
	}
	s.setLoadedGauge()
	return results
}

// Activate switches the active version to an already-loaded one.
func (s *ModelService) Activate(version string) error {
	if !s.registry.SetActive(version) {
		return &domain.VersionNotLoadedError{Version: version}
	}
	return nil
}

// Active returns the version serving requests that name no version.
func (s *ModelService) Active() string {
	return s.registry.Active()
}

// Health reports serving readiness: degraded until at least one version is
// loaded.
func (s *ModelService) Health() domain.HealthStatus {
	loaded := s.registry.Loaded()
	status := domain.HealthHealthy
	if len(loaded) == 0 {
		status = domain.HealthDegraded
	}
	return domain.HealthStatus{
		Status:         status,
		LoadedVersions: loaded,
		ActiveVersion:  s.registry.Active(),
	}
}

func (s *ModelService) countLoad(version string, err error) {
	s.countLoadResult(version, err == nil)
}

func (s *ModelService) countLoadResult(version string, ok bool) {
	if s.metrics == nil {
		return
	}
	result := metrics.ResultOK
	if !ok {
		result = metrics.ResultError
	}
	s.metrics.ModelLoads.WithLabelValues(version, result).Inc()
}

func (s *ModelService) setLoadedGauge() {
	if s.metrics == nil {
		return
	}
	s.metrics.ModelsLoaded.Set(float64(len(s.registry.Loaded())))
}
