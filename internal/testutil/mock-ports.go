package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"model-serving-api/internal/core/domain"
)

// MockArtifactLoader is a mock of ArtifactLoader.
type MockArtifactLoader struct {
	mock.Mock
}

func (m *MockArtifactLoader) Load(ctx context.Context, version, path string) (domain.Artifact, error) {
	args := m.Called(ctx, version, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Artifact), args.Error(1)
}

// MockAuditStore is a mock of AuditStore.
type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) Record(rec domain.PredictionRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockAuditStore) Recent(limit int) ([]domain.PredictionRecord, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PredictionRecord), args.Error(1)
}

func (m *MockAuditStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// LoaderFunc adapts a function to the ArtifactLoader port for tests that
// need per-call behavior without mock expectations.
type LoaderFunc func(ctx context.Context, version, path string) (domain.Artifact, error)

func (f LoaderFunc) Load(ctx context.Context, version, path string) (domain.Artifact, error) {
	return f(ctx, version, path)
}
