// Package artifact deserializes model files into runnable classifiers.
// An artifact is a JSON document with a common envelope naming the model
// kind; each kind decodes into its own classifier implementing
// domain.Artifact.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"model-serving-api/internal/core/domain"
)

// Supported artifact kinds.
const (
	KindRandomForest  = "random_forest"
	KindSoftmaxLinear = "softmax_linear"
)

// SchemaVersion is the artifact document revision this loader accepts.
const SchemaVersion = 1

// Loader reads artifact files from the local filesystem. It implements
// ports.ArtifactLoader.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

// header is the envelope shared by every artifact kind.
type header struct {
	SchemaVersion int      `json:"schema_version"`
	Kind          string   `json:"kind"`
	NFeatures     int      `json:"n_features"`
	Classes       []string `json:"classes"`
	FeatureNames  []string `json:"feature_names"`
}

func (h *header) validate() error {
	if h.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported schema_version %d, want %d", h.SchemaVersion, SchemaVersion)
	}
	if h.NFeatures < 1 {
		return fmt.Errorf("n_features must be positive, got %d", h.NFeatures)
	}
	if len(h.FeatureNames) > 0 && len(h.FeatureNames) != h.NFeatures {
		return fmt.Errorf("feature_names has %d entries, want %d", len(h.FeatureNames), h.NFeatures)
	}
	return nil
}

// Load reads and decodes the artifact at path. A missing file keeps
// fs.ErrNotExist reachable through the error chain so callers can map it
// to not-found. The context is honored between file I/O and decoding.
func (l *Loader) Load(ctx context.Context, version, path string) (domain.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var env header
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse artifact envelope: %w", err)
	}

	switch env.Kind {
	case KindRandomForest:
		return decodeForest(version, data)
	case KindSoftmaxLinear:
		return decodeLinear(version, data)
	default:
		return nil, fmt.Errorf("unsupported artifact kind %q", env.Kind)
	}
}

// classLabel resolves the display label for a class index; unlabeled
// models return the empty string and callers fall back to a positional
// name.
func classLabel(classes []string, idx int) string {
	if idx < len(classes) {
		return classes[idx]
	}
	return ""
}
