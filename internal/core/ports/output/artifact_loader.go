package ports

import (
	"context"

	"model-serving-api/internal/core/domain"
)

// ArtifactLoader deserializes a persisted model file into a live Artifact
// bound to the given version. The on-disk format is the loader's concern;
// the registry only relies on the returned Artifact contract.
//
// A missing file must keep fs.ErrNotExist reachable through the error's
// unwrap chain so callers can distinguish "no such artifact" from corrupt
// data. Implementations should honor ctx between I/O and decode phases so
// a bounded load never hangs.
type ArtifactLoader interface {
	Load(ctx context.Context, version, path string) (domain.Artifact, error)
}
