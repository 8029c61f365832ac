// Package registry owns the process's loaded model versions: it loads
// artifacts from disk, resolves versions for prediction requests, and
// tracks the active version used when callers do not name one.
//
// One Registry serves many concurrent readers and rare writers. The
// artifact map is copy-on-write: writers build a replacement map and swap
// it under the write lock, so readers hold the read lock only long enough
// to resolve a version to an artifact. Inference itself never runs under
// a registry lock.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"model-serving-api/internal/core/domain"
	ports "model-serving-api/internal/core/ports/output"
)

// Artifact files follow the convention model_<version>.json inside the
// models directory.
const (
	artifactPrefix = "model_"
	artifactExt    = ".json"
)

// DefaultLoadTimeout bounds a single artifact deserialization so a bad
// file surfaces as a load failure instead of a hang.
const DefaultLoadTimeout = 30 * time.Second

// Config carries the registry's construction parameters.
type Config struct {
	// Dir is the models directory scanned by LoadAll and used to resolve
	// conventional artifact paths.
	Dir string
	// DefaultVersion is the initial active version and the fallback
	// LoadAll attempts when the directory scan finds no candidates. It may
	// name a version that never loads; the registry still serves others.
	DefaultVersion string
	// LoadTimeout bounds one artifact load. Zero selects
	// DefaultLoadTimeout.
	LoadTimeout time.Duration
}

// Registry is the in-memory store of loaded artifacts keyed by version.
// Construct one per process with New and pass it to its consumers; there
// is no package-level instance.
type Registry struct {
	loader         ports.ArtifactLoader
	dir            string
	defaultVersion string
	timeout        time.Duration

	loadGroup singleflight.Group

	mu        sync.RWMutex
	artifacts map[string]domain.Artifact // replaced wholesale, never mutated in place
	order     []string                   // load order, used only for listing
	active    string
}

// New builds an empty registry. Versions become available through
// LoadVersion or LoadAll.
func New(loader ports.ArtifactLoader, cfg Config) *Registry {
	timeout := cfg.LoadTimeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	active := cfg.DefaultVersion
	if active == "" {
		active = "v1"
	}
	return &Registry{
		loader:         loader,
		dir:            cfg.Dir,
		defaultVersion: active,
		timeout:        timeout,
		artifacts:      make(map[string]domain.Artifact),
		active:         active,
	}
}

// ArtifactPath returns the conventional artifact location for a version
// inside the registry's models directory.
func (r *Registry) ArtifactPath(version string) string {
	return filepath.Join(r.dir, artifactPrefix+version+artifactExt)
}

// LoadVersion deserializes the artifact for version and publishes it. An
// empty path selects the conventional per-version file in the models
// directory. Loading an already-present version replaces its artifact but
// keeps its position in the listing order. On failure the registry is
// unchanged and the returned error is a *domain.LoadError carrying the
// cause.
//
// Deserialization runs outside the registry lock, bounded by the
// configured load timeout. Concurrent loads of the same version and path
// are collapsed into a single deserialization.
func (r *Registry) LoadVersion(ctx context.Context, version, path string) error {
	if version == "" {
		return &domain.LoadError{Version: version, Path: path, Err: fmt.Errorf("version identifier is empty")}
	}
	if path == "" {
		path = r.ArtifactPath(version)
	}

	key := version + "\x00" + path
	_, err, _ := r.loadGroup.Do(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		art, err := r.loader.Load(loadCtx, version, path)
		if err != nil {
			return nil, &domain.LoadError{Version: version, Path: path, Err: err}
		}

		r.publish(version, art)
		log.WithFields(log.Fields{"version": version, "path": path}).Info("model version loaded")
		return nil, nil
	})
	return err
}

// publish swaps in a copy of the artifact map containing art. Readers
// holding the previous map keep a consistent view.
func (r *Registry) publish(version string, art domain.Artifact) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]domain.Artifact, len(r.artifacts)+1)
	for k, v := range r.artifacts {
		next[k] = v
	}
	_, replaced := next[version]
	next[version] = art
	r.artifacts = next
	if !replaced {
		r.order = append(r.order, version)
	}
}

// LoadAll scans the models directory for conventional artifact files and
// attempts each in sorted order, returning per-version success. When the
// scan yields no candidates it falls back to attempting the default
// version alone. LoadAll never fails: a scan error is logged and reflected
// as an empty result map, and per-version load failures are recorded as
// false entries.
func (r *Registry) LoadAll(ctx context.Context) map[string]bool {
	results := make(map[string]bool)

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		log.WithError(err).WithField("dir", r.dir).Warn("models directory scan failed")
		return results
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, artifactPrefix) || !strings.HasSuffix(name, artifactExt) {
			continue
		}
		version := strings.TrimSuffix(strings.TrimPrefix(name, artifactPrefix), artifactExt)
		if version == "" {
			continue
		}
		versions = append(versions, version)
	}
	sort.Strings(versions)

	if len(versions) == 0 {
		versions = []string{r.defaultVersion}
	}

	for _, version := range versions {
		err := r.LoadVersion(ctx, version, "")
		if err != nil {
			log.WithError(err).WithField("version", version).Error("model load failed")
		}
		results[version] = err == nil
	}
	return results
}

// Predict resolves version (empty selects the active version), invokes
// the artifact outside any registry lock, and wraps the classification
// with the resolved version and a generation timestamp.
func (r *Registry) Predict(ctx context.Context, features []float64, version string) (*domain.PredictionResult, error) {
	art, resolved, err := r.resolve(version)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := art.Classify(features)
	if err != nil {
		return nil, &domain.ExecutionError{Version: resolved, Err: err}
	}
	if c.Index < 0 || c.Index >= len(c.Probabilities) {
		return nil, &domain.ExecutionError{
			Version: resolved,
			Err:     fmt.Errorf("class index %d outside probability vector of length %d", c.Index, len(c.Probabilities)),
		}
	}

	return &domain.PredictionResult{
		Prediction:    c.Index,
		ClassName:     c.Label,
		Confidence:    c.Probabilities,
		ConfidenceMax: c.Probabilities[c.Index],
		ModelVersion:  resolved,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// Describe returns the description of one loaded version; an empty
// version describes the active one.
func (r *Registry) Describe(version string) (domain.ModelDescription, error) {
	art, _, err := r.resolve(version)
	if err != nil {
		return domain.ModelDescription{}, err
	}
	return art.Describe(), nil
}

// DescribeAll returns descriptions for every loaded version keyed by
// version.
func (r *Registry) DescribeAll() map[string]domain.ModelDescription {
	r.mu.RLock()
	artifacts := r.artifacts
	order := r.order
	r.mu.RUnlock()

	out := make(map[string]domain.ModelDescription, len(order))
	for _, version := range order {
		if art, ok := artifacts[version]; ok {
			out[version] = art.Describe()
		}
	}
	return out
}

// SetActive points the default prediction version at an already-loaded
// version. It reports false and leaves state unchanged when the version
// is not loaded; it never fails.
func (r *Registry) SetActive(version string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.artifacts[version]; !ok {
		return false
	}
	r.active = version
	return true
}

// Active returns the version used when prediction requests name none.
func (r *Registry) Active() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Loaded returns the loaded versions in load order.
func (r *Registry) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// resolve maps a requested version to its artifact under the read lock.
func (r *Registry) resolve(version string) (domain.Artifact, string, error) {
	r.mu.RLock()
	if version == "" {
		version = r.active
	}
	art, ok := r.artifacts[version]
	r.mu.RUnlock()

	if !ok {
		return nil, version, &domain.VersionNotLoadedError{Version: version}
	}
	return art, version, nil
}
