package domain

// Artifact is one loaded predictive model bound to a version identifier.
// Artifacts are created by the artifact loader, are immutable afterwards,
// and must be safe for concurrent Classify calls.
type Artifact interface {
	// Version returns the identifier the artifact was loaded under.
	Version() string

	// Classify produces a class prediction and the full probability
	// distribution for the given feature vector. It returns an error when
	// the vector does not match the model's expected shape or the model
	// fails internally; it never panics on well-formed input.
	Classify(features []float64) (Classification, error)

	// Describe reports the artifact's capabilities.
	Describe() ModelDescription
}

// Classification is the outcome of a single Classify call.
//
// Probabilities always has one entry per class, ordered like the model's
// label set, and sums to 1 within 1e-6. Index is the position of the
// maximum probability; ties resolve to the lowest index. Label is empty
// when the model carries no label set.
type Classification struct {
	Index         int
	Label         string
	Probabilities []float64
}

// ModelDescription describes a loaded model version. Capability fields
// that a model kind does not expose are nil rather than guessed.
type ModelDescription struct {
	Version        string
	ModelType      string
	Loaded         bool
	FeatureCount   *int
	ClassCount     *int
	Classes        []string
	EstimatorCount *int
}
