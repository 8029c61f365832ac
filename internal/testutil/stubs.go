package testutil

import (
	"model-serving-api/internal/core/domain"
)

// StubArtifact is a canned Artifact for registry and service tests. It
// returns Probs on every Classify call, labeling the argmax index with
// the matching entry of Labels when present.
type StubArtifact struct {
	Ver         string
	Labels      []string
	Probs       []float64
	ClassifyErr error
}

func (s *StubArtifact) Version() string { return s.Ver }

func (s *StubArtifact) Classify(features []float64) (domain.Classification, error) {
	if s.ClassifyErr != nil {
		return domain.Classification{}, s.ClassifyErr
	}
	idx := 0
	for i, p := range s.Probs {
		if p > s.Probs[idx] {
			idx = i
		}
	}
	label := ""
	if idx < len(s.Labels) {
		label = s.Labels[idx]
	}
	return domain.Classification{Index: idx, Label: label, Probabilities: s.Probs}, nil
}

func (s *StubArtifact) Describe() domain.ModelDescription {
	features := 4
	classes := len(s.Probs)
	return domain.ModelDescription{
		Version:      s.Ver,
		ModelType:    "stub",
		Loaded:       true,
		FeatureCount: &features,
		ClassCount:   &classes,
		Classes:      s.Labels,
	}
}
