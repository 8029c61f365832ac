package artifact

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"model-serving-api/internal/core/domain"
)

// linearDoc is the wire form of a softmax_linear artifact: one weight row
// and one bias term per class.
type linearDoc struct {
	header
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// linear is a loaded softmax_linear classifier. Classify computes
// softmax(Wx+b) with the log-sum-exp trick so large logits do not
// overflow.
type linear struct {
	version string
	classes []string
	weights [][]float64
	bias    []float64
}

func decodeLinear(version string, data []byte) (domain.Artifact, error) {
	var doc linearDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse softmax_linear artifact: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	if len(doc.Weights) < 2 {
		return nil, fmt.Errorf("softmax_linear artifact needs at least 2 classes, got %d weight rows", len(doc.Weights))
	}
	if len(doc.Bias) != len(doc.Weights) {
		return nil, fmt.Errorf("bias has %d entries, want %d", len(doc.Bias), len(doc.Weights))
	}
	if len(doc.Classes) > 0 && len(doc.Classes) != len(doc.Weights) {
		return nil, fmt.Errorf("classes has %d entries, want %d", len(doc.Classes), len(doc.Weights))
	}
	for ci, row := range doc.Weights {
		if len(row) != doc.NFeatures {
			return nil, fmt.Errorf("weight row %d has %d entries, want %d", ci, len(row), doc.NFeatures)
		}
		for fi, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("weight row %d entry %d is not finite", ci, fi)
			}
		}
	}
	for ci, b := range doc.Bias {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, fmt.Errorf("bias entry %d is not finite", ci)
		}
	}

	return &linear{
		version: version,
		classes: doc.Classes,
		weights: doc.Weights,
		bias:    doc.Bias,
	}, nil
}

func (l *linear) Version() string { return l.version }

// Classify computes class logits Wx+b and converts them to a probability
// distribution. The highest-probability class wins; ties resolve to the
// lowest class index.
func (l *linear) Classify(features []float64) (domain.Classification, error) {
	if len(features) != len(l.weights[0]) {
		return domain.Classification{}, fmt.Errorf("expected %d features, got %d", len(l.weights[0]), len(features))
	}

	logits := make([]float64, len(l.weights))
	for ci, row := range l.weights {
		logits[ci] = floats.Dot(row, features) + l.bias[ci]
	}

	lse := floats.LogSumExp(logits)
	probs := make([]float64, len(logits))
	for ci, logit := range logits {
		probs[ci] = math.Exp(logit - lse)
	}

	idx := floats.MaxIdx(probs)
	return domain.Classification{
		Index:         idx,
		Label:         classLabel(l.classes, idx),
		Probabilities: probs,
	}, nil
}

func (l *linear) Describe() domain.ModelDescription {
	features := len(l.weights[0])
	classes := len(l.weights)
	return domain.ModelDescription{
		Version:      l.version,
		ModelType:    KindSoftmaxLinear,
		Loaded:       true,
		FeatureCount: &features,
		ClassCount:   &classes,
		Classes:      l.classes,
	}
}
