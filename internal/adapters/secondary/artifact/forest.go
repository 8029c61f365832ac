package artifact

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"model-serving-api/internal/core/domain"
)

// forestDoc is the wire form of a random_forest artifact. Each tree is a
// flat node array rooted at index 0; internal nodes route to child
// indices, leaves carry per-class sample counts.
type forestDoc struct {
	header
	Trees []treeDoc `json:"trees"`
}

type treeDoc struct {
	Nodes []nodeDoc `json:"nodes"`
}

type nodeDoc struct {
	Feature   *int      `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      *int      `json:"left"`
	Right     *int      `json:"right"`
	Leaf      []float64 `json:"leaf"`
}

// forest is a loaded random_forest classifier. Leaf counts are normalized
// to distributions at decode time; Classify averages them across trees.
type forest struct {
	version  string
	features int
	classes  []string
	nClasses int
	trees    [][]node
}

// node is either a split (leaf nil) or a leaf distribution. Children
// always follow their parent in the node array, so traversal terminates.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	leaf      []float64
}

func decodeForest(version string, data []byte) (domain.Artifact, error) {
	var doc forestDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse random_forest artifact: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	if len(doc.Trees) == 0 {
		return nil, fmt.Errorf("random_forest artifact has no trees")
	}

	nClasses := len(doc.Classes)
	f := &forest{
		version:  version,
		features: doc.NFeatures,
		classes:  doc.Classes,
		trees:    make([][]node, 0, len(doc.Trees)),
	}

	for ti, td := range doc.Trees {
		if len(td.Nodes) == 0 {
			return nil, fmt.Errorf("tree %d has no nodes", ti)
		}
		nodes := make([]node, len(td.Nodes))
		for ni, nd := range td.Nodes {
			switch {
			case nd.Leaf != nil:
				dist, width, err := leafDistribution(nd.Leaf, nClasses)
				if err != nil {
					return nil, fmt.Errorf("tree %d node %d: %w", ti, ni, err)
				}
				nClasses = width
				nodes[ni] = node{leaf: dist}
			case nd.Feature != nil && nd.Left != nil && nd.Right != nil:
				if *nd.Feature < 0 || *nd.Feature >= doc.NFeatures {
					return nil, fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, *nd.Feature)
				}
				if !splitsForward(ni, *nd.Left, len(td.Nodes)) || !splitsForward(ni, *nd.Right, len(td.Nodes)) {
					return nil, fmt.Errorf("tree %d node %d: child indices must follow the node", ti, ni)
				}
				if math.IsNaN(nd.Threshold) || math.IsInf(nd.Threshold, 0) {
					return nil, fmt.Errorf("tree %d node %d: threshold is not finite", ti, ni)
				}
				nodes[ni] = node{feature: *nd.Feature, threshold: nd.Threshold, left: *nd.Left, right: *nd.Right}
			default:
				return nil, fmt.Errorf("tree %d node %d: need either leaf counts or feature/left/right", ti, ni)
			}
		}
		f.trees = append(f.trees, nodes)
	}

	if nClasses == 0 {
		return nil, fmt.Errorf("random_forest artifact has no class information")
	}
	f.nClasses = nClasses
	return f, nil
}

// leafDistribution normalizes per-class counts into a probability
// distribution and pins the forest's class width on first use.
func leafDistribution(counts []float64, nClasses int) ([]float64, int, error) {
	if nClasses != 0 && len(counts) != nClasses {
		return nil, 0, fmt.Errorf("leaf has %d classes, want %d", len(counts), nClasses)
	}
	if len(counts) == 0 {
		return nil, 0, fmt.Errorf("leaf has no class counts")
	}
	total := 0.0
	for _, c := range counts {
		if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, 0, fmt.Errorf("leaf counts must be finite and non-negative")
		}
		total += c
	}
	if total <= 0 {
		return nil, 0, fmt.Errorf("leaf counts sum to zero")
	}
	dist := make([]float64, len(counts))
	copy(dist, counts)
	floats.Scale(1/total, dist)
	return dist, len(counts), nil
}

func splitsForward(parent, child, n int) bool {
	return child > parent && child < n
}

func (f *forest) Version() string { return f.version }

// Classify walks every tree to a leaf, averages the leaf distributions,
// and picks the highest-probability class. Ties resolve to the lowest
// class index.
func (f *forest) Classify(features []float64) (domain.Classification, error) {
	if len(features) != f.features {
		return domain.Classification{}, fmt.Errorf("expected %d features, got %d", f.features, len(features))
	}

	probs := make([]float64, f.nClasses)
	for _, nodes := range f.trees {
		floats.Add(probs, walk(nodes, features))
	}
	floats.Scale(1/float64(len(f.trees)), probs)

	idx := floats.MaxIdx(probs)
	return domain.Classification{
		Index:         idx,
		Label:         classLabel(f.classes, idx),
		Probabilities: probs,
	}, nil
}

func walk(nodes []node, features []float64) []float64 {
	i := 0
	for {
		n := &nodes[i]
		if n.leaf != nil {
			return n.leaf
		}
		if features[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

func (f *forest) Describe() domain.ModelDescription {
	features := f.features
	classes := f.nClasses
	estimators := len(f.trees)
	return domain.ModelDescription{
		Version:        f.version,
		ModelType:      KindRandomForest,
		Loaded:         true,
		FeatureCount:   &features,
		ClassCount:     &classes,
		Classes:        f.classes,
		EstimatorCount: &estimators,
	}
}
