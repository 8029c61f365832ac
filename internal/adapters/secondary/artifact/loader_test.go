package artifact

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-serving-api/internal/testutil"
)

func loadArtifactDoc(t *testing.T, version string, doc map[string]any) error {
	t.Helper()
	path := testutil.WriteArtifactDoc(t, t.TempDir(), version, doc)
	_, err := NewLoader().Load(context.Background(), version, path)
	return err
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), "v1", filepath.Join(t.TempDir(), "model_v1.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoaderCorruptJSON(t *testing.T) {
	path := testutil.WriteRawArtifact(t, t.TempDir(), "v1", []byte("{\"kind\": \"random_for"))
	_, err := NewLoader().Load(context.Background(), "v1", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse artifact envelope")
}

func TestLoaderUnknownKind(t *testing.T) {
	err := loadArtifactDoc(t, "v1", map[string]any{
		"schema_version": 1,
		"kind":           "gradient_boost",
		"n_features":     4,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported artifact kind "gradient_boost"`)
}

func TestLoaderUnsupportedSchemaVersion(t *testing.T) {
	err := loadArtifactDoc(t, "v1", map[string]any{
		"schema_version": 2,
		"kind":           "softmax_linear",
		"n_features":     4,
		"weights":        [][]float64{{0, 0, 0, 0}, {0, 0, 0, 0}},
		"bias":           []float64{0, 0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema_version 2")
}

func TestLoaderCancelledContext(t *testing.T) {
	path := testutil.WriteLinearArtifact(t, t.TempDir(), "v1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader().Load(ctx, "v1", path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinearClassify(t *testing.T) {
	path := testutil.WriteLinearArtifact(t, t.TempDir(), "v1")
	art, err := NewLoader().Load(context.Background(), "v1", path)
	require.NoError(t, err)
	assert.Equal(t, "v1", art.Version())

	c, err := art.Classify([]float64{5.1, 3.5, 1.4, 0.2})
	require.NoError(t, err)
	require.Len(t, c.Probabilities, 3)

	sum := 0.0
	for _, p := range c.Probabilities {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	// The fixture's weights grow with the class index, so a large feature
	// sum lands in the last class.
	assert.Equal(t, 2, c.Index)
	assert.Equal(t, "virginica", c.Label)
	assert.InDelta(t, c.Probabilities[2], maxOf(c.Probabilities), 1e-12)
}

func TestLinearClassifyLowFeatureSum(t *testing.T) {
	path := testutil.WriteLinearArtifact(t, t.TempDir(), "v1")
	art, err := NewLoader().Load(context.Background(), "v1", path)
	require.NoError(t, err)

	c, err := art.Classify([]float64{0.1, 0.1, 0.1, 0.1})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, "setosa", c.Label)
}

func TestLinearClassifyTieResolvesToLowestIndex(t *testing.T) {
	path := testutil.WriteArtifactDoc(t, t.TempDir(), "tie", map[string]any{
		"schema_version": 1,
		"kind":           "softmax_linear",
		"n_features":     4,
		"weights":        [][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}},
		"bias":           []float64{0, 0, 0},
	})
	art, err := NewLoader().Load(context.Background(), "tie", path)
	require.NoError(t, err)

	c, err := art.Classify([]float64{2, 2, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Index)
	for _, p := range c.Probabilities {
		assert.InDelta(t, 1.0/3.0, p, 1e-9)
	}
}

func TestLinearClassifyFeatureCountMismatch(t *testing.T) {
	path := testutil.WriteLinearArtifact(t, t.TempDir(), "v1")
	art, err := NewLoader().Load(context.Background(), "v1", path)
	require.NoError(t, err)

	_, err = art.Classify([]float64{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 features, got 3")
}

func TestLinearDescribe(t *testing.T) {
	path := testutil.WriteLinearArtifact(t, t.TempDir(), "v1")
	art, err := NewLoader().Load(context.Background(), "v1", path)
	require.NoError(t, err)

	desc := art.Describe()
	assert.Equal(t, "v1", desc.Version)
	assert.Equal(t, KindSoftmaxLinear, desc.ModelType)
	assert.True(t, desc.Loaded)
	require.NotNil(t, desc.FeatureCount)
	assert.Equal(t, 4, *desc.FeatureCount)
	require.NotNil(t, desc.ClassCount)
	assert.Equal(t, 3, *desc.ClassCount)
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, desc.Classes)
	assert.Nil(t, desc.EstimatorCount)
}

func TestLinearDecodeRejectsBadShapes(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"schema_version": 1,
			"kind":           "softmax_linear",
			"n_features":     2,
			"weights":        [][]float64{{1, 2}, {3, 4}},
			"bias":           []float64{0, 0},
		}
	}

	cases := []struct {
		name    string
		mutate  func(doc map[string]any)
		wantErr string
	}{
		{
			name:    "single class",
			mutate:  func(doc map[string]any) { doc["weights"] = [][]float64{{1, 2}}; doc["bias"] = []float64{0} },
			wantErr: "at least 2 classes",
		},
		{
			name:    "ragged weights",
			mutate:  func(doc map[string]any) { doc["weights"] = [][]float64{{1, 2}, {3}} },
			wantErr: "weight row 1 has 1 entries, want 2",
		},
		{
			name:    "bias length mismatch",
			mutate:  func(doc map[string]any) { doc["bias"] = []float64{0} },
			wantErr: "bias has 1 entries, want 2",
		},
		{
			name:    "classes length mismatch",
			mutate:  func(doc map[string]any) { doc["classes"] = []string{"only"} },
			wantErr: "classes has 1 entries, want 2",
		},
		{
			name:    "zero features",
			mutate:  func(doc map[string]any) { doc["n_features"] = 0 },
			wantErr: "n_features must be positive",
		},
		{
			name:    "feature names mismatch",
			mutate:  func(doc map[string]any) { doc["feature_names"] = []string{"a", "b", "c"} },
			wantErr: "feature_names has 3 entries, want 2",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := base()
			tc.mutate(doc)
			err := loadArtifactDoc(t, "bad", doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestForestClassify(t *testing.T) {
	path := testutil.WriteForestArtifact(t, t.TempDir(), "v2")
	art, err := NewLoader().Load(context.Background(), "v2", path)
	require.NoError(t, err)

	cases := []struct {
		features  []float64
		wantIndex int
		wantLabel string
	}{
		{[]float64{5.1, 3.5, 1.4, 0.2}, 0, "setosa"},
		{[]float64{6.0, 2.9, 4.5, 1.5}, 1, "versicolor"},
		{[]float64{6.3, 3.3, 6.0, 2.5}, 2, "virginica"},
	}
	for _, tc := range cases {
		c, err := art.Classify(tc.features)
		require.NoError(t, err)
		assert.Equal(t, tc.wantIndex, c.Index, "features %v", tc.features)
		assert.Equal(t, tc.wantLabel, c.Label, "features %v", tc.features)
		require.Len(t, c.Probabilities, 3)

		sum := 0.0
		for _, p := range c.Probabilities {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
		assert.InDelta(t, c.Probabilities[tc.wantIndex], maxOf(c.Probabilities), 1e-12)
	}
}

func TestForestClassifyFeatureCountMismatch(t *testing.T) {
	path := testutil.WriteForestArtifact(t, t.TempDir(), "v2")
	art, err := NewLoader().Load(context.Background(), "v2", path)
	require.NoError(t, err)

	_, err = art.Classify([]float64{1, 2, 3, 4, 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 features, got 5")
}

func TestForestDescribe(t *testing.T) {
	path := testutil.WriteForestArtifact(t, t.TempDir(), "v2")
	art, err := NewLoader().Load(context.Background(), "v2", path)
	require.NoError(t, err)

	desc := art.Describe()
	assert.Equal(t, KindRandomForest, desc.ModelType)
	require.NotNil(t, desc.EstimatorCount)
	assert.Equal(t, 2, *desc.EstimatorCount)
	require.NotNil(t, desc.ClassCount)
	assert.Equal(t, 3, *desc.ClassCount)
}

func TestForestUnlabeledClasses(t *testing.T) {
	path := testutil.WriteArtifactDoc(t, t.TempDir(), "bare", map[string]any{
		"schema_version": 1,
		"kind":           "random_forest",
		"n_features":     4,
		"trees": []map[string]any{
			{"nodes": []map[string]any{{"leaf": []float64{3, 1}}}},
		},
	})
	art, err := NewLoader().Load(context.Background(), "bare", path)
	require.NoError(t, err)

	c, err := art.Classify([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, "", c.Label)
	assert.InDelta(t, 0.75, c.Probabilities[0], 1e-9)
}

func TestForestDecodeRejectsBadTrees(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"schema_version": 1,
			"kind":           "random_forest",
			"n_features":     2,
			"classes":        []string{"a", "b"},
			"trees": []map[string]any{
				{"nodes": []map[string]any{
					{"feature": 0, "threshold": 1.5, "left": 1, "right": 2},
					{"leaf": []float64{4, 0}},
					{"leaf": []float64{0, 4}},
				}},
			},
		}
	}

	cases := []struct {
		name    string
		mutate  func(doc map[string]any)
		wantErr string
	}{
		{
			name:    "no trees",
			mutate:  func(doc map[string]any) { doc["trees"] = []map[string]any{} },
			wantErr: "no trees",
		},
		{
			name: "empty tree",
			mutate: func(doc map[string]any) {
				doc["trees"] = []map[string]any{{"nodes": []map[string]any{}}}
			},
			wantErr: "tree 0 has no nodes",
		},
		{
			name: "feature index out of range",
			mutate: func(doc map[string]any) {
				doc["trees"].([]map[string]any)[0]["nodes"].([]map[string]any)[0]["feature"] = 7
			},
			wantErr: "feature index 7 out of range",
		},
		{
			name: "backward child index",
			mutate: func(doc map[string]any) {
				doc["trees"].([]map[string]any)[0]["nodes"].([]map[string]any)[0]["left"] = 0
			},
			wantErr: "child indices must follow the node",
		},
		{
			name: "child index past the array",
			mutate: func(doc map[string]any) {
				doc["trees"].([]map[string]any)[0]["nodes"].([]map[string]any)[0]["right"] = 9
			},
			wantErr: "child indices must follow the node",
		},
		{
			name: "node neither split nor leaf",
			mutate: func(doc map[string]any) {
				doc["trees"].([]map[string]any)[0]["nodes"].([]map[string]any)[0] = map[string]any{"threshold": 1.0}
			},
			wantErr: "need either leaf counts or feature/left/right",
		},
		{
			name: "leaf width mismatch",
			mutate: func(doc map[string]any) {
				doc["trees"].([]map[string]any)[0]["nodes"].([]map[string]any)[1]["leaf"] = []float64{1, 2, 3}
			},
			wantErr: "leaf has 3 classes, want 2",
		},
		{
			name: "negative leaf count",
			mutate: func(doc map[string]any) {
				doc["trees"].([]map[string]any)[0]["nodes"].([]map[string]any)[1]["leaf"] = []float64{-1, 2}
			},
			wantErr: "finite and non-negative",
		},
		{
			name: "zero-sum leaf",
			mutate: func(doc map[string]any) {
				doc["trees"].([]map[string]any)[0]["nodes"].([]map[string]any)[1]["leaf"] = []float64{0, 0}
			},
			wantErr: "sum to zero",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := base()
			tc.mutate(doc)
			err := loadArtifactDoc(t, "bad", doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
