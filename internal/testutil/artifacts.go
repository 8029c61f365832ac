package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteLinearArtifact writes a softmax_linear artifact file named
// model_<version>.json under dir and returns its path. The coefficients
// push probability mass toward higher class indices as feature values
// grow, so both low and high inputs produce confident classifications.
func WriteLinearArtifact(t *testing.T, dir, version string) string {
	t.Helper()
	doc := map[string]any{
		"schema_version": 1,
		"kind":           "softmax_linear",
		"n_features":     4,
		"classes":        []string{"setosa", "versicolor", "virginica"},
		"feature_names":  []string{"sepal_length", "sepal_width", "petal_length", "petal_width"},
		"weights": [][]float64{
			{-1, -1, -1, -1},
			{0.2, 0.2, 0.2, 0.2},
			{1, 1, 1, 1},
		},
		"bias": []float64{2.0, 0.5, -2.0},
	}
	return WriteArtifactDoc(t, dir, version, doc)
}

// WriteForestArtifact writes a two-tree random_forest artifact file named
// model_<version>.json under dir and returns its path. The trees split on
// the third and fourth features the way a small iris forest would.
func WriteForestArtifact(t *testing.T, dir, version string) string {
	t.Helper()
	tree := map[string]any{
		"nodes": []map[string]any{
			{"feature": 2, "threshold": 2.5, "left": 1, "right": 2},
			{"leaf": []float64{10, 0, 0}},
			{"feature": 3, "threshold": 1.6, "left": 3, "right": 4},
			{"leaf": []float64{0, 9, 1}},
			{"leaf": []float64{0, 1, 9}},
		},
	}
	doc := map[string]any{
		"schema_version": 1,
		"kind":           "random_forest",
		"n_features":     4,
		"classes":        []string{"setosa", "versicolor", "virginica"},
		"trees":          []map[string]any{tree, tree},
	}
	return WriteArtifactDoc(t, dir, version, doc)
}

// WriteArtifactDoc marshals doc and writes it as the conventional
// artifact file for version under dir, returning the path.
func WriteArtifactDoc(t *testing.T, dir, version string, doc map[string]any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return WriteRawArtifact(t, dir, version, data)
}

// WriteRawArtifact writes data verbatim as the conventional artifact file
// for version under dir, returning the path. Use it for corrupt or
// truncated fixtures.
func WriteRawArtifact(t *testing.T, dir, version string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "model_"+version+".json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
