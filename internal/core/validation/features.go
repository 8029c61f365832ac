// Package validation implements the input contract for prediction
// requests: a feature vector must be a list of exactly DefaultFeatureCount
// numeric values, each inside the closed interval [MinFeature, MaxFeature].
package validation

import (
	"fmt"
	"strconv"

	"model-serving-api/internal/core/domain"
)

// DefaultFeatureCount is the feature-vector length every served model
// expects.
const DefaultFeatureCount = 4

// Closed interval every feature value must lie in.
const (
	MinFeature = 0
	MaxFeature = 10
)

// Features checks a raw decoded JSON value against the input contract and
// returns the coerced vector. Rules run in order and the first failure
// wins: the value must be a list, the length must equal expected, every
// element must be numeric, and every value must lie in
// [MinFeature, MaxFeature]. Elements are reported left to right.
//
// It is a pure function of its input; registry state is never consulted.
func Features(raw any, expected int) ([]float64, error) {
	var elems []any
	switch v := raw.(type) {
	case []any:
		elems = v
	case []float64:
		elems = make([]any, len(v))
		for i, f := range v {
			elems[i] = f
		}
	default:
		return nil, &domain.ValidationError{
			Kind:   domain.ValidationType,
			Reason: "Features must be a list",
		}
	}

	if len(elems) != expected {
		return nil, &domain.ValidationError{
			Kind:   domain.ValidationLength,
			Reason: fmt.Sprintf("Features array must contain exactly %d values, got %d", expected, len(elems)),
		}
	}

	features := make([]float64, len(elems))
	for i, elem := range elems {
		value, ok := toFloat(elem)
		if !ok {
			return nil, &domain.ValidationError{
				Kind:   domain.ValidationType,
				Reason: fmt.Sprintf("Feature at index %d must be a number, got %s", i, jsonTypeName(elem)),
			}
		}
		// Written as a negated conjunction so NaN (possible via a numeric
		// string like "NaN") fails the interval check.
		if !(value >= MinFeature && value <= MaxFeature) {
			return nil, &domain.ValidationError{
				Kind:   domain.ValidationRange,
				Reason: fmt.Sprintf("Feature at index %d must be between %d and %d, got %v", i, MinFeature, MaxFeature, value),
			}
		}
		features[i] = value
	}

	return features, nil
}

// toFloat accepts JSON numbers and numeric strings. Booleans, null and
// composite values are not numbers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// jsonTypeName names the JSON type of a decoded value for error messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
