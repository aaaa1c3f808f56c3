package sketchgo

// Method selects the candidate-filtering strategy applied before exact
// reranking. MethodUnset at construction defers the choice to query time;
// MethodUnset at query time disables filtering entirely (exact search).
type Method int

const (
	// MethodUnset builds every representation at fit time and leaves the
	// strategy choice to the query. A query that also leaves it unset runs
	// exact search over the full dataset.
	MethodUnset Method = iota

	// MethodSymmetric ranks by Hamming distance between bit codes.
	MethodSymmetric

	// MethodAsymmetric ranks by the query-weighted sketch distance.
	MethodAsymmetric

	// MethodGroupedAsymmetric prefilters by coarse group bits, then ranks
	// the survivors by the asymmetric distance.
	MethodGroupedAsymmetric

	// MethodPCA ranks by the true metric on a dense low-dimensional
	// embedding instead of a bit sketch.
	MethodPCA
)

// String returns the canonical name of the method.
func (m Method) String() string {
	switch m {
	case MethodUnset:
		return ""
	case MethodSymmetric:
		return "symmetric"
	case MethodAsymmetric:
		return "asymmetric"
	case MethodGroupedAsymmetric:
		return "grouped-asymmetric"
	case MethodPCA:
		return "PCA"
	default:
		return "unknown"
	}
}

// ParseMethod converts a method name to a Method. The empty string maps to
// MethodUnset; any unrecognized name is a configuration error.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "":
		return MethodUnset, nil
	case "symmetric":
		return MethodSymmetric, nil
	case "asymmetric":
		return MethodAsymmetric, nil
	case "grouped-asymmetric":
		return MethodGroupedAsymmetric, nil
	case "PCA":
		return MethodPCA, nil
	default:
		return MethodUnset, &ErrUnknownMethod{Method: s}
	}
}

func (m Method) valid() bool {
	switch m {
	case MethodUnset, MethodSymmetric, MethodAsymmetric, MethodGroupedAsymmetric, MethodPCA:
		return true
	default:
		return false
	}
}

// needsSketch reports whether the method requires the fine bit sketch.
// MethodUnset requires everything, since the query may pick any strategy.
func (m Method) needsSketch() bool {
	switch m {
	case MethodUnset, MethodSymmetric, MethodAsymmetric, MethodGroupedAsymmetric:
		return true
	default:
		return false
	}
}

// needsGroup reports whether the method requires the coarse group sketch.
func (m Method) needsGroup() bool {
	return m == MethodUnset || m == MethodGroupedAsymmetric
}

// needsPCA reports whether the method requires the dense embedding.
func (m Method) needsPCA() bool {
	return m == MethodUnset || m == MethodPCA
}
