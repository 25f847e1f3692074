package artifacts

import (
	"fmt"
	"strings"

	apperrors "underwriting-workers/internal/common/errors"
)

const (
	ScalerMinMax   = "minmax"
	ScalerStandard = "standard"
)

// Scaler is a fitted per-column affine transform over the full model row.
type Scaler struct {
	version      string
	kind         string
	featureNames []string
	offset       []float64
	scale        []float64
}

type scalerFile struct {
	Version      string    `json:"version"`
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Min          []float64 `json:"min"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

func newScaler(f scalerFile) (*Scaler, error) {
	n := len(f.FeatureNames)
	if n == 0 {
		return nil, fmt.Errorf("scaler has no feature names")
	}
	if len(f.Scale) != n {
		return nil, fmt.Errorf("scaler scale has %d values for %d features", len(f.Scale), n)
	}

	s := &Scaler{
		version:      f.Version,
		kind:         f.Kind,
		featureNames: f.FeatureNames,
		scale:        make([]float64, n),
	}
	copy(s.scale, f.Scale)

	switch f.Kind {
	case ScalerMinMax:
		if len(f.Min) != n {
			return nil, fmt.Errorf("minmax scaler min has %d values for %d features", len(f.Min), n)
		}
		s.offset = f.Min
	case ScalerStandard:
		if len(f.Mean) != n {
			return nil, fmt.Errorf("standard scaler mean has %d values for %d features", len(f.Mean), n)
		}
		s.offset = f.Mean
		// Zero-variance columns are left unscaled.
		for i, v := range s.scale {
			if v == 0 {
				s.scale[i] = 1
			}
		}
	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", f.Kind)
	}

	return s, nil
}

// Transform scales values in place order. The columns must equal the fitted
// feature names exactly, since a reordered row would scale silently wrong.
func (s *Scaler) Transform(columns []string, values []float64) ([]float64, error) {
	if len(columns) != len(values) {
		return nil, apperrors.NewStructuralError(fmt.Sprintf("%d columns for %d values", len(columns), len(values)))
	}
	if !sameColumns(columns, s.featureNames) {
		return nil, apperrors.NewStructuralError(fmt.Sprintf(
			"row columns [%s] do not match scaler features [%s]",
			strings.Join(columns, ", "), strings.Join(s.featureNames, ", ")))
	}

	out := make([]float64, len(values))
	for i, x := range values {
		switch s.kind {
		case ScalerMinMax:
			out[i] = x*s.scale[i] + s.offset[i]
		default:
			out[i] = (x - s.offset[i]) / s.scale[i]
		}
	}
	return out, nil
}

// FeatureNames returns the fitted column order.
func (s *Scaler) FeatureNames() []string {
	out := make([]string, len(s.featureNames))
	copy(out, s.featureNames)
	return out
}

func (s *Scaler) Version() string { return s.version }

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
