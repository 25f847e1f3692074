package underwriting

import (
	"fmt"
	"strconv"

	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/underwriting/artifacts"
)

// Transformer applies the fitted label encoder and scaler to a geo-encoded row.
type Transformer struct {
	encoder *artifacts.LabelEncoder
	scaler  *artifacts.Scaler
}

func NewTransformer(encoder *artifacts.LabelEncoder, scaler *artifacts.Scaler) *Transformer {
	return &Transformer{encoder: encoder, scaler: scaler}
}

// Transform encodes NAML eligibility, converts NAICS to an integer and scales
// the whole row. The scaled values keep the input column labels.
func (t *Transformer) Transform(row Row) (ModelInputRow, error) {
	columns := row.Names()
	values := make([]float64, len(row))

	for i, f := range row {
		switch f.Name {
		case ColNAMLEligible:
			s, ok := f.Value.(string)
			if !ok {
				return ModelInputRow{}, apperrors.NewStructuralError(fmt.Sprintf("%q is %T, not a string", f.Name, f.Value))
			}
			code, err := t.encoder.Transform(ColNAMLEligible, s)
			if err != nil {
				return ModelInputRow{}, err
			}
			values[i] = float64(code)

		case ColNAICS:
			s, ok := f.Value.(string)
			if !ok {
				return ModelInputRow{}, apperrors.NewStructuralError(fmt.Sprintf("%q is %T, not a string", f.Name, f.Value))
			}
			naics, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return ModelInputRow{}, apperrors.NewValidationError(fmt.Sprintf("naics %q is not numeric", s))
			}
			values[i] = float64(naics)

		default:
			v, err := numeric(f)
			if err != nil {
				return ModelInputRow{}, err
			}
			values[i] = v
		}
	}

	scaled, err := t.scaler.Transform(columns, values)
	if err != nil {
		return ModelInputRow{}, err
	}
	return ModelInputRow{Columns: columns, Values: scaled}, nil
}

func numeric(f Field) (float64, error) {
	switch v := f.Value.(type) {
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, apperrors.NewStructuralError(fmt.Sprintf("%q is %T, not numeric", f.Name, f.Value))
	}
}
