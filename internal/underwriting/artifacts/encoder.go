package artifacts

import (
	"fmt"

	apperrors "underwriting-workers/internal/common/errors"
)

// LabelEncoder maps categorical values to the integer codes they were fitted
// with, one class list per column.
type LabelEncoder struct {
	version  string
	encoders map[string]*columnEncoder
}

type columnEncoder struct {
	classes []string
	index   map[string]int
}

type labelEncoderFile struct {
	Version  string `json:"version"`
	Encoders map[string]struct {
		Classes []string `json:"classes"`
	} `json:"encoders"`
}

func newLabelEncoder(f labelEncoderFile) (*LabelEncoder, error) {
	if len(f.Encoders) == 0 {
		return nil, fmt.Errorf("label encoder has no fitted columns")
	}

	enc := &LabelEncoder{
		version:  f.Version,
		encoders: make(map[string]*columnEncoder, len(f.Encoders)),
	}
	for column, fitted := range f.Encoders {
		if len(fitted.Classes) == 0 {
			return nil, fmt.Errorf("label encoder column %q has no classes", column)
		}
		ce := &columnEncoder{
			classes: fitted.Classes,
			index:   make(map[string]int, len(fitted.Classes)),
		}
		for i, class := range fitted.Classes {
			if _, dup := ce.index[class]; dup {
				return nil, fmt.Errorf("label encoder column %q repeats class %q", column, class)
			}
			ce.index[class] = i
		}
		enc.encoders[column] = ce
	}
	return enc, nil
}

// Transform returns the fitted code for value. Values outside the fitted class
// set are rejected rather than defaulted.
func (e *LabelEncoder) Transform(column, value string) (int, error) {
	ce, ok := e.encoders[column]
	if !ok {
		return 0, apperrors.NewStructuralError(fmt.Sprintf("no label encoder fitted for column %q", column))
	}
	code, ok := ce.index[value]
	if !ok {
		return 0, apperrors.NewUnseenCategoryError(column, value)
	}
	return code, nil
}

// Classes returns the fitted classes of column in code order.
func (e *LabelEncoder) Classes(column string) []string {
	ce, ok := e.encoders[column]
	if !ok {
		return nil
	}
	out := make([]string, len(ce.classes))
	copy(out, ce.classes)
	return out
}

func (e *LabelEncoder) Version() string { return e.version }
