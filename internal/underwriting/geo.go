package underwriting

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/models"
)

const zipLength = 5

// stateCodes holds the US Census FIPS code of each jurisdiction. The encoded
// zip feature depends on these values, so they must not change without
// retraining the model.
var stateCodes = map[string]int{
	"AL": 1, "AK": 2, "AZ": 4, "AR": 5, "CA": 6, "CO": 8, "CT": 9, "DE": 10,
	"DC": 11, "FL": 12, "GA": 13, "HI": 15, "ID": 16, "IL": 17, "IN": 18, "IA": 19,
	"KS": 20, "KY": 21, "LA": 22, "ME": 23, "MD": 24, "MA": 25, "MI": 26, "MN": 27,
	"MS": 28, "MO": 29, "MT": 30, "NE": 31, "NV": 32, "NH": 33, "NJ": 34, "NM": 35,
	"NY": 36, "NC": 37, "ND": 38, "OH": 39, "OK": 40, "OR": 41, "PA": 42, "RI": 44,
	"SC": 45, "SD": 46, "TN": 47, "TX": 48, "UT": 49, "VT": 50, "VA": 51, "WA": 53,
	"WV": 54, "WI": 55, "WY": 56,
}

// StateCode returns the numeric prefix of a state given either its postal
// abbreviation or its full name.
func StateCode(state string) (int, bool) {
	if code, ok := stateCodes[strings.ToUpper(state)]; ok {
		return code, true
	}
	if abbr, ok := models.State(state).Abbreviation(); ok {
		code, ok := stateCodes[abbr]
		return code, ok
	}
	return 0, false
}

// PadZip left-pads zip with zeros to five digits.
func PadZip(zip string) (string, error) {
	zip = strings.TrimSpace(zip)
	if zip == "" || len(zip) > zipLength {
		return "", apperrors.NewValidationError(fmt.Sprintf("zipcode %q must have 1 to %d digits", zip, zipLength))
	}
	for _, r := range zip {
		if r < '0' || r > '9' {
			return "", apperrors.NewValidationError(fmt.Sprintf("zipcode %q is not numeric", zip))
		}
	}
	return strings.Repeat("0", zipLength-len(zip)) + zip, nil
}

// EncodeZip concatenates the state code and the padded zip, so California
// with zip "1234" gives 601234.
func EncodeZip(state, zip string) (int64, error) {
	code, ok := StateCode(state)
	if !ok {
		return 0, apperrors.NewUnknownStateError(state)
	}
	padded, err := PadZip(zip)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strconv.Itoa(code)+padded, 10, 64)
}

// EncodeGeo replaces the zip column with the encoded zip and drops the state
// column. Other columns keep their order.
func EncodeGeo(row Row) (Row, error) {
	stateVal, ok := row.Get(ColState)
	if !ok {
		return nil, apperrors.NewStructuralError(fmt.Sprintf("row has no %q field", ColState))
	}
	zipVal, ok := row.Get(ColZipCode)
	if !ok {
		return nil, apperrors.NewStructuralError(fmt.Sprintf("row has no %q field", ColZipCode))
	}

	state, ok := stateVal.(string)
	if !ok {
		return nil, apperrors.NewStructuralError(fmt.Sprintf("%q is %T, not a string", ColState, stateVal))
	}
	zip, ok := zipVal.(string)
	if !ok {
		return nil, apperrors.NewStructuralError(fmt.Sprintf("%q is %T, not a string", ColZipCode, zipVal))
	}

	encoded, err := EncodeZip(state, zip)
	if err != nil {
		return nil, err
	}

	out := make(Row, 0, len(row)-1)
	for _, f := range row {
		switch f.Name {
		case ColState:
			continue
		case ColZipCode:
			out = append(out, Field{Name: ColZipCode, Value: encoded})
		default:
			out = append(out, f)
		}
	}
	return out, nil
}
