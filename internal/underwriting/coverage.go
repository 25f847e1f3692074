package underwriting

import (
	"strings"

	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/models"
)

var coveragePriority = map[models.Coverage]int{
	models.CoverageD: 0,
	models.CoverageE: 1,
	models.CoverageF: 2,
}

// NormalizeCoverage treats codes as a set: duplicates collapse, the rest are
// ordered D<E<F and joined with commas, so {E, D, E} becomes "D,E".
func NormalizeCoverage(codes []models.Coverage) (string, error) {
	if len(codes) == 0 {
		return "", apperrors.NewValidationError("coverage must select at least one of D, E, F")
	}

	var seen [3]bool
	for _, c := range codes {
		idx, ok := coveragePriority[c]
		if !ok {
			return "", apperrors.NewValidationError("unknown coverage code: " + string(c))
		}
		seen[idx] = true
	}

	parts := make([]string, 0, len(seen))
	for _, c := range []models.Coverage{models.CoverageD, models.CoverageE, models.CoverageF} {
		if seen[coveragePriority[c]] {
			parts = append(parts, string(c))
		}
	}
	return strings.Join(parts, ","), nil
}
