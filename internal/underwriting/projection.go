package underwriting

import (
	"fmt"

	apperrors "underwriting-workers/internal/common/errors"
)

// ModelFields are the record fields the classifier consumes, in record order.
// Every other record field is a derivation input only.
var ModelFields = []string{
	ColNAICS,
	ColZipCode,
	ColState,
	ColNAMLEligible,
	ColWorkingCapital,
	ColBookValueEquity,
	ColNetIncomeLoss,
	ColEmployeeCount,
	ColDebtToEquity,
}

// DerivationOnlyFields are dropped by ProjectModelFields.
var DerivationOnlyFields = []string{
	ColTotalClaims,
	ColCurrentAssets,
	ColTotalAssets,
	ColCurrentLiabilities,
	ColTotalLiabilities,
	ColRetainedEarnings,
	ColEBIT,
	ColRevenue,
	ColRunway,
	ColCoverage,
}

// ProjectModelFields keeps exactly ModelFields, in that order.
func ProjectModelFields(record Row) (Row, error) {
	out := make(Row, 0, len(ModelFields))
	for _, name := range ModelFields {
		v, ok := record.Get(name)
		if !ok {
			return nil, apperrors.NewStructuralError(fmt.Sprintf("feature record has no %q field", name))
		}
		out = append(out, Field{Name: name, Value: v})
	}
	return out, nil
}
