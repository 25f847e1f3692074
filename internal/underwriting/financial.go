package underwriting

import (
	"math"

	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/models"
)

// Runway is the 12-18 month solvency indicator. It has three states because
// the comparison can fail to reach a determination.
type Runway int

const (
	RunwayUndetermined Runway = iota
	RunwayYes
	RunwayNo
)

func (r Runway) String() string {
	switch r {
	case RunwayYes:
		return "yes"
	case RunwayNo:
		return "no"
	default:
		return "undetermined"
	}
}

// Determined reports whether the runway comparison reached a yes or no.
func (r Runway) Determined() bool {
	return r == RunwayYes || r == RunwayNo
}

const runwayAssetMultiplier = 1.5

// DerivedFinancials are computed per submission and never stored.
type DerivedFinancials struct {
	WorkingCapital    int64   `json:"workingCapital"`
	BookValueEquity   int64   `json:"bookValueEquity"`
	DebtToEquityRatio float64 `json:"debtToEquityRatio"`
	Runway            Runway  `json:"-"`
}

// DeriveFinancials computes the balance-sheet features of f.
func DeriveFinancials(f models.Financial) (DerivedFinancials, error) {
	required := []struct {
		key   string
		value *int64
	}{
		{"current_assets", f.CurrentAssets},
		{"current_liabilities", f.CurrentLiabilities},
		{"total_assets", f.TotalAssets},
		{"total_liabilities", f.TotalLiabilities},
		{"net_income_loss", f.NetIncomeLoss},
	}
	for _, r := range required {
		if r.value == nil {
			return DerivedFinancials{}, apperrors.NewValidationError("missing financial field: " + r.key)
		}
	}

	equity := BookValueEquity(*f.TotalAssets, *f.TotalLiabilities)

	return DerivedFinancials{
		WorkingCapital:    WorkingCapital(*f.CurrentAssets, *f.CurrentLiabilities),
		BookValueEquity:   equity,
		DebtToEquityRatio: DebtToEquity(*f.TotalLiabilities, equity),
		Runway:            RunwayFlag(*f.CurrentAssets, *f.CurrentLiabilities, *f.NetIncomeLoss),
	}, nil
}

func WorkingCapital(currentAssets, currentLiabilities int64) int64 {
	return currentAssets - currentLiabilities
}

func BookValueEquity(totalAssets, totalLiabilities int64) int64 {
	return totalAssets - totalLiabilities
}

// DebtToEquity divides by the negated equity, so positive equity gives a
// negative ratio. Zero equity gives 0.
func DebtToEquity(totalLiabilities, bookValueEquity int64) float64 {
	if bookValueEquity == 0 {
		return 0
	}
	return float64(totalLiabilities) / float64(-bookValueEquity)
}

// RunwayFlag compares 1.5x current assets with current liabilities, then with
// liabilities plus the magnitude of net income. The second comparison cannot
// hold when the first fails, so in practice the result is yes or undetermined.
func RunwayFlag(currentAssets, currentLiabilities, netIncomeLoss int64) Runway {
	covered := float64(currentAssets) * runwayAssetMultiplier
	if covered > float64(currentLiabilities) {
		return RunwayYes
	}
	if covered > float64(currentLiabilities)+math.Abs(float64(netIncomeLoss)) {
		return RunwayNo
	}
	return RunwayUndetermined
}
