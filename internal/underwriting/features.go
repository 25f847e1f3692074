// Package underwriting turns a submission into the classifier's input row and
// maps the classifier output to an underwriting decision.
package underwriting

import (
	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/models"
)

// Feature names. These labels and their order are fixed by the trained model.
const (
	ColNAICS              = "NAICS/NOPS"
	ColZipCode            = "Zip Code"
	ColState              = "State"
	ColCoverage           = "Coverage(s)"
	ColNAMLEligible       = "NAML Eligible?"
	ColTotalClaims        = "Total Claims $ L3Y"
	ColCurrentAssets      = "Most Recent Year End Current Assets"
	ColTotalAssets        = "Most Recent Year End Total Assets"
	ColCurrentLiabilities = "Most Recent Year End Current Liabilities"
	ColTotalLiabilities   = "Most Recent Year End Total Liabilities"
	ColWorkingCapital     = "Most Recent Year End Working Capital"
	ColRetainedEarnings   = "Most Recent Year End Retained Earnings"
	ColEBIT               = "Most Recent Year End EBIT"
	ColBookValueEquity    = "Book Value of Equity"
	ColRevenue            = "Most Recent Year End Revenue"
	ColNetIncomeLoss      = "Most Recent Year End Net Income/Loss"
	ColEmployeeCount      = "Total Employee Count"
	ColDebtToEquity       = "Debt to Equity Ratio"
	ColRunway             = "12-18 Months Runway?"
)

// FeatureColumns is the full feature record layout.
var FeatureColumns = []string{
	ColNAICS,
	ColZipCode,
	ColState,
	ColCoverage,
	ColNAMLEligible,
	ColTotalClaims,
	ColCurrentAssets,
	ColTotalAssets,
	ColCurrentLiabilities,
	ColTotalLiabilities,
	ColWorkingCapital,
	ColRetainedEarnings,
	ColEBIT,
	ColBookValueEquity,
	ColRevenue,
	ColNetIncomeLoss,
	ColEmployeeCount,
	ColDebtToEquity,
	ColRunway,
}

// AssembleFeatures flattens the submission into the feature record.
//
// State is carried as its postal abbreviation and NAML eligibility as its
// single-letter code. Values outside those tables are carried unchanged so the
// geo encoder and label encoder can reject them with their own error codes.
// Optional figures are carried as nil.
func AssembleFeatures(applicant models.Applicant, financial models.Financial, derived DerivedFinancials) (Row, error) {
	if applicant.NAICS == "" {
		return nil, apperrors.NewMissingFieldError("naics")
	}
	if applicant.Zipcode == "" {
		return nil, apperrors.NewMissingFieldError("zipcode")
	}
	if applicant.State == "" {
		return nil, apperrors.NewMissingFieldError("state")
	}
	if financial.NAMLEligible == "" {
		return nil, apperrors.NewMissingFieldError("NAML_eligible")
	}
	if len(financial.Coverage) == 0 {
		return nil, apperrors.NewMissingFieldError("coverage")
	}

	required := []struct {
		key   string
		value *int64
	}{
		{"current_assets", financial.CurrentAssets},
		{"total_assets", financial.TotalAssets},
		{"current_liabilities", financial.CurrentLiabilities},
		{"total_liabilities", financial.TotalLiabilities},
		{"revenue", financial.Revenue},
		{"net_income_loss", financial.NetIncomeLoss},
		{"employee_count", financial.EmployeeCount},
	}
	for _, r := range required {
		if r.value == nil {
			return nil, apperrors.NewMissingFieldError(r.key)
		}
	}

	coverage, err := NormalizeCoverage(financial.Coverage)
	if err != nil {
		return nil, err
	}

	state := string(applicant.State)
	if abbr, ok := applicant.State.Abbreviation(); ok {
		state = abbr
	}

	naml := string(financial.NAMLEligible)
	if code, ok := financial.NAMLEligible.Code(); ok {
		naml = code
	}

	return Row{
		{ColNAICS, applicant.NAICS},
		{ColZipCode, applicant.Zipcode},
		{ColState, state},
		{ColCoverage, coverage},
		{ColNAMLEligible, naml},
		{ColTotalClaims, optional(financial.TotalClaims)},
		{ColCurrentAssets, *financial.CurrentAssets},
		{ColTotalAssets, *financial.TotalAssets},
		{ColCurrentLiabilities, *financial.CurrentLiabilities},
		{ColTotalLiabilities, *financial.TotalLiabilities},
		{ColWorkingCapital, derived.WorkingCapital},
		{ColRetainedEarnings, optional(financial.RetainedEarning)},
		{ColEBIT, optional(financial.EndEBIT)},
		{ColBookValueEquity, derived.BookValueEquity},
		{ColRevenue, *financial.Revenue},
		{ColNetIncomeLoss, *financial.NetIncomeLoss},
		{ColEmployeeCount, *financial.EmployeeCount},
		{ColDebtToEquity, derived.DebtToEquityRatio},
		{ColRunway, derived.Runway},
	}, nil
}

func optional(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
