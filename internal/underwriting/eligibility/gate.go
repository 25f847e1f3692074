// Package eligibility implements the underwriting appetite rules that can veto
// a submission regardless of the model's decision.
package eligibility

import (
	"fmt"

	"underwriting-workers/internal/common/config"
	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/models"
	"underwriting-workers/internal/underwriting"
)

// Rule identifies the first rule a submission failed.
type Rule string

const (
	RuleRevenueLimit      Rule = "REVENUE_LIMIT"
	RuleEmployeeLimit     Rule = "EMPLOYEE_LIMIT"
	RuleStandaloneEPLCA   Rule = "STANDALONE_EPL_CA"
	RulePaidClaimsLimit   Rule = "PAID_CLAIMS_LIMIT"
	RuleLineClaimsLimit   Rule = "LINE_CLAIMS_LIMIT"
	RuleAccountClaimLimit Rule = "ACCOUNT_CLAIMS_LIMIT"
	RuleExcludedNAICS     Rule = "EXCLUDED_NAICS"
)

// Verdict is the gate outcome. Rule and Reason are empty when eligible.
type Verdict struct {
	Eligible bool   `json:"eligible"`
	Rule     Rule   `json:"violatedRule,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func pass() Verdict {
	return Verdict{Eligible: true}
}

func fail(rule Rule, format string, args ...interface{}) Verdict {
	return Verdict{Eligible: false, Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// Gate evaluates the rules in a fixed order. It is immutable after NewGate.
type Gate struct {
	limits   config.EligibilityConfig
	excluded map[string]struct{}
}

// DefaultLimits are the thresholds used when configuration leaves them unset.
func DefaultLimits() config.EligibilityConfig {
	return config.EligibilityConfig{
		RevenueLimit:       300_000_000,
		EmployeeLimit:      300,
		PaidClaimsLimit:    250_000,
		LineClaimsLimit:    3,
		AccountClaimsLimit: 5,
	}
}

func NewGate(cfg config.EligibilityConfig) *Gate {
	limits := DefaultLimits()
	if cfg.RevenueLimit > 0 {
		limits.RevenueLimit = cfg.RevenueLimit
	}
	if cfg.EmployeeLimit > 0 {
		limits.EmployeeLimit = cfg.EmployeeLimit
	}
	if cfg.PaidClaimsLimit > 0 {
		limits.PaidClaimsLimit = cfg.PaidClaimsLimit
	}
	if cfg.LineClaimsLimit > 0 {
		limits.LineClaimsLimit = cfg.LineClaimsLimit
	}
	if cfg.AccountClaimsLimit > 0 {
		limits.AccountClaimsLimit = cfg.AccountClaimsLimit
	}

	excluded := make(map[string]struct{}, len(cfg.ExcludedNAICS))
	for _, code := range cfg.ExcludedNAICS {
		excluded[code] = struct{}{}
	}
	limits.ExcludedNAICS = append([]string(nil), cfg.ExcludedNAICS...)

	return &Gate{limits: limits, excluded: excluded}
}

// Check runs every rule and returns the first failure. A submission without
// a claims breakdown cannot be judged and yields VALIDATION_ERROR.
func (g *Gate) Check(sub *models.Submission) (Verdict, error) {
	if sub == nil {
		return Verdict{}, apperrors.NewValidationError("submission is required")
	}
	f := sub.Financial
	if f.Revenue == nil {
		return Verdict{}, apperrors.NewMissingFieldError("revenue")
	}
	if f.EmployeeCount == nil {
		return Verdict{}, apperrors.NewMissingFieldError("employee_count")
	}
	if sub.Claims == nil {
		return Verdict{}, apperrors.NewValidationError("claims breakdown is required for the eligibility check")
	}

	coverage, err := underwriting.NormalizeCoverage(f.Coverage)
	if err != nil {
		return Verdict{}, err
	}

	revenue := *f.Revenue
	employees := *f.EmployeeCount
	state, _ := sub.Applicant.State.Abbreviation()
	l := g.limits

	if revenue > l.RevenueLimit && !(coverage == string(models.CoverageE) && employees <= l.EmployeeLimit) {
		return fail(RuleRevenueLimit, "revenue %d exceeds %d", revenue, l.RevenueLimit), nil
	}

	if employees > l.EmployeeLimit && !(coverage == string(models.CoverageD) && revenue <= l.RevenueLimit) {
		return fail(RuleEmployeeLimit, "employee count %d exceeds %d", employees, l.EmployeeLimit), nil
	}

	if state == "CA" && coverage == string(models.CoverageE) {
		return fail(RuleStandaloneEPLCA, "standalone EPL is not written in California"), nil
	}

	var paid int64
	if f.TotalClaims != nil {
		paid = *f.TotalClaims
	}
	if paid > l.PaidClaimsLimit {
		return fail(RulePaidClaimsLimit, "paid claims %d exceed %d", paid, l.PaidClaimsLimit), nil
	}

	c := sub.Claims
	lines := []struct {
		name  string
		count int
	}{
		{"D&O", c.DOClaims},
		{"EPL", c.EPLClaims},
		{"fiduciary", c.FiduciaryClaims},
	}
	for _, line := range lines {
		if line.count >= l.LineClaimsLimit {
			return fail(RuleLineClaimsLimit, "%d %s claims, limit is below %d", line.count, line.name, l.LineClaimsLimit), nil
		}
	}
	if c.TotalClaims >= l.AccountClaimsLimit {
		return fail(RuleAccountClaimLimit, "%d account claims, limit is below %d", c.TotalClaims, l.AccountClaimsLimit), nil
	}

	if _, ok := g.excluded[sub.Applicant.NAICS]; ok {
		return fail(RuleExcludedNAICS, "NAICS %s is excluded", sub.Applicant.NAICS), nil
	}

	return pass(), nil
}

// Limits returns the effective thresholds.
func (g *Gate) Limits() config.EligibilityConfig {
	out := g.limits
	out.ExcludedNAICS = append([]string(nil), g.limits.ExcludedNAICS...)
	return out
}
