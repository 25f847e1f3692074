package eligibility

import (
	"testing"

	"underwriting-workers/internal/common/config"
	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestSubmission() *models.Submission {
	return &models.Submission{
		Applicant: models.Applicant{
			Name:    "Northwind Logistics",
			State:   models.StateTX,
			Zipcode: "75201",
			NAICS:   "484121",
		},
		Financial: models.Financial{
			NAMLEligible:  models.NAMLEligibleYes,
			EmployeeCount: models.Int64(120),
			Revenue:       models.Int64(40_000_000),
			Coverage:      []models.Coverage{models.CoverageD, models.CoverageF},
			TotalClaims:   models.Int64(10_000),
		},
		Claims: &models.ClaimsHistory{
			DOClaims:        1,
			EPLClaims:       0,
			FiduciaryClaims: 1,
			TotalClaims:     2,
		},
	}
}

func newTestGate(excluded ...string) *Gate {
	return NewGate(config.EligibilityConfig{ExcludedNAICS: excluded})
}

// ==========================
// Rule Tests
// ==========================

func TestGate_Eligible(t *testing.T) {
	verdict, err := newTestGate().Check(createTestSubmission())
	require.NoError(t, err)

	assert.True(t, verdict.Eligible)
	assert.Empty(t, verdict.Rule)
	assert.Empty(t, verdict.Reason)
}

func TestGate_Rules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(s *models.Submission)
		eligible bool
		rule     Rule
	}{
		{
			name:   "revenue over limit",
			mutate: func(s *models.Submission) { s.Financial.Revenue = models.Int64(300_000_001) },
			rule:   RuleRevenueLimit,
		},
		{
			name:     "revenue at limit",
			mutate:   func(s *models.Submission) { s.Financial.Revenue = models.Int64(300_000_000) },
			eligible: true,
		},
		{
			name: "revenue over limit with standalone EPL and small headcount",
			mutate: func(s *models.Submission) {
				s.Financial.Revenue = models.Int64(500_000_000)
				s.Financial.Coverage = []models.Coverage{models.CoverageE}
			},
			eligible: true,
		},
		{
			name: "revenue over limit with EPL and large headcount",
			mutate: func(s *models.Submission) {
				s.Financial.Revenue = models.Int64(500_000_000)
				s.Financial.EmployeeCount = models.Int64(301)
				s.Financial.Coverage = []models.Coverage{models.CoverageE}
			},
			rule: RuleRevenueLimit,
		},
		{
			name:   "employees over limit",
			mutate: func(s *models.Submission) { s.Financial.EmployeeCount = models.Int64(301) },
			rule:   RuleEmployeeLimit,
		},
		{
			name: "employees over limit with standalone D&O",
			mutate: func(s *models.Submission) {
				s.Financial.EmployeeCount = models.Int64(5_000)
				s.Financial.Coverage = []models.Coverage{models.CoverageD}
			},
			eligible: true,
		},
		{
			name: "standalone EPL in California",
			mutate: func(s *models.Submission) {
				s.Applicant.State = models.StateCA
				s.Financial.Coverage = []models.Coverage{models.CoverageE}
			},
			rule: RuleStandaloneEPLCA,
		},
		{
			name: "EPL with D&O in California",
			mutate: func(s *models.Submission) {
				s.Applicant.State = models.StateCA
				s.Financial.Coverage = []models.Coverage{models.CoverageE, models.CoverageD}
			},
			eligible: true,
		},
		{
			name:   "paid claims over limit",
			mutate: func(s *models.Submission) { s.Financial.TotalClaims = models.Int64(250_001) },
			rule:   RulePaidClaimsLimit,
		},
		{
			name:     "paid claims absent",
			mutate:   func(s *models.Submission) { s.Financial.TotalClaims = nil },
			eligible: true,
		},
		{
			name:   "three D&O claims",
			mutate: func(s *models.Submission) { s.Claims.DOClaims = 3 },
			rule:   RuleLineClaimsLimit,
		},
		{
			name:   "three EPL claims",
			mutate: func(s *models.Submission) { s.Claims.EPLClaims = 3 },
			rule:   RuleLineClaimsLimit,
		},
		{
			name:   "three fiduciary claims",
			mutate: func(s *models.Submission) { s.Claims.FiduciaryClaims = 3 },
			rule:   RuleLineClaimsLimit,
		},
		{
			name:   "five account claims",
			mutate: func(s *models.Submission) { s.Claims.TotalClaims = 5 },
			rule:   RuleAccountClaimLimit,
		},
		{
			name:     "four account claims",
			mutate:   func(s *models.Submission) { s.Claims.TotalClaims = 4 },
			eligible: true,
		},
	}

	gate := newTestGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := createTestSubmission()
			tt.mutate(sub)

			verdict, err := gate.Check(sub)
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, verdict.Eligible)
			assert.Equal(t, tt.rule, verdict.Rule)
			if !tt.eligible {
				assert.NotEmpty(t, verdict.Reason)
			}
		})
	}
}

func TestGate_ExcludedNAICS(t *testing.T) {
	gate := newTestGate("484121", "522110")

	verdict, err := gate.Check(createTestSubmission())
	require.NoError(t, err)
	assert.False(t, verdict.Eligible)
	assert.Equal(t, RuleExcludedNAICS, verdict.Rule)
	assert.Contains(t, verdict.Reason, "484121")

	sub := createTestSubmission()
	sub.Applicant.NAICS = "541511"
	verdict, err = gate.Check(sub)
	require.NoError(t, err)
	assert.True(t, verdict.Eligible)
}

func TestGate_RepeatedCoverageCodes(t *testing.T) {
	gate := newTestGate()

	t.Run("standalone EPL in CA", func(t *testing.T) {
		for _, codes := range [][]models.Coverage{
			{models.CoverageE},
			{models.CoverageE, models.CoverageE},
		} {
			sub := createTestSubmission()
			sub.Applicant.State = models.StateCA
			sub.Financial.Coverage = codes

			verdict, err := gate.Check(sub)
			require.NoError(t, err)
			assert.False(t, verdict.Eligible, "coverage %v", codes)
			assert.Equal(t, RuleStandaloneEPLCA, verdict.Rule, "coverage %v", codes)
		}
	})

	t.Run("revenue exemption for EPL only", func(t *testing.T) {
		sub := createTestSubmission()
		sub.Financial.Revenue = models.Int64(900_000_000)
		sub.Financial.Coverage = []models.Coverage{models.CoverageE, models.CoverageE}

		verdict, err := gate.Check(sub)
		require.NoError(t, err)
		assert.True(t, verdict.Eligible)
	})

	t.Run("repeats inside a package", func(t *testing.T) {
		sub := createTestSubmission()
		sub.Applicant.State = models.StateCA
		sub.Financial.Coverage = []models.Coverage{models.CoverageD, models.CoverageE, models.CoverageD}

		verdict, err := gate.Check(sub)
		require.NoError(t, err)
		assert.True(t, verdict.Eligible)
	})
}

func TestGate_FirstFailureWins(t *testing.T) {
	sub := createTestSubmission()
	sub.Financial.Revenue = models.Int64(900_000_000)
	sub.Financial.EmployeeCount = models.Int64(900)
	sub.Claims.DOClaims = 10

	verdict, err := newTestGate("484121").Check(sub)
	require.NoError(t, err)
	assert.Equal(t, RuleRevenueLimit, verdict.Rule)
}

func TestGate_ConfiguredLimits(t *testing.T) {
	gate := NewGate(config.EligibilityConfig{EmployeeLimit: 100, LineClaimsLimit: 2})

	verdict, err := gate.Check(createTestSubmission())
	require.NoError(t, err)
	assert.Equal(t, RuleEmployeeLimit, verdict.Rule)

	sub := createTestSubmission()
	sub.Financial.EmployeeCount = models.Int64(10)
	sub.Claims.FiduciaryClaims = 2
	verdict, err = gate.Check(sub)
	require.NoError(t, err)
	assert.Equal(t, RuleLineClaimsLimit, verdict.Rule)

	limits := gate.Limits()
	assert.Equal(t, int64(300_000_000), limits.RevenueLimit)
	assert.Equal(t, int64(100), limits.EmployeeLimit)
}

// ==========================
// Input Errors
// ==========================

func TestGate_InputErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.Submission)
		code   apperrors.ErrorCode
	}{
		{"no claims breakdown", func(s *models.Submission) { s.Claims = nil }, apperrors.ErrCodeValidation},
		{"no revenue", func(s *models.Submission) { s.Financial.Revenue = nil }, apperrors.ErrCodeMissingField},
		{"no employees", func(s *models.Submission) { s.Financial.EmployeeCount = nil }, apperrors.ErrCodeMissingField},
		{"no coverage", func(s *models.Submission) { s.Financial.Coverage = nil }, apperrors.ErrCodeValidation},
	}

	gate := newTestGate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := createTestSubmission()
			tt.mutate(sub)

			_, err := gate.Check(sub)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}

	_, err := gate.Check(nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}
