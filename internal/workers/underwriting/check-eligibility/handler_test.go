package checkeligibility

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"underwriting-workers/internal/common/config"
	apperrors "underwriting-workers/internal/common/errors"
	"underwriting-workers/internal/common/logger"
	"underwriting-workers/internal/common/observability"
	"underwriting-workers/internal/underwriting/eligibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSubmission() map[string]interface{} {
	return map[string]interface{}{
		"broker": map[string]interface{}{
			"name": "Lee Broker", "organization": "Summit Re", "address": "9 Elm St",
			"city": "Dallas", "state": "Texas", "zipcode": "75201", "delegate": "none",
		},
		"applicant": map[string]interface{}{
			"name": "Northwind Logistics", "address": "1 Main St", "city": "Dallas",
			"state": "Texas", "zipcode": "75201", "naics": "484121",
		},
		"financial": map[string]interface{}{
			"NAML_eligible":       "No",
			"employee_count":      120,
			"revenue":             40_000_000,
			"current_assets":      8_000_000,
			"current_liabilities": 3_000_000,
			"total_assets":        25_000_000,
			"total_liabilities":   9_000_000,
			"net_income_loss":     2_000_000,
			"coverage":            []interface{}{"D", "F"},
			"total_claims":        10_000,
		},
		"claims": map[string]interface{}{
			"do_claims": 1, "epl_claims": 0, "fiduciary_claims": 1, "total_claims": 2,
		},
	}
}

func createInput(t *testing.T, doc map[string]interface{}) *Input {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return &Input{Submission: raw}
}

func newTestHandler(t *testing.T, cfg config.EligibilityConfig) *Handler {
	t.Helper()
	h, err := NewHandler(&Config{Timeout: time.Second}, eligibility.NewGate(cfg), observability.NewNoop(), logger.NewTestLogger(t))
	require.NoError(t, err)
	return h
}

func TestHandler_Execute_Eligible(t *testing.T) {
	out, err := newTestHandler(t, config.EligibilityConfig{}).Execute(context.Background(), createInput(t, createTestSubmission()))
	require.NoError(t, err)

	assert.True(t, out.Eligible)
	assert.Empty(t, out.ViolatedRule)
	assert.Empty(t, out.Reason)
}

func TestHandler_Execute_Ineligible(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.EligibilityConfig
		mutate func(doc map[string]interface{})
		rule   eligibility.Rule
	}{
		{
			name:   "revenue",
			mutate: func(doc map[string]interface{}) { doc["financial"].(map[string]interface{})["revenue"] = 400_000_000 },
			rule:   eligibility.RuleRevenueLimit,
		},
		{
			name:   "paid claims",
			mutate: func(doc map[string]interface{}) { doc["financial"].(map[string]interface{})["total_claims"] = 300_000 },
			rule:   eligibility.RulePaidClaimsLimit,
		},
		{
			name:   "account claims",
			mutate: func(doc map[string]interface{}) { doc["claims"].(map[string]interface{})["total_claims"] = 7 },
			rule:   eligibility.RuleAccountClaimLimit,
		},
		{
			name:   "excluded naics",
			cfg:    config.EligibilityConfig{ExcludedNAICS: []string{"484121"}},
			mutate: func(map[string]interface{}) {},
			rule:   eligibility.RuleExcludedNAICS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := createTestSubmission()
			tt.mutate(doc)

			out, err := newTestHandler(t, tt.cfg).Execute(context.Background(), createInput(t, doc))
			require.NoError(t, err)
			assert.False(t, out.Eligible)
			assert.Equal(t, string(tt.rule), out.ViolatedRule)
			assert.NotEmpty(t, out.Reason)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	h := newTestHandler(t, config.EligibilityConfig{})

	_, err := h.Execute(context.Background(), &Input{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMissingField))

	doc := createTestSubmission()
	delete(doc, "claims")
	_, err = h.Execute(context.Background(), createInput(t, doc))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	doc = createTestSubmission()
	doc["financial"].(map[string]interface{})["coverage"] = []interface{}{"Q"}
	_, err = h.Execute(context.Background(), createInput(t, doc))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestOutput_VariableNames(t *testing.T) {
	raw, err := json.Marshal(Output{Eligible: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"eligible":true,"violatedRule":"","reason":""}`, string(raw))
}

func TestNewHandler_RequiresGate(t *testing.T) {
	_, err := NewHandler(LoadConfig(nil), nil, observability.NewNoop(), logger.NewNoOpLogger())
	assert.Error(t, err)
}
