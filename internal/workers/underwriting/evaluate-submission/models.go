// internal/workers/underwriting/evaluate-submission/models.go
package evaluatesubmission

import (
	"encoding/json"

	"underwriting-workers/internal/models"
)

type Input struct {
	Submission json.RawMessage `json:"submission"`
}

type Output struct {
	Decision       string                `json:"decision"`
	DecisionID     string                `json:"decisionId"`
	DecisionSource string                `json:"decisionSource"`
	ViolatedRule   string                `json:"violatedRule,omitempty"`
	Reason         string                `json:"eligibilityReason,omitempty"`
	ModelVersion   string                `json:"modelVersion,omitempty"`
	SubmissionHash string                `json:"submissionHash"`
	EvaluatedAt    string                `json:"evaluatedAt"` // RFC 3339
	Cached         bool                  `json:"cached"`
	DecisionRecord models.DecisionRecord `json:"decisionRecord"`
}
