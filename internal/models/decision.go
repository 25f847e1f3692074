// internal/models/decision.go
package models

import "time"

const (
	DecisionAccept = "ACCEPT"
	DecisionReject = "REJECT"
)

// DecisionRecord is the persisted outcome of one evaluated submission.
type DecisionRecord struct {
	DecisionID     string    `json:"decisionId"`
	SubmissionHash string    `json:"submissionHash"`
	Decision       string    `json:"decision"`
	Source         string    `json:"source"`
	ViolatedRule   string    `json:"violatedRule,omitempty"`
	ApplicantName  string    `json:"applicantName"`
	NAICS          string    `json:"naics"`
	State          string    `json:"state"`
	BrokerName     string    `json:"brokerName"`
	BrokerOrg      string    `json:"brokerOrganization"`
	ModelVersion   string    `json:"modelVersion,omitempty"`
	EvaluatedAt    time.Time `json:"evaluatedAt"`
}

// Decision sources.
const (
	SourceModel       = "model"
	SourceEligibility = "eligibility"
)
