// internal/workers/underwriting/notify-decision/models.go
package notifydecision

import "underwriting-workers/internal/models"

type Input struct {
	DecisionRecord *models.DecisionRecord `json:"decisionRecord"`
}

type Output struct {
	Notified  bool   `json:"notified"`
	MessageID string `json:"messageId,omitempty"`
}

// DecisionEvent is the message published for downstream consumers.
type DecisionEvent struct {
	EventType      string `json:"eventType"`
	DecisionID     string `json:"decisionId"`
	Decision       string `json:"decision"`
	Source         string `json:"source"`
	ViolatedRule   string `json:"violatedRule,omitempty"`
	ApplicantName  string `json:"applicantName"`
	NAICS          string `json:"naics"`
	State          string `json:"state"`
	BrokerName     string `json:"brokerName,omitempty"`
	BrokerOrg      string `json:"brokerOrganization,omitempty"`
	ModelVersion   string `json:"modelVersion,omitempty"`
	SubmissionHash string `json:"submissionHash"`
	EvaluatedAt    string `json:"evaluatedAt"`
}
