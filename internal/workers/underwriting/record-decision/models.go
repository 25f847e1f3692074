// internal/workers/underwriting/record-decision/models.go
package recorddecision

import "underwriting-workers/internal/models"

type Input struct {
	DecisionRecord *models.DecisionRecord `json:"decisionRecord"`
}

type Output struct {
	DecisionID string `json:"decisionId"`
	Recorded   bool   `json:"recorded"`
	Duplicate  bool   `json:"duplicate"`
	Indexed    bool   `json:"indexed"`
	RecordedAt string `json:"recordedAt"` // RFC 3339
}
