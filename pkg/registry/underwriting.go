// pkg/registry/underwriting.go
package registry

import (
	"time"

	"underwriting-workers/internal/common/validation"
	ce "underwriting-workers/internal/workers/underwriting/check-eligibility"
	es "underwriting-workers/internal/workers/underwriting/evaluate-submission"
	nd "underwriting-workers/internal/workers/underwriting/notify-decision"
	rd "underwriting-workers/internal/workers/underwriting/record-decision"
)

const category = "underwriting"

func object(required []string, properties map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{"type": "object", "properties": properties}
	if len(required) > 0 {
		r := make([]interface{}, len(required))
		for i, name := range required {
			r[i] = name
		}
		out["required"] = r
	}
	return out
}

func typed(t string) map[string]interface{} {
	return map[string]interface{}{"type": t}
}

func decisionRecordSchema() map[string]interface{} {
	return object(
		[]string{"decisionId", "submissionHash", "decision", "source", "evaluatedAt"},
		map[string]interface{}{
			"decisionId":         map[string]interface{}{"type": "string", "format": "uuid"},
			"submissionHash":     typed("string"),
			"decision":           map[string]interface{}{"type": "string", "enum": []interface{}{"ACCEPT", "REJECT"}},
			"source":             map[string]interface{}{"type": "string", "enum": []interface{}{"model", "eligibility"}},
			"violatedRule":       typed("string"),
			"applicantName":      typed("string"),
			"naics":              typed("string"),
			"state":              typed("string"),
			"brokerName":         typed("string"),
			"brokerOrganization": typed("string"),
			"modelVersion":       typed("string"),
			"evaluatedAt":        map[string]interface{}{"type": "string", "format": "date-time"},
		},
	)
}

// Underwriting returns the activities served by the underwriting workers.
func Underwriting(version string) *ActivityRegistry {
	submissionInput := object([]string{"submission"}, map[string]interface{}{
		"submission": validation.SubmissionSchema(),
	})
	recordInput := object([]string{"decisionRecord"}, map[string]interface{}{
		"decisionRecord": decisionRecordSchema(),
	})
	dataErrors := []string{"SUBMISSION_INVALID", "SUBMISSION_OUT_OF_DOMAIN", "DECISION_FAILED", "SERVICE_UNAVAILABLE"}

	return &ActivityRegistry{
		Version:     version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Activities: []Activity{
			{
				ID:                   es.TaskType,
				DisplayName:          "Evaluate Submission",
				Description:          "Validates a submission, applies the eligibility gate when enforced and classifies it ACCEPT or REJECT",
				Category:             category,
				Version:              version,
				TaskType:             es.TaskType,
				ImplementationStatus: "completed",
				InputSchema:          submissionInput,
				OutputSchema: object(
					[]string{"decision", "decisionId", "decisionSource", "submissionHash", "evaluatedAt", "decisionRecord"},
					map[string]interface{}{
						"decision":          map[string]interface{}{"type": "string", "enum": []interface{}{"ACCEPT", "REJECT"}},
						"decisionId":        typed("string"),
						"decisionSource":    typed("string"),
						"violatedRule":      typed("string"),
						"eligibilityReason": typed("string"),
						"modelVersion":      typed("string"),
						"submissionHash":    typed("string"),
						"evaluatedAt":       typed("string"),
						"cached":            typed("boolean"),
						"decisionRecord":    decisionRecordSchema(),
					},
				),
				ErrorCodes: dataErrors,
				Timeout:    "10s",
				Retries:    2,
				Tags:       []string{"model", "redis"},
			},
			{
				ID:                   ce.TaskType,
				DisplayName:          "Check Eligibility",
				Description:          "Runs the appetite rules and reports the first rule a submission violates",
				Category:             category,
				Version:              version,
				TaskType:             ce.TaskType,
				ImplementationStatus: "completed",
				InputSchema:          submissionInput,
				OutputSchema: object([]string{"eligible"}, map[string]interface{}{
					"eligible":     typed("boolean"),
					"violatedRule": typed("string"),
					"reason":       typed("string"),
				}),
				ErrorCodes: []string{"SUBMISSION_INVALID"},
				Timeout:    "5s",
				Tags:       []string{"rules"},
			},
			{
				ID:                   rd.TaskType,
				DisplayName:          "Record Decision",
				Description:          "Persists the decision with an audit entry and indexes it for search",
				Category:             category,
				Version:              version,
				TaskType:             rd.TaskType,
				ImplementationStatus: "completed",
				InputSchema:          recordInput,
				OutputSchema: object([]string{"decisionId", "recorded"}, map[string]interface{}{
					"decisionId": typed("string"),
					"recorded":   typed("boolean"),
					"duplicate":  typed("boolean"),
					"indexed":    typed("boolean"),
					"recordedAt": typed("string"),
				}),
				ErrorCodes: []string{"SUBMISSION_INVALID", "DATABASE_INSERT_FAILED"},
				Timeout:    "30s",
				Retries:    3,
				Tags:       []string{"postgres", "elasticsearch"},
			},
			{
				ID:                   nd.TaskType,
				DisplayName:          "Notify Decision",
				Description:          "Publishes the decision event to the decisions topic",
				Category:             category,
				Version:              version,
				TaskType:             nd.TaskType,
				ImplementationStatus: "completed",
				InputSchema:          recordInput,
				OutputSchema: object([]string{"notified"}, map[string]interface{}{
					"notified":  typed("boolean"),
					"messageId": typed("string"),
				}),
				ErrorCodes: []string{"SUBMISSION_INVALID", "NOTIFICATION_SEND_FAILED"},
				Timeout:    "15s",
				Retries:    3,
				Tags:       []string{"sns"},
			},
		},
	}
}
