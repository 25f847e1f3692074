// internal/workers/underwriting/check-eligibility/models.go
package checkeligibility

import "encoding/json"

type Input struct {
	Submission json.RawMessage `json:"submission"`
}

// Output is flattened into the process variables so gateways can branch on
// "eligible" directly.
type Output struct {
	Eligible     bool   `json:"eligible"`
	ViolatedRule string `json:"violatedRule"`
	Reason       string `json:"reason"`
}
