// internal/models/submission.go
package models

// Submission is the underwriting request carried in the job variables.
type Submission struct {
	Broker    Broker         `json:"broker"`
	Applicant Applicant      `json:"applicant"`
	Financial Financial      `json:"financial"`
	Claims    *ClaimsHistory `json:"claims,omitempty"`
}

type Broker struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        State  `json:"state"`
	Zipcode      string `json:"zipcode"`
	Delegate     string `json:"delegate"`
}

type Applicant struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   State  `json:"state"`
	Zipcode string `json:"zipcode"`
	NAICS   string `json:"naics"`
}

// Financial holds the applicant's most recent year-end figures. Pointer fields
// distinguish an absent value from zero.
type Financial struct {
	NAMLEligible       NAMLEligible `json:"NAML_eligible"`
	EmployeeCount      *int64       `json:"employee_count"`
	Revenue            *int64       `json:"revenue"`
	CurrentAssets      *int64       `json:"current_assets"`
	CurrentLiabilities *int64       `json:"current_liabilities"`
	TotalAssets        *int64       `json:"total_assets"`
	TotalLiabilities   *int64       `json:"total_liabilities"`
	NetIncomeLoss      *int64       `json:"net_income_loss"`
	Coverage           []Coverage   `json:"coverage"`

	RetainedEarning *int64 `json:"retained_earning,omitempty"`
	EndEBIT         *int64 `json:"end_ebit,omitempty"`
	TotalClaims     *int64 `json:"total_claims,omitempty"`
}

// ClaimsHistory is the per-line claim count breakdown over the last three
// policy periods. Only the eligibility gate reads it.
type ClaimsHistory struct {
	DOClaims        int `json:"do_claims"`
	EPLClaims       int `json:"epl_claims"`
	FiduciaryClaims int `json:"fiduciary_claims"`
	TotalClaims     int `json:"total_claims"`
}

type NAMLEligible string

const (
	NAMLEligibleYes     NAMLEligible = "Yes"
	NAMLEligibleNo      NAMLEligible = "No"
	NAMLEligibleUnclear NAMLEligible = "Unclear"
)

// Code returns the single-letter code the trained encoder was fitted on.
func (n NAMLEligible) Code() (string, bool) {
	switch n {
	case NAMLEligibleYes:
		return "Y", true
	case NAMLEligibleNo:
		return "N", true
	case NAMLEligibleUnclear:
		return "U", true
	default:
		return "", false
	}
}

type Coverage string

const (
	CoverageD Coverage = "D"
	CoverageE Coverage = "E"
	CoverageF Coverage = "F"
)

// Int64 is a convenience for building optional figures.
func Int64(v int64) *int64 {
	return &v
}
