// internal/models/state.go
package models

// State is a US jurisdiction identified on the wire by its full name.
type State string

const (
	StateAL State = "Alabama"
	StateAK State = "Alaska"
	StateAZ State = "Arizona"
	StateAR State = "Arkansas"
	StateCA State = "California"
	StateCO State = "Colorado"
	StateCT State = "Connecticut"
	StateDE State = "Delaware"
	StateFL State = "Florida"
	StateGA State = "Georgia"
	StateHI State = "Hawaii"
	StateID State = "Idaho"
	StateIL State = "Illinois"
	StateIN State = "Indiana"
	StateIA State = "Iowa"
	StateKS State = "Kansas"
	StateKY State = "Kentucky"
	StateLA State = "Louisiana"
	StateME State = "Maine"
	StateMD State = "Maryland"
	StateMA State = "Massachusetts"
	StateMI State = "Michigan"
	StateMN State = "Minnesota"
	StateMS State = "Mississippi"
	StateMO State = "Missouri"
	StateMT State = "Montana"
	StateNE State = "Nebraska"
	StateNV State = "Nevada"
	StateNH State = "New Hampshire"
	StateNJ State = "New Jersey"
	StateNM State = "New Mexico"
	StateNY State = "New York"
	StateNC State = "North Carolina"
	StateND State = "North Dakota"
	StateOH State = "Ohio"
	StateOK State = "Oklahoma"
	StateOR State = "Oregon"
	StatePA State = "Pennsylvania"
	StateRI State = "Rhode Island"
	StateSC State = "South Carolina"
	StateSD State = "South Dakota"
	StateTN State = "Tennessee"
	StateTX State = "Texas"
	StateUT State = "Utah"
	StateVT State = "Vermont"
	StateVA State = "Virginia"
	StateWA State = "Washington"
	StateWV State = "West Virginia"
	StateWI State = "Wisconsin"
	StateWY State = "Wyoming"
	StateDC State = "Washington, D.C."
)

var stateAbbreviations = map[State]string{
	StateAL: "AL", StateAK: "AK", StateAZ: "AZ", StateAR: "AR", StateCA: "CA",
	StateCO: "CO", StateCT: "CT", StateDE: "DE", StateFL: "FL", StateGA: "GA",
	StateHI: "HI", StateID: "ID", StateIL: "IL", StateIN: "IN", StateIA: "IA",
	StateKS: "KS", StateKY: "KY", StateLA: "LA", StateME: "ME", StateMD: "MD",
	StateMA: "MA", StateMI: "MI", StateMN: "MN", StateMS: "MS", StateMO: "MO",
	StateMT: "MT", StateNE: "NE", StateNV: "NV", StateNH: "NH", StateNJ: "NJ",
	StateNM: "NM", StateNY: "NY", StateNC: "NC", StateND: "ND", StateOH: "OH",
	StateOK: "OK", StateOR: "OR", StatePA: "PA", StateRI: "RI", StateSC: "SC",
	StateSD: "SD", StateTN: "TN", StateTX: "TX", StateUT: "UT", StateVT: "VT",
	StateVA: "VA", StateWA: "WA", StateWV: "WV", StateWI: "WI", StateWY: "WY",
	StateDC: "DC",
}

// Abbreviation returns the two-letter postal code, or false for an unknown state.
func (s State) Abbreviation() (string, bool) {
	abbr, ok := stateAbbreviations[s]
	return abbr, ok
}

// States returns every known jurisdiction name.
func States() []State {
	out := make([]State, 0, len(stateAbbreviations))
	for s := range stateAbbreviations {
		out = append(out, s)
	}
	return out
}
