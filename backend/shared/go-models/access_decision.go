// go-models/access_decision.go
package models

// AccessDetails describes who was let in and for how long.
type AccessDetails struct {
	Role     string `json:"role"`
	Purpose  string `json:"purpose"`
	Duration string `json:"duration"`
}

// AccessDecision is the result of verifying a scanned or typed code.
type AccessDecision struct {
	Allowed       bool           `json:"allowed"`
	Message       string         `json:"message"`
	MatchedPass   *AccessRequest `json:"matched_pass,omitempty"`
	MatchedPerson *Person        `json:"matched_person,omitempty"`
	AccessDetails *AccessDetails `json:"access_details,omitempty"`
}
