// go-models/access_request.go
package models

import "time"

// PassStatus mirrors the lifecycle of a visitor pass.
type PassStatus string

const (
	PassPending   PassStatus = "Pending"
	PassApproved  PassStatus = "Approved"
	PassCheckedIn PassStatus = "CheckedIn"
	PassRejected  PassStatus = "Rejected"
	PassExpired   PassStatus = "Expired"
)

func (s PassStatus) Valid() bool {
	switch s {
	case PassPending, PassApproved, PassCheckedIn, PassRejected, PassExpired:
		return true
	}
	return false
}

// GrantsAccess reports whether a stored status lets the holder in.
func (s PassStatus) GrantsAccess() bool {
	return s == PassApproved || s == PassCheckedIn
}

type RequestType string

const (
	RequestDirect   RequestType = "Direct"
	RequestMediated RequestType = "Mediated"
)

// AccessRequest is a visitor pass for one premise.
type AccessRequest struct {
	Versioned

	ID             string      `json:"id"`
	PremiseID      string      `json:"premise_id"`
	PremiseName    string      `json:"premise_name"`
	TenantID       string      `json:"tenant_id,omitempty"`
	HostID         string      `json:"host_id"`
	HostName       string      `json:"host_name"`
	VisitorName    string      `json:"visitor_name"`
	VisitorPhone   string      `json:"visitor_phone"`
	VisitorPurpose *string     `json:"visitor_purpose,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	ExpiresAt      time.Time   `json:"expires_at"`
	Status         PassStatus  `json:"status"`
	RequestType    RequestType `json:"request_type"`
	PremiseType    PremiseType `json:"premise_type,omitempty"`
	AccessCode     string      `json:"access_code,omitempty"`
	TargetUnit     string      `json:"target_unit,omitempty"`
	IdempotencyKey string      `json:"-"`
}

func (a *AccessRequest) GetID() string { return a.ID }

// IsActive is true for an approved or checked-in pass that has not expired.
func (a *AccessRequest) IsActive(now time.Time) bool {
	return a.Status.GrantsAccess() && now.Before(a.ExpiresAt)
}

// EffectiveStatus reports Expired once ExpiresAt has passed, whatever is stored.
func (a *AccessRequest) EffectiveStatus(now time.Time) PassStatus {
	if !now.Before(a.ExpiresAt) {
		return PassExpired
	}
	return a.Status
}

// Purpose returns the visitor purpose, or "Visit" when none was recorded.
// An empty purpose is kept as given.
func (a *AccessRequest) Purpose() string {
	if a.VisitorPurpose == nil {
		return "Visit"
	}
	return *a.VisitorPurpose
}

func (a *AccessRequest) Clone() *AccessRequest {
	if a == nil {
		return nil
	}
	c := *a
	if a.VisitorPurpose != nil {
		v := *a.VisitorPurpose
		c.VisitorPurpose = &v
	}
	return &c
}
