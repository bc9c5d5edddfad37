// go-models/activity.go
package models

import "time"

// ActivityEntry is one line in a premise's gate activity feed.
type ActivityEntry struct {
	ID          string    `json:"id"`
	PremiseID   string    `json:"premise_id"`
	ActorID     string    `json:"actor_id,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShiftReport is what a gateman files at the end of a shift.
type ShiftReport struct {
	ID           string    `json:"id"`
	PremiseID    string    `json:"premise_id"`
	GatemanID    string    `json:"gateman_id"`
	Scans        int       `json:"scans"`
	Incidents    int       `json:"incidents"`
	Duration     string    `json:"duration"`
	Notes        string    `json:"notes,omitempty"`
	HolidayShift bool      `json:"holiday_shift"`
	CreatedAt    time.Time `json:"created_at"`
}
