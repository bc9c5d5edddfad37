// go-models/versioned.go
package models

// Versioned carries the row version used for optimistic locking.
// Embed it anonymously in every record that is updated in place.
type Versioned struct {
	RowVersion int64 `json:"row_version"`
}

// ----- interface helpers -----
func (v *Versioned) GetRowVersion() int64  { return v.RowVersion }
func (v *Versioned) SetRowVersion(n int64) { v.RowVersion = n }
