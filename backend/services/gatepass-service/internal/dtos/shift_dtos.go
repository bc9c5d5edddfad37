package dtos

import "github.com/noid254/Qaribu-sub000/backend/shared/go-models"

type LogActivityRequest struct {
	Description string `json:"description" validate:"required,max=500"`
}

type ShiftReportRequest struct {
	Scans     int    `json:"scans" validate:"gte=0"`
	Incidents int    `json:"incidents" validate:"gte=0"`
	Duration  string `json:"duration" validate:"required,max=64"`
	Notes     string `json:"notes,omitempty" validate:"max=2000"`
}

type ActivityFeedResponse struct {
	Entries []*models.ActivityEntry `json:"entries"`
}
