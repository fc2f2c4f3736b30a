package request

import "github.com/google/uuid"

// DayRangeRequest addresses one day-config range. start/end are HH:MM
// clock times; day is YYYY-MM-DD.
type DayRangeRequest struct {
	ResourceID uuid.UUID `json:"resource_id" binding:"required"`
	Day        string    `json:"day" binding:"required"`
	Start      string    `json:"start" binding:"required"`
	End        string    `json:"end" binding:"required"`
}
