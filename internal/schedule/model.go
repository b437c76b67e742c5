package schedule

import "time"

type Slot struct {
	ID              int       `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	DayOfWeek       int       `db:"day_of_week" json:"day_of_week"`
	StartTime       string    `db:"start_time" json:"start_time" example:"18:30"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	CoachName       string    `db:"coach_name" json:"coach_name"`
	Capacity        int       `db:"capacity" json:"capacity"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// SlotRequest is the payload for creating or replacing a slot.
// DayOfWeek uses ISO numbering: 1 is Monday, 7 is Sunday.
type SlotRequest struct {
	Title           string `json:"title" validate:"required,max=120"`
	DayOfWeek       int    `json:"day_of_week" validate:"min=1,max=7"`
	StartTime       string `json:"start_time" validate:"required" example:"18:30"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=1,max=600"`
	CoachName       string `json:"coach_name" validate:"max=120"`
	Capacity        int    `json:"capacity" validate:"min=1"`
	Active          *bool  `json:"active,omitempty"`
}
