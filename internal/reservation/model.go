package reservation

import "time"

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	// StatusCompleted is never stored. A confirmed reservation reads as
	// completed once its occurrence has started.
	StatusCompleted Status = "COMPLETED"
)

// Cancellation outcomes returned to the caller. OutcomeNotDebited covers
// reservations made on an unlimited pack, which never held a session.
const (
	OutcomeCreditedBack    = "CREDITED_BACK"
	OutcomeSessionConsumed = "SESSION_CONSUMED"
	OutcomeNotDebited      = "NOT_DEBITED"
)

type Reservation struct {
	ID             int        `db:"id" json:"id"`
	UserID         int        `db:"user_id" json:"user_id"`
	ScheduleID     int        `db:"schedule_id" json:"schedule_id"`
	SubscriptionID int        `db:"subscription_id" json:"subscription_id"`
	OccurrenceAt   time.Time  `db:"occurrence_at" json:"occurrence_date"`
	Status         Status     `db:"status" json:"status"`
	CreditDebited  bool       `db:"credit_debited" json:"credit_debited"`
	Refunded       bool       `db:"refunded" json:"refunded"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	CancelledAt    *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

func (r Reservation) StatusAt(now time.Time) Status {
	if r.Status == StatusConfirmed && !r.OccurrenceAt.After(now) {
		return StatusCompleted
	}
	return r.Status
}

// Refundable reports whether cancelling at now returns the session: the
// occurrence must be at least window away.
func Refundable(occurrence, now time.Time, window time.Duration) bool {
	return occurrence.Sub(now) >= window
}

// View is a reservation resolved against its class slot, with the rules the
// client needs already evaluated.
type View struct {
	Reservation
	Title           string `db:"title" json:"title"`
	CoachName       string `db:"coach_name" json:"coach_name"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes"`

	EffectiveStatus       Status `db:"-" json:"effective_status"`
	Cancellable           bool   `db:"-" json:"cancellable"`
	RefundableIfCancelled bool   `db:"-" json:"refundable_if_cancelled"`
}

// Credit is the subscription a booking draws on.
type Credit struct {
	SubscriptionID int       `db:"id"`
	SessionsTotal  int       `db:"sessions_total"`
	SessionsLeft   int       `db:"sessions_left"`
	EndDate        time.Time `db:"end_date"`
}

type Participant struct {
	ReservationID int    `db:"reservation_id" json:"reservation_id"`
	UserID        int    `db:"user_id" json:"user_id"`
	FullName      string `db:"full_name" json:"full_name"`
	Email         string `db:"email" json:"email"`
	Phone         string `db:"phone" json:"phone,omitempty"`
	Status        Status `db:"status" json:"status"`
}

type OccurrenceCount struct {
	ScheduleID   int       `db:"schedule_id"`
	OccurrenceAt time.Time `db:"occurrence_at"`
	Taken        int       `db:"taken"`
}

type Availability struct {
	ScheduleID      int       `json:"schedule_id"`
	OccurrenceAt    time.Time `json:"occurrence_date"`
	Capacity        int       `json:"capacity"`
	Taken           int       `json:"taken"`
	PlacesAvailable int       `json:"places_available"`
}

type BookRequest struct {
	ScheduleID     int       `json:"schedule_id" validate:"required,min=1"`
	OccurrenceDate time.Time `json:"occurrence_date" validate:"required" example:"2025-01-06T17:30:00Z"`
}

// CancelResult.Refunded mirrors the stored reservation: true only when a
// session went back to the subscription.
type CancelResult struct {
	Reservation Reservation `json:"reservation"`
	Refunded    bool        `json:"refunded"`
	Outcome     string      `json:"outcome" example:"CREDITED_BACK"`
}
