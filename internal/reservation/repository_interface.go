package reservation

import (
	"context"
	"time"
)

type Repository interface {
	// WithTx runs fn in one database transaction. Locks taken through Tx
	// are held until it ends.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	CountTaken(ctx context.Context, scheduleID int, at time.Time) (int, error)
	TakenBetween(ctx context.Context, from, to time.Time) ([]OccurrenceCount, error)
	ListByUser(ctx context.Context, userID int) ([]View, error)
	Participants(ctx context.Context, scheduleID int, at time.Time) ([]Participant, error)
}

// Tx holds the reads and writes of book and cancel. Lock order is user,
// occurrence, subscription for booking and reservation, subscription for
// cancelling.
type Tx interface {
	LockUser(ctx context.Context, userID int) error
	LockOccurrence(ctx context.Context, scheduleID int, at time.Time) error

	// CurrentCreditForUpdate returns the usable subscription ending soonest
	// and locks its row, or nil when the user has none.
	CurrentCreditForUpdate(ctx context.Context, userID int, now time.Time) (*Credit, error)
	HasFutureConfirmed(ctx context.Context, userID int, now time.Time) (bool, error)
	CountTaken(ctx context.Context, scheduleID int, at time.Time) (int, error)
	HasActiveReservation(ctx context.Context, userID, scheduleID int, at time.Time) (bool, error)
	Insert(ctx context.Context, r Reservation) (*Reservation, error)
	DebitSession(ctx context.Context, subscriptionID int) error

	GetForUpdate(ctx context.Context, id int) (*Reservation, error)
	MarkCancelled(ctx context.Context, id int, at time.Time, refunded bool) (*Reservation, error)
	// CreditSession returns one session, never beyond the subscription total.
	CreditSession(ctx context.Context, subscriptionID int) error
}
