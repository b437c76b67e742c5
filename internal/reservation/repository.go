package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/catalog"
	"studiodesk/internal/db"

	"github.com/jmoiron/sqlx"
)

const (
	reservationColumns = `id, user_id, schedule_id, subscription_id, occurrence_at, status, credit_debited, refunded, created_at, cancelled_at`

	activeReservationConstraint = "reservations_one_active_per_occurrence"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&txRepository{tx: tx})
	})
}

func (r *repository) CountTaken(ctx context.Context, scheduleID int, at time.Time) (int, error) {
	return countTaken(ctx, r.db, scheduleID, at)
}

func (r *repository) TakenBetween(ctx context.Context, from, to time.Time) ([]OccurrenceCount, error) {
	query := `
		SELECT schedule_id, occurrence_at, COUNT(*) AS taken
		FROM reservations
		WHERE status <> 'CANCELLED' AND occurrence_at >= $1 AND occurrence_at < $2
		GROUP BY schedule_id, occurrence_at
	`

	counts := []OccurrenceCount{}
	if err := r.db.SelectContext(ctx, &counts, query, from, to); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]View, error) {
	query := `
		SELECT r.id, r.user_id, r.schedule_id, r.subscription_id, r.occurrence_at, r.status,
		       r.credit_debited, r.refunded, r.created_at, r.cancelled_at,
		       s.title, s.coach_name, s.duration_minutes
		FROM reservations r
		JOIN schedule_slots s ON s.id = r.schedule_id
		WHERE r.user_id = $1
		ORDER BY r.occurrence_at DESC
	`

	views := []View{}
	if err := r.db.SelectContext(ctx, &views, query, userID); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *repository) Participants(ctx context.Context, scheduleID int, at time.Time) ([]Participant, error) {
	query := `
		SELECT r.id AS reservation_id, r.user_id, u.full_name, u.email, COALESCE(u.phone, '') AS phone, r.status
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		WHERE r.schedule_id = $1 AND r.occurrence_at = $2 AND r.status <> 'CANCELLED'
		ORDER BY r.created_at ASC
	`

	participants := []Participant{}
	if err := r.db.SelectContext(ctx, &participants, query, scheduleID, at); err != nil {
		return nil, err
	}
	return participants, nil
}

func countTaken(ctx context.Context, q sqlx.QueryerContext, scheduleID int, at time.Time) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n, `
		SELECT COUNT(*) FROM reservations
		WHERE schedule_id = $1 AND occurrence_at = $2 AND status <> 'CANCELLED'`, scheduleID, at)
	return n, err
}

type txRepository struct {
	tx *sqlx.Tx
}

func (r *txRepository) LockUser(ctx context.Context, userID int) error {
	return db.AdvisoryXactLock(ctx, r.tx, fmt.Sprintf("user:%d", userID))
}

func (r *txRepository) LockOccurrence(ctx context.Context, scheduleID int, at time.Time) error {
	return db.AdvisoryXactLock(ctx, r.tx, occurrenceKey(scheduleID, at))
}

func (r *txRepository) CurrentCreditForUpdate(ctx context.Context, userID int, now time.Time) (*Credit, error) {
	query := `
		SELECT id, sessions_total, sessions_left, end_date
		FROM subscriptions
		WHERE user_id = $1
		  AND status = 'ACTIVE'
		  AND end_date >= $2
		  AND (sessions_left > 0 OR sessions_total = $3)
		ORDER BY end_date ASC, id ASC
		LIMIT 1
		FOR UPDATE
	`

	var c Credit
	err := r.tx.GetContext(ctx, &c, query, userID, now, catalog.UnlimitedSessions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *txRepository) HasFutureConfirmed(ctx context.Context, userID int, now time.Time) (bool, error) {
	var exists bool
	err := r.tx.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND status = 'CONFIRMED' AND occurrence_at > $2
		)`, userID, now)
	return exists, err
}

func (r *txRepository) CountTaken(ctx context.Context, scheduleID int, at time.Time) (int, error) {
	return countTaken(ctx, r.tx, scheduleID, at)
}

func (r *txRepository) HasActiveReservation(ctx context.Context, userID, scheduleID int, at time.Time) (bool, error) {
	var exists bool
	err := r.tx.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND schedule_id = $2 AND occurrence_at = $3 AND status <> 'CANCELLED'
		)`, userID, scheduleID, at)
	return exists, err
}

func (r *txRepository) Insert(ctx context.Context, res Reservation) (*Reservation, error) {
	query := `
		INSERT INTO reservations (user_id, schedule_id, subscription_id, occurrence_at, status, credit_debited)
		VALUES ($1, $2, $3, $4, 'CONFIRMED', $5)
		RETURNING ` + reservationColumns

	var created Reservation
	err := r.tx.GetContext(ctx, &created, query, res.UserID, res.ScheduleID, res.SubscriptionID, res.OccurrenceAt, res.CreditDebited)
	if db.IsUniqueViolation(err, activeReservationConstraint) {
		return nil, apperr.Wrap(apperr.KindDuplicateBooking, err, "already booked on this class")
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *txRepository) DebitSession(ctx context.Context, subscriptionID int) error {
	res, err := r.tx.ExecContext(ctx, `
		UPDATE subscriptions
		SET sessions_left = sessions_left - 1, updated_at = NOW()
		WHERE id = $1 AND sessions_left > 0`, subscriptionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNoCredit, "no sessions left").With("sessions_left", 0)
	}
	return nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, id int) (*Reservation, error) {
	var res Reservation
	err := r.tx.GetContext(ctx, &res, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "reservation not found").With("reservation_id", id)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *txRepository) MarkCancelled(ctx context.Context, id int, at time.Time, refunded bool) (*Reservation, error) {
	query := `
		UPDATE reservations
		SET status = 'CANCELLED', cancelled_at = $2, refunded = $3
		WHERE id = $1
		RETURNING ` + reservationColumns

	var res Reservation
	if err := r.tx.GetContext(ctx, &res, query, id, at, refunded); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *txRepository) CreditSession(ctx context.Context, subscriptionID int) error {
	_, err := r.tx.ExecContext(ctx, `
		UPDATE subscriptions
		SET sessions_left = LEAST(sessions_left + 1, sessions_total), updated_at = NOW()
		WHERE id = $1`, subscriptionID)
	return err
}

func occurrenceKey(scheduleID int, at time.Time) string {
	return fmt.Sprintf("occurrence:%d:%s", scheduleID, at.UTC().Format(time.RFC3339))
}
