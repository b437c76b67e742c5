package schedule

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/db"

	"github.com/jmoiron/sqlx"
)

const slotColumns = `id, title, day_of_week, start_time, duration_minutes, coach_name, capacity, active, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM schedule_slots`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY day_of_week ASC, start_time ASC, id ASC`

	slots := []Slot{}
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Slot, error) {
	var s Slot
	err := r.db.GetContext(ctx, &s, `SELECT `+slotColumns+` FROM schedule_slots WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "schedule slot not found").With("schedule_id", id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, s Slot) (*Slot, error) {
	query := `
		INSERT INTO schedule_slots (title, day_of_week, start_time, duration_minutes, coach_name, capacity, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + slotColumns

	var created Slot
	if err := r.db.GetContext(ctx, &created, query,
		s.Title, s.DayOfWeek, s.StartTime, s.DurationMinutes, s.CoachName, s.Capacity, s.Active,
	); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) Update(ctx context.Context, s Slot) (*Slot, error) {
	query := `
		UPDATE schedule_slots
		SET title = $2, day_of_week = $3, start_time = $4, duration_minutes = $5,
		    coach_name = $6, capacity = $7, active = $8
		WHERE id = $1
		RETURNING ` + slotColumns

	var updated Slot
	err := r.db.GetContext(ctx, &updated, query,
		s.ID, s.Title, s.DayOfWeek, s.StartTime, s.DurationMinutes, s.CoachName, s.Capacity, s.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "schedule slot not found").With("schedule_id", s.ID)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *repository) CountFutureReservations(ctx context.Context, id int, after time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM reservations
		WHERE schedule_id = $1 AND status <> 'CANCELLED' AND occurrence_at > $2
	`
	var n int
	err := r.db.GetContext(ctx, &n, query, id, after)
	return n, err
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_slots WHERE id = $1`, id)
	if db.IsForeignKeyViolation(err) {
		return apperr.Wrap(apperr.KindReferentialConflict, err, "schedule slot has reservations, deactivate it instead").With("schedule_id", id)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("schedule slot not found").With("schedule_id", id)
	}
	return nil
}
