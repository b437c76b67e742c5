package schedule

import (
	"context"
	"strings"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/logger"
)

type Service interface {
	List(ctx context.Context, activeOnly bool) ([]Slot, error)
	Get(ctx context.Context, id int) (*Slot, error)
	Create(ctx context.Context, req SlotRequest) (*Slot, error)
	Update(ctx context.Context, id int, req SlotRequest) (*Slot, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]Slot, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) Get(ctx context.Context, id int) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req SlotRequest) (*Slot, error) {
	slot, err := slotFromRequest(req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, slot)
	if err != nil {
		return nil, err
	}

	logger.Info("schedule slot created", "schedule_id", created.ID, "day", created.DayOfWeek, "start", created.StartTime, "capacity", created.Capacity)
	return created, nil
}

func (s *service) Update(ctx context.Context, id int, req SlotRequest) (*Slot, error) {
	slot, err := slotFromRequest(req)
	if err != nil {
		return nil, err
	}
	slot.ID = id

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Booked instants must stay occurrences of the slot.
	if current.DayOfWeek != slot.DayOfWeek || current.StartTime != slot.StartTime {
		n, err := s.repo.CountFutureReservations(ctx, id, s.now())
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, apperr.New(apperr.KindReferentialConflict, "schedule slot has upcoming reservations, its day and time cannot change").
				With("schedule_id", id).
				With("reservations", n)
		}
	}

	updated, err := s.repo.Update(ctx, slot)
	if err != nil {
		return nil, err
	}

	logger.Info("schedule slot updated", "schedule_id", id, "active", updated.Active)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	n, err := s.repo.CountFutureReservations(ctx, id, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.New(apperr.KindReferentialConflict, "schedule slot has upcoming reservations, deactivate it instead").
			With("schedule_id", id).
			With("reservations", n)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("schedule slot deleted", "schedule_id", id)
	return nil
}

func slotFromRequest(req SlotRequest) (Slot, error) {
	if req.DayOfWeek < 1 || req.DayOfWeek > 7 {
		return Slot{}, apperr.Validationf("day of week must be between 1 and 7").With("day_of_week", req.DayOfWeek)
	}
	hour, minute, err := ParseStartTime(strings.TrimSpace(req.StartTime))
	if err != nil {
		return Slot{}, apperr.Validationf("%s", err.Error())
	}
	if req.DurationMinutes < 1 {
		return Slot{}, apperr.Validationf("duration must be positive")
	}
	if req.Capacity < 1 {
		return Slot{}, apperr.Validationf("capacity must be at least 1").With("capacity", req.Capacity)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return Slot{
		Title:           strings.TrimSpace(req.Title),
		DayOfWeek:       req.DayOfWeek,
		StartTime:       time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04"),
		DurationMinutes: req.DurationMinutes,
		CoachName:       strings.TrimSpace(req.CoachName),
		Capacity:        req.Capacity,
		Active:          active,
	}, nil
}
