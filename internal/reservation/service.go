package reservation

import (
	"context"
	"fmt"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/auth"
	"studiodesk/internal/catalog"
	"studiodesk/internal/events"
	"studiodesk/internal/logger"
	"studiodesk/internal/metrics"
	"studiodesk/internal/schedule"
)

const (
	// DefaultRefundWindow is how long before the start a cancellation still
	// returns the session.
	DefaultRefundWindow = 4 * time.Hour

	maxAvailabilityDays = 62
	dateLayout          = "2006-01-02"
	availabilityKeyTime = "2006-01-02T15:04:05.000Z"
)

type SlotLookup interface {
	Get(ctx context.Context, id int) (*schedule.Slot, error)
	List(ctx context.Context, activeOnly bool) ([]schedule.Slot, error)
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, userID int, classTitle string, at time.Time)
	BookingCancelled(ctx context.Context, userID int, classTitle string, at time.Time, debited, refunded bool)
}

type Options struct {
	Location     *time.Location
	Now          func() time.Time
	RefundWindow time.Duration
	Notifier     Notifier
	Publisher    events.Publisher
}

type Service interface {
	Book(ctx context.Context, userID, scheduleID int, occurrence time.Time) (*Reservation, error)
	Cancel(ctx context.Context, actor auth.Actor, reservationID int) (*CancelResult, error)
	GetAvailability(ctx context.Context, scheduleID int, occurrence time.Time) (*Availability, error)
	AvailabilityMap(ctx context.Context, from, to string) (map[string]int, error)
	ListByUser(ctx context.Context, userID int) ([]View, error)
	Participants(ctx context.Context, date string, scheduleID int) ([]Participant, error)
}

type service struct {
	repo      Repository
	slots     SlotLookup
	loc       *time.Location
	now       func() time.Time
	window    time.Duration
	notifier  Notifier
	publisher events.Publisher
}

func NewService(repo Repository, slots SlotLookup, opts Options) Service {
	s := &service{
		repo:      repo,
		slots:     slots,
		loc:       opts.Location,
		now:       opts.Now,
		window:    opts.RefundWindow,
		notifier:  opts.Notifier,
		publisher: opts.Publisher,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.window <= 0 {
		s.window = DefaultRefundWindow
	}
	if s.publisher == nil {
		s.publisher = events.NewNopPublisher()
	}
	return s
}

// Book reserves one seat on an occurrence and spends one session of the
// user's current subscription. Every check and the debit run in one
// transaction under the user and occurrence locks.
func (s *service) Book(ctx context.Context, userID, scheduleID int, occurrence time.Time) (*Reservation, error) {
	res, slot, err := s.book(ctx, userID, scheduleID, occurrence.UTC())
	if err != nil {
		metrics.RecordBookingAttempt(string(apperr.KindOf(err)))
		logger.Info("booking rejected",
			"user_id", userID,
			"schedule_id", scheduleID,
			"occurrence", occurrence.UTC(),
			"reason", apperr.KindOf(err),
		)
		return nil, err
	}

	metrics.RecordBookingAttempt("confirmed")
	logger.Info("booking confirmed",
		"reservation_id", res.ID,
		"user_id", userID,
		"schedule_id", scheduleID,
		"occurrence", res.OccurrenceAt,
		"subscription_id", res.SubscriptionID,
		"credit_debited", res.CreditDebited,
	)
	events.Emit(ctx, s.publisher, events.ReservationConfirmed, map[string]any{
		"reservation_id":  res.ID,
		"user_id":         res.UserID,
		"schedule_id":     res.ScheduleID,
		"occurrence_date": res.OccurrenceAt,
		"subscription_id": res.SubscriptionID,
	})
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, userID, slot.Title, res.OccurrenceAt)
	}
	return res, nil
}

func (s *service) book(ctx context.Context, userID, scheduleID int, at time.Time) (*Reservation, *schedule.Slot, error) {
	slot, err := s.bookableSlot(ctx, scheduleID, at)
	if err != nil {
		return nil, nil, err
	}

	var created *Reservation
	err = s.repo.WithTx(ctx, func(tx Tx) error {
		if err := tx.LockUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.LockOccurrence(ctx, slot.ID, at); err != nil {
			return err
		}
		now := s.now()

		credit, err := tx.CurrentCreditForUpdate(ctx, userID, now)
		if err != nil {
			return err
		}
		if credit == nil {
			return apperr.New(apperr.KindNoCredit, "no active subscription with sessions left").With("sessions_left", 0)
		}

		busy, err := tx.HasFutureConfirmed(ctx, userID, now)
		if err != nil {
			return err
		}
		if busy {
			return apperr.New(apperr.KindAlreadyBooked, "you already have an upcoming class booked")
		}

		taken, err := tx.CountTaken(ctx, slot.ID, at)
		if err != nil {
			return err
		}
		if taken >= slot.Capacity {
			return apperr.New(apperr.KindSlotFull, "this class is full").
				With("capacity", slot.Capacity).
				With("taken", taken)
		}

		dup, err := tx.HasActiveReservation(ctx, userID, slot.ID, at)
		if err != nil {
			return err
		}
		if dup {
			return apperr.New(apperr.KindDuplicateBooking, "already booked on this class")
		}

		debit := credit.SessionsTotal != catalog.UnlimitedSessions
		created, err = tx.Insert(ctx, Reservation{
			UserID:         userID,
			ScheduleID:     slot.ID,
			SubscriptionID: credit.SubscriptionID,
			OccurrenceAt:   at,
			CreditDebited:  debit,
		})
		if err != nil {
			return err
		}
		if debit {
			return tx.DebitSession(ctx, credit.SubscriptionID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return created, slot, nil
}

func (s *service) bookableSlot(ctx context.Context, scheduleID int, at time.Time) (*schedule.Slot, error) {
	slot, err := s.slots.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if !slot.Active {
		return nil, apperr.Validationf("this class is no longer scheduled").With("schedule_id", scheduleID)
	}
	if !schedule.IsOccurrence(*slot, at, s.loc) {
		return nil, apperr.Validationf("date is not an occurrence of this class").
			With("schedule_id", scheduleID).
			With("occurrence_date", at)
	}
	if !at.After(s.now()) {
		return nil, apperr.Validationf("this class has already started").With("occurrence_date", at)
	}
	return slot, nil
}

// Cancel cancels a reservation. A cancellation at least the refund window
// before the start returns the session. Later ones, past occurrences
// included, consume it whoever cancels.
func (s *service) Cancel(ctx context.Context, actor auth.Actor, reservationID int) (*CancelResult, error) {
	var result *CancelResult
	err := s.repo.WithTx(ctx, func(tx Tx) error {
		res, err := tx.GetForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(res.UserID) {
			return apperr.New(apperr.KindForbidden, "reservation belongs to another user")
		}
		if res.Status == StatusCancelled {
			return apperr.New(apperr.KindAlreadyCancelled, "reservation is already cancelled").With("reservation_id", res.ID)
		}

		now := s.now()
		refund := Refundable(res.OccurrenceAt, now, s.window)
		credited := refund && res.CreditDebited

		cancelled, err := tx.MarkCancelled(ctx, res.ID, now, credited)
		if err != nil {
			return err
		}
		if credited {
			if err := tx.CreditSession(ctx, res.SubscriptionID); err != nil {
				return err
			}
		}

		result = &CancelResult{Reservation: *cancelled, Refunded: credited, Outcome: OutcomeSessionConsumed}
		switch {
		case !res.CreditDebited:
			result.Outcome = OutcomeNotDebited
		case credited:
			result.Outcome = OutcomeCreditedBack
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := result.Reservation
	metrics.RecordCancellation(result.Refunded)
	logger.Info("reservation cancelled",
		"reservation_id", res.ID,
		"user_id", res.UserID,
		"cancelled_by", actor.UserID,
		"occurrence", res.OccurrenceAt,
		"outcome", result.Outcome,
	)
	events.Emit(ctx, s.publisher, events.ReservationCancelled, map[string]any{
		"reservation_id":  res.ID,
		"user_id":         res.UserID,
		"schedule_id":     res.ScheduleID,
		"occurrence_date": res.OccurrenceAt,
		"refunded":        result.Refunded,
		"cancelled_by":    actor.UserID,
	})
	if s.notifier != nil {
		title := ""
		if slot, err := s.slots.Get(ctx, res.ScheduleID); err == nil {
			title = slot.Title
		}
		s.notifier.BookingCancelled(ctx, res.UserID, title, res.OccurrenceAt, res.CreditDebited, result.Refunded)
	}
	return result, nil
}

func (s *service) GetAvailability(ctx context.Context, scheduleID int, occurrence time.Time) (*Availability, error) {
	slot, err := s.slots.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	at := occurrence.UTC()
	taken, err := s.repo.CountTaken(ctx, scheduleID, at)
	if err != nil {
		return nil, err
	}
	return &Availability{
		ScheduleID:      scheduleID,
		OccurrenceAt:    at,
		Capacity:        slot.Capacity,
		Taken:           taken,
		PlacesAvailable: max(slot.Capacity-taken, 0),
	}, nil
}

// AvailabilityMap returns the taken count of every active slot occurrence
// between two studio dates, both inclusive. Empty bounds default to today
// and a week later.
func (s *service) AvailabilityMap(ctx context.Context, from, to string) (map[string]int, error) {
	start, end, err := s.dateRange(from, to)
	if err != nil {
		return nil, err
	}

	slots, err := s.slots.List(ctx, true)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int)
	for _, slot := range slots {
		for _, at := range schedule.Occurrences(slot, start, end, s.loc) {
			out[AvailabilityKey(slot.ID, at)] = 0
		}
	}

	counts, err := s.repo.TakenBetween(ctx, start.UTC(), end.AddDate(0, 0, 1).UTC())
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		key := AvailabilityKey(c.ScheduleID, c.OccurrenceAt)
		if _, ok := out[key]; ok {
			out[key] = c.Taken
		}
	}
	return out, nil
}

// AvailabilityKey is "{scheduleId}-{occurrence in UTC ISO-8601 with millis}".
func AvailabilityKey(scheduleID int, at time.Time) string {
	return fmt.Sprintf("%d-%s", scheduleID, at.UTC().Format(availabilityKeyTime))
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]View, error) {
	views, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range views {
		s.project(&views[i], now)
	}
	return views, nil
}

func (s *service) project(v *View, now time.Time) {
	v.EffectiveStatus = v.StatusAt(now)
	v.Cancellable = v.Status == StatusConfirmed
	v.RefundableIfCancelled = v.Cancellable && v.CreditDebited && Refundable(v.OccurrenceAt, now, s.window)
}

// Participants lists who is booked on the slot's occurrence on date.
func (s *service) Participants(ctx context.Context, date string, scheduleID int) ([]Participant, error) {
	day, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return nil, apperr.Validationf("date must be YYYY-MM-DD").With("date", date)
	}
	slot, err := s.slots.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.ISOWeekday(day) != slot.DayOfWeek {
		return []Participant{}, nil
	}
	at, err := schedule.ResolveOccurrence(*slot, day, s.loc)
	if err != nil {
		return nil, apperr.Internal(err, "resolve occurrence")
	}
	return s.repo.Participants(ctx, scheduleID, at)
}

func (s *service) dateRange(from, to string) (time.Time, time.Time, error) {
	n := s.now().In(s.loc)
	start := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 7)

	var err error
	if from != "" {
		if start, err = time.ParseInLocation(dateLayout, from, s.loc); err != nil {
			return time.Time{}, time.Time{}, apperr.Validationf("from must be YYYY-MM-DD").With("from", from)
		}
		if to == "" {
			end = start.AddDate(0, 0, 7)
		}
	}
	if to != "" {
		if end, err = time.ParseInLocation(dateLayout, to, s.loc); err != nil {
			return time.Time{}, time.Time{}, apperr.Validationf("to must be YYYY-MM-DD").With("to", to)
		}
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.Validationf("to is before from")
	}
	if end.Sub(start) > maxAvailabilityDays*24*time.Hour {
		return time.Time{}, time.Time{}, apperr.Validationf("range is limited to %d days", maxAvailabilityDays)
	}
	return start, end, nil
}
