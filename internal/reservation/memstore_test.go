package reservation

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/catalog"
	"studiodesk/internal/schedule"
)

type memSub struct {
	ID     int
	UserID int
	Total  int
	Left   int
	Status string
	End    time.Time
}

// memStore is an in-memory Repository. Lock* and *ForUpdate take real
// per-key mutexes held until the transaction ends, and a failed transaction
// is undone, so the service's locking is what keeps the data consistent.
type memStore struct {
	mu           sync.Mutex
	reservations map[int]Reservation
	subs         map[int]*memSub
	slots        map[int]schedule.Slot
	nextID       int

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		reservations: map[int]Reservation{},
		subs:         map[int]*memSub{},
		slots:        map[int]schedule.Slot{},
		locks:        map[string]*sync.Mutex{},
	}
}

func (m *memStore) addSub(s memSub) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := s
	m.subs[s.ID] = &cp
}

func (m *memStore) sessionsLeft(subID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs[subID].Left
}

func (m *memStore) confirmedFor(scheduleID int, at time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.reservations {
		if r.ScheduleID == scheduleID && r.OccurrenceAt.Equal(at) && r.Status != StatusCancelled {
			n++
		}
	}
	return n
}

func (m *memStore) keyLock(key string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

func (m *memStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memTx{m: m}
	err := fn(tx)
	if err != nil {
		m.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		m.mu.Unlock()
	}
	for i := len(tx.held) - 1; i >= 0; i-- {
		tx.held[i].Unlock()
	}
	return err
}

func (m *memStore) CountTaken(ctx context.Context, scheduleID int, at time.Time) (int, error) {
	return m.confirmedFor(scheduleID, at), nil
}

func (m *memStore) TakenBetween(ctx context.Context, from, to time.Time) ([]OccurrenceCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey := map[string]*OccurrenceCount{}
	for _, r := range m.reservations {
		if r.Status == StatusCancelled || r.OccurrenceAt.Before(from) || !r.OccurrenceAt.Before(to) {
			continue
		}
		k := occurrenceKey(r.ScheduleID, r.OccurrenceAt)
		if byKey[k] == nil {
			byKey[k] = &OccurrenceCount{ScheduleID: r.ScheduleID, OccurrenceAt: r.OccurrenceAt}
		}
		byKey[k].Taken++
	}
	out := []OccurrenceCount{}
	for _, c := range byKey {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID int) ([]View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	views := []View{}
	for _, r := range m.reservations {
		if r.UserID != userID {
			continue
		}
		slot := m.slots[r.ScheduleID]
		views = append(views, View{Reservation: r, Title: slot.Title, CoachName: slot.CoachName, DurationMinutes: slot.DurationMinutes})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].OccurrenceAt.After(views[j].OccurrenceAt) })
	return views, nil
}

func (m *memStore) Participants(ctx context.Context, scheduleID int, at time.Time) ([]Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Participant{}
	for _, r := range m.reservations {
		if r.ScheduleID == scheduleID && r.OccurrenceAt.Equal(at) && r.Status != StatusCancelled {
			out = append(out, Participant{ReservationID: r.ID, UserID: r.UserID, Status: r.Status})
		}
	}
	return out, nil
}

type memTx struct {
	m    *memStore
	held []*sync.Mutex
	undo []func()
}

func (t *memTx) lock(key string) {
	l := t.m.keyLock(key)
	l.Lock()
	t.held = append(t.held, l)
}

func (t *memTx) LockUser(ctx context.Context, userID int) error {
	t.lock(fmt.Sprintf("user:%d", userID))
	return nil
}

func (t *memTx) LockOccurrence(ctx context.Context, scheduleID int, at time.Time) error {
	t.lock(occurrenceKey(scheduleID, at))
	return nil
}

func (t *memTx) CurrentCreditForUpdate(ctx context.Context, userID int, now time.Time) (*Credit, error) {
	for {
		t.m.mu.Lock()
		var best *memSub
		for _, s := range t.m.subs {
			usable := s.UserID == userID && s.Status == "ACTIVE" && !s.End.Before(now) &&
				(s.Left > 0 || s.Total == catalog.UnlimitedSessions)
			if usable && (best == nil || s.End.Before(best.End) || (s.End.Equal(best.End) && s.ID < best.ID)) {
				best = s
			}
		}
		t.m.mu.Unlock()
		if best == nil {
			return nil, nil
		}

		t.lock(fmt.Sprintf("sub:%d", best.ID))

		t.m.mu.Lock()
		s := *t.m.subs[best.ID]
		t.m.mu.Unlock()
		if s.Left > 0 || s.Total == catalog.UnlimitedSessions {
			return &Credit{SubscriptionID: s.ID, SessionsTotal: s.Total, SessionsLeft: s.Left, EndDate: s.End}, nil
		}

		// Spent while we waited for the row; release and look again.
		last := len(t.held) - 1
		t.held[last].Unlock()
		t.held = t.held[:last]
	}
}

func (t *memTx) HasFutureConfirmed(ctx context.Context, userID int, now time.Time) (bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, r := range t.m.reservations {
		if r.UserID == userID && r.Status == StatusConfirmed && r.OccurrenceAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CountTaken(ctx context.Context, scheduleID int, at time.Time) (int, error) {
	n := t.m.confirmedFor(scheduleID, at)
	// Give concurrent bookers a chance to interleave between check and insert.
	runtime.Gosched()
	return n, nil
}

func (t *memTx) HasActiveReservation(ctx context.Context, userID, scheduleID int, at time.Time) (bool, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, r := range t.m.reservations {
		if r.UserID == userID && r.ScheduleID == scheduleID && r.OccurrenceAt.Equal(at) && r.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) Insert(ctx context.Context, r Reservation) (*Reservation, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for _, existing := range t.m.reservations {
		if existing.UserID == r.UserID && existing.ScheduleID == r.ScheduleID &&
			existing.OccurrenceAt.Equal(r.OccurrenceAt) && existing.Status != StatusCancelled {
			return nil, apperr.New(apperr.KindDuplicateBooking, "already booked on this class")
		}
	}
	t.m.nextID++
	r.ID = t.m.nextID
	r.Status = StatusConfirmed
	t.m.reservations[r.ID] = r
	id := r.ID
	t.undo = append(t.undo, func() { delete(t.m.reservations, id) })
	return &r, nil
}

func (t *memTx) DebitSession(ctx context.Context, subscriptionID int) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	s := t.m.subs[subscriptionID]
	if s.Left <= 0 {
		return apperr.New(apperr.KindNoCredit, "no sessions left")
	}
	s.Left--
	t.undo = append(t.undo, func() { s.Left++ })
	return nil
}

func (t *memTx) GetForUpdate(ctx context.Context, id int) (*Reservation, error) {
	t.lock(fmt.Sprintf("reservation:%d", id))
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	r, ok := t.m.reservations[id]
	if !ok {
		return nil, apperr.NotFoundf("reservation not found")
	}
	return &r, nil
}

func (t *memTx) MarkCancelled(ctx context.Context, id int, at time.Time, refunded bool) (*Reservation, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	prev := t.m.reservations[id]
	r := prev
	r.Status, r.CancelledAt, r.Refunded = StatusCancelled, &at, refunded
	t.m.reservations[id] = r
	t.undo = append(t.undo, func() { t.m.reservations[id] = prev })
	return &r, nil
}

func (t *memTx) CreditSession(ctx context.Context, subscriptionID int) error {
	t.lock(fmt.Sprintf("sub:%d", subscriptionID))
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	s := t.m.subs[subscriptionID]
	if s.Left < s.Total {
		s.Left++
		t.undo = append(t.undo, func() { s.Left-- })
	}
	return nil
}
