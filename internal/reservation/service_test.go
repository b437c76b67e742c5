package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/auth"
	"studiodesk/internal/catalog"
	"studiodesk/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var studio = time.FixedZone("studio", 3600)

// 2025-01-06 is a Monday. The slot starts 18:30 studio time, 17:30 UTC.
var (
	occurrence = time.Date(2025, 1, 6, 17, 30, 0, 0, time.UTC)
	nextWeek   = occurrence.AddDate(0, 0, 7)
)

type stubSlots map[int]schedule.Slot

func (s stubSlots) Get(ctx context.Context, id int) (*schedule.Slot, error) {
	slot, ok := s[id]
	if !ok {
		return nil, apperr.NotFoundf("schedule slot not found")
	}
	return &slot, nil
}

func (s stubSlots) List(ctx context.Context, activeOnly bool) ([]schedule.Slot, error) {
	out := []schedule.Slot{}
	for _, slot := range s {
		if !activeOnly || slot.Active {
			out = append(out, slot)
		}
	}
	return out, nil
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingConfirmed(ctx context.Context, userID int, classTitle string, at time.Time) {
	m.Called(ctx, userID, classTitle, at)
}

func (m *MockNotifier) BookingCancelled(ctx context.Context, userID int, classTitle string, at time.Time, debited, refunded bool) {
	m.Called(ctx, userID, classTitle, at, debited, refunded)
}

type fixture struct {
	store *memStore
	clock *testClock
	svc   Service
}

func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	store := newMemStore()
	slot := schedule.Slot{ID: 1, Title: "Reformer", DayOfWeek: 1, StartTime: "18:30", DurationMinutes: 50, Capacity: capacity, Active: true}
	store.slots[1] = slot
	clock := &testClock{t: occurrence.Add(-5 * time.Hour)}

	svc := NewService(store, stubSlots{1: slot}, Options{
		Location:     studio,
		Now:          clock.Now,
		RefundWindow: 4 * time.Hour,
	})
	return &fixture{store: store, clock: clock, svc: svc}
}

// giveCredit adds an active subscription for userID, using userID as its id.
func (f *fixture) giveCredit(userID, sessions int) {
	f.store.addSub(memSub{
		ID: userID, UserID: userID, Total: max(sessions, 1), Left: sessions,
		Status: "ACTIVE", End: occurrence.AddDate(0, 1, 0),
	})
}

func client(id int) auth.Actor { return auth.Actor{UserID: id, Role: auth.RoleClient} }

func TestBook_DebitsOneSession(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 10)

	res, err := f.svc.Book(context.Background(), 1, 1, occurrence)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, res.Status)
	assert.True(t, res.CreditDebited)
	assert.Equal(t, 9, f.store.sessionsLeft(1))
}

func TestBook_LastSeat_TwoUsers(t *testing.T) {
	f := newFixture(t, 1)
	f.giveCredit(1, 5)
	f.giveCredit(2, 5)

	_, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.confirmedFor(1, occurrence))

	_, err = f.svc.Book(context.Background(), 2, 1, occurrence)
	assert.ErrorIs(t, err, apperr.SlotFull)
	assert.Equal(t, 1, apperr.DetailsOf(err)["capacity"])
	assert.Equal(t, 5, f.store.sessionsLeft(2))
}

func TestBook_ConcurrentLastSeat(t *testing.T) {
	const bookers = 25
	f := newFixture(t, 3)
	for u := 1; u <= bookers; u++ {
		f.giveCredit(u, 2)
	}
	// two seats already gone
	_, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)
	_, err = f.svc.Book(context.Background(), 2, 1, occurrence)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes []int
		full      int
	)
	start := make(chan struct{})
	for u := 3; u <= bookers; u++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			<-start
			_, err := f.svc.Book(context.Background(), userID, 1, occurrence)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes = append(successes, userID)
			case apperr.KindOf(err) == apperr.KindSlotFull:
				full++
			default:
				t.Errorf("user %d: unexpected error %v", userID, err)
			}
		}(u)
	}
	close(start)
	wg.Wait()

	require.Len(t, successes, 1)
	assert.Equal(t, bookers-3, full)
	assert.Equal(t, 3, f.store.confirmedFor(1, occurrence))
	for u := 3; u <= bookers; u++ {
		want := 2
		if u == successes[0] {
			want = 1
		}
		assert.Equal(t, want, f.store.sessionsLeft(u), "user %d", u)
	}
}

// One member with a single session booking from several tabs at once.
func TestBook_ConcurrentSameUser(t *testing.T) {
	store := newMemStore()
	slots := stubSlots{}
	for id := 1; id <= 5; id++ {
		slots[id] = schedule.Slot{ID: id, DayOfWeek: 1, StartTime: "18:30", Capacity: 10, Active: true}
	}
	clock := &testClock{t: occurrence.Add(-24 * time.Hour)}
	svc := NewService(store, slots, Options{Location: studio, Now: clock.Now})
	store.addSub(memSub{ID: 7, UserID: 7, Total: 10, Left: 1, Status: "ACTIVE", End: occurrence.AddDate(0, 1, 0)})

	var wg sync.WaitGroup
	results := make([]error, 5)
	for id := 1; id <= 5; id++ {
		wg.Add(1)
		go func(scheduleID int) {
			defer wg.Done()
			_, results[scheduleID-1] = svc.Book(context.Background(), 7, scheduleID, occurrence)
		}(id)
	}
	wg.Wait()

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		kind := apperr.KindOf(err)
		assert.Contains(t, []apperr.Kind{apperr.KindNoCredit, apperr.KindAlreadyBooked}, kind)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 0, store.sessionsLeft(7))
}

func TestBook_Rules(t *testing.T) {
	t.Run("no subscription", func(t *testing.T) {
		f := newFixture(t, 8)
		_, err := f.svc.Book(context.Background(), 1, 1, occurrence)
		assert.ErrorIs(t, err, apperr.NoCredit)
	})

	t.Run("no sessions left", func(t *testing.T) {
		f := newFixture(t, 8)
		f.giveCredit(1, 0)
		_, err := f.svc.Book(context.Background(), 1, 1, occurrence)
		assert.ErrorIs(t, err, apperr.NoCredit)
	})

	t.Run("expired by date though stored active", func(t *testing.T) {
		f := newFixture(t, 8)
		f.store.addSub(memSub{ID: 1, UserID: 1, Total: 10, Left: 10, Status: "ACTIVE", End: f.clock.Now().Add(-time.Minute)})
		_, err := f.svc.Book(context.Background(), 1, 1, occurrence)
		assert.ErrorIs(t, err, apperr.NoCredit)
	})

	t.Run("already has an upcoming class", func(t *testing.T) {
		f := newFixture(t, 8)
		f.giveCredit(1, 10)
		_, err := f.svc.Book(context.Background(), 1, 1, nextWeek)
		require.NoError(t, err)

		_, err = f.svc.Book(context.Background(), 1, 1, occurrence)
		assert.ErrorIs(t, err, apperr.AlreadyBooked)
		assert.Equal(t, 9, f.store.sessionsLeft(1))
	})

	t.Run("wrong weekday", func(t *testing.T) {
		f := newFixture(t, 8)
		f.giveCredit(1, 10)
		_, err := f.svc.Book(context.Background(), 1, 1, occurrence.AddDate(0, 0, 1))
		assert.ErrorIs(t, err, apperr.Validation)
	})

	t.Run("already started", func(t *testing.T) {
		f := newFixture(t, 8)
		f.giveCredit(1, 10)
		f.clock.Set(occurrence.Add(time.Minute))
		_, err := f.svc.Book(context.Background(), 1, 1, occurrence)
		assert.ErrorIs(t, err, apperr.Validation)
	})

	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture(t, 8)
		_, err := f.svc.Book(context.Background(), 1, 42, occurrence)
		assert.ErrorIs(t, err, apperr.NotFound)
	})
}

// A cancelled reservation no longer blocks booking the same class again.
func TestBook_AfterCancelSameOccurrence(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 10)
	f.clock.Set(occurrence.Add(-48 * time.Hour))

	res, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), client(1), res.ID)
	require.NoError(t, err)

	_, err = f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)
	assert.Equal(t, 9, f.store.sessionsLeft(1))
}

func TestBook_Unlimited_NotDebited(t *testing.T) {
	f := newFixture(t, 8)
	f.store.addSub(memSub{ID: 1, UserID: 1, Total: catalog.UnlimitedSessions, Left: catalog.UnlimitedSessions, Status: "ACTIVE", End: occurrence.AddDate(0, 1, 0)})

	res, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)
	assert.False(t, res.CreditDebited)
	assert.Equal(t, catalog.UnlimitedSessions, f.store.sessionsLeft(1))

	// the one-upcoming-class cap still applies
	_, err = f.svc.Book(context.Background(), 1, 1, nextWeek)
	assert.ErrorIs(t, err, apperr.AlreadyBooked)

	result, err := f.svc.Cancel(context.Background(), client(1), res.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotDebited, result.Outcome)
	assert.False(t, result.Refunded)
	assert.Equal(t, result.Reservation.Refunded, result.Refunded)
	assert.Equal(t, catalog.UnlimitedSessions, f.store.sessionsLeft(1))
}

func TestCancel_Unlimited_LateIsNotDebited(t *testing.T) {
	f := newFixture(t, 8)
	f.store.addSub(memSub{ID: 1, UserID: 1, Total: catalog.UnlimitedSessions, Left: catalog.UnlimitedSessions, Status: "ACTIVE", End: occurrence.AddDate(0, 1, 0)})

	res, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)

	f.clock.Set(occurrence.Add(-time.Hour))
	result, err := f.svc.Cancel(context.Background(), client(1), res.ID)

	require.NoError(t, err)
	assert.Equal(t, OutcomeNotDebited, result.Outcome)
	assert.False(t, result.Refunded)
	assert.Equal(t, catalog.UnlimitedSessions, f.store.sessionsLeft(1))
}

// Booked 5h before start, cancelled 4.5h before: the session comes back.
func TestCancel_EarlyCreditsBack(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 1)

	res, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.sessionsLeft(1))

	f.clock.Set(occurrence.Add(-4*time.Hour - 30*time.Minute))
	result, err := f.svc.Cancel(context.Background(), client(1), res.ID)

	require.NoError(t, err)
	assert.True(t, result.Refunded)
	assert.Equal(t, OutcomeCreditedBack, result.Outcome)
	assert.Equal(t, StatusCancelled, result.Reservation.Status)
	assert.Equal(t, 1, f.store.sessionsLeft(1))
}

// Cancelled 2h before: the session is consumed.
func TestCancel_LateConsumesSession(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 1)

	res, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)

	f.clock.Set(occurrence.Add(-2 * time.Hour))
	result, err := f.svc.Cancel(context.Background(), client(1), res.ID)

	require.NoError(t, err)
	assert.False(t, result.Refunded)
	assert.Equal(t, OutcomeSessionConsumed, result.Outcome)
	assert.Equal(t, StatusCancelled, result.Reservation.Status)
	assert.Equal(t, 0, f.store.sessionsLeft(1))
}

func TestCancel_ExactlyAtWindowRefunds(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 3)
	res, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)

	f.clock.Set(occurrence.Add(-4 * time.Hour))
	result, err := f.svc.Cancel(context.Background(), client(1), res.ID)

	require.NoError(t, err)
	assert.True(t, result.Refunded)
	assert.Equal(t, 3, f.store.sessionsLeft(1))
}

func TestCancel_StaffLateCancelStillConsumes(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 2)
	res, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)

	f.clock.Set(occurrence.Add(time.Hour))
	result, err := f.svc.Cancel(context.Background(), auth.Actor{UserID: 99, Role: auth.RoleReceptionist}, res.ID)

	require.NoError(t, err)
	assert.False(t, result.Refunded)
	assert.Equal(t, 1, f.store.sessionsLeft(1))
}

func TestCancel_Idempotence(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 5)
	res, err := f.svc.Book(context.Background(), 1, 1, nextWeek)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), client(1), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.store.sessionsLeft(1))

	for i := 0; i < 3; i++ {
		_, err = f.svc.Cancel(context.Background(), client(1), res.ID)
		assert.ErrorIs(t, err, apperr.AlreadyCancelled)
	}
	assert.Equal(t, 5, f.store.sessionsLeft(1))
}

func TestCancel_ConcurrentRefundsOnce(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 5)
	res, err := f.svc.Book(context.Background(), 1, 1, nextWeek)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Cancel(context.Background(), client(1), res.ID)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, apperr.AlreadyCancelled)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 5, f.store.sessionsLeft(1))
}

func TestCancel_OwnershipAndMissing(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 5)
	res, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), client(2), res.ID)
	assert.ErrorIs(t, err, apperr.Forbidden)

	_, err = f.svc.Cancel(context.Background(), client(1), 999)
	assert.ErrorIs(t, err, apperr.NotFound)
}

func TestCancel_NotifiesWithOutcome(t *testing.T) {
	store := newMemStore()
	slot := schedule.Slot{ID: 1, Title: "Reformer", DayOfWeek: 1, StartTime: "18:30", Capacity: 4, Active: true}
	clock := &testClock{t: occurrence.Add(-2 * time.Hour)}
	notifier := new(MockNotifier)
	svc := NewService(store, stubSlots{1: slot}, Options{Location: studio, Now: clock.Now, Notifier: notifier})
	store.addSub(memSub{ID: 1, UserID: 1, Total: 5, Left: 5, Status: "ACTIVE", End: occurrence.AddDate(0, 1, 0)})

	notifier.On("BookingConfirmed", mock.Anything, 1, "Reformer", occurrence).Once()
	notifier.On("BookingCancelled", mock.Anything, 1, "Reformer", occurrence, true, false).Once()

	res, err := svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), client(1), res.ID)
	require.NoError(t, err)

	notifier.AssertExpectations(t)
}

// sessionsTotal - sessionsLeft equals debited bookings minus refunds.
func TestCreditConservation(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 10)
	f.clock.Set(occurrence.Add(-72 * time.Hour))

	debited, refunded := 0, 0
	at := occurrence
	for week := 0; week < 4; week++ {
		res, err := f.svc.Book(context.Background(), 1, 1, at)
		require.NoError(t, err)
		debited++

		if week%2 == 0 {
			result, err := f.svc.Cancel(context.Background(), client(1), res.ID)
			require.NoError(t, err)
			if result.Refunded {
				refunded++
			}
		} else {
			f.clock.Set(at.Add(time.Hour))
		}
		at = at.AddDate(0, 0, 7)
		f.clock.Set(at.Add(-72 * time.Hour))
	}

	assert.Equal(t, 10-(debited-refunded), f.store.sessionsLeft(1))
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t, 3)
	f.giveCredit(1, 5)
	_, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)

	a, err := f.svc.GetAvailability(context.Background(), 1, occurrence)

	require.NoError(t, err)
	assert.Equal(t, 1, a.Taken)
	assert.Equal(t, 2, a.PlacesAvailable)
}

func TestAvailabilityMap(t *testing.T) {
	f := newFixture(t, 3)
	f.giveCredit(1, 5)
	_, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)

	m, err := f.svc.AvailabilityMap(context.Background(), "2025-01-06", "2025-01-13")

	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"1-2025-01-06T17:30:00.000Z": 1,
		"1-2025-01-13T17:30:00.000Z": 0,
	}, m)
}

func TestAvailabilityMap_DefaultsAndBadRange(t *testing.T) {
	f := newFixture(t, 3)

	m, err := f.svc.AvailabilityMap(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, m, 2)

	_, err = f.svc.AvailabilityMap(context.Background(), "2025-01-10", "2025-01-01")
	assert.ErrorIs(t, err, apperr.Validation)

	_, err = f.svc.AvailabilityMap(context.Background(), "2025-01-01", "2025-06-01")
	assert.ErrorIs(t, err, apperr.Validation)

	_, err = f.svc.AvailabilityMap(context.Background(), "06/01/2025", "")
	assert.ErrorIs(t, err, apperr.Validation)
}

func TestListByUser_Projection(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 10)
	f.clock.Set(occurrence.Add(-10 * 24 * time.Hour))

	past, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)
	f.clock.Set(occurrence.Add(time.Hour))
	upcoming, err := f.svc.Book(context.Background(), 1, 1, nextWeek)
	require.NoError(t, err)

	views, err := f.svc.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[int]View{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.Equal(t, StatusCompleted, byID[past.ID].EffectiveStatus)
	assert.Equal(t, StatusConfirmed, byID[past.ID].Status)
	assert.False(t, byID[past.ID].RefundableIfCancelled)

	assert.Equal(t, StatusConfirmed, byID[upcoming.ID].EffectiveStatus)
	assert.True(t, byID[upcoming.ID].Cancellable)
	assert.True(t, byID[upcoming.ID].RefundableIfCancelled)
	assert.Equal(t, "Reformer", byID[upcoming.ID].Title)
}

func TestParticipants(t *testing.T) {
	f := newFixture(t, 8)
	f.giveCredit(1, 10)
	f.giveCredit(2, 10)
	_, err := f.svc.Book(context.Background(), 1, 1, occurrence)
	require.NoError(t, err)
	_, err = f.svc.Book(context.Background(), 2, 1, occurrence)
	require.NoError(t, err)

	got, err := f.svc.Participants(context.Background(), "2025-01-06", 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	tuesday, err := f.svc.Participants(context.Background(), "2025-01-07", 1)
	require.NoError(t, err)
	assert.Empty(t, tuesday)

	_, err = f.svc.Participants(context.Background(), "yesterday", 1)
	assert.ErrorIs(t, err, apperr.Validation)
}
