package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2025, 1, 6, 18, 30, 0, 0, time.FixedZone("studio", 3600))

	body, err := encode(ReservationConfirmed, map[string]any{"reservation_id": 12}, at)
	require.NoError(t, err)

	var env struct {
		Type       string         `json:"type"`
		OccurredAt time.Time      `json:"occurred_at"`
		Data       map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env))

	assert.Equal(t, "reservation.confirmed", env.Type)
	assert.True(t, env.OccurredAt.Equal(at))
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
	assert.EqualValues(t, 12, env.Data["reservation_id"])
}

func TestEncode_Unmarshalable(t *testing.T) {
	_, err := encode(PaymentRecorded, make(chan int), time.Now())
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	p := NewNopPublisher()
	assert.NoError(t, p.Publish(context.Background(), SubscriptionActivated, nil))
	assert.NoError(t, p.Close())
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, string, any) error {
	f.calls++
	return errors.New("channel closed")
}

func (f *failingPublisher) Close() error { return nil }

func TestEmit_SwallowsErrors(t *testing.T) {
	p := &failingPublisher{}

	assert.NotPanics(t, func() {
		Emit(context.Background(), p, ReservationCancelled, map[string]any{"reservation_id": 1})
		Emit(context.Background(), nil, ReservationCancelled, nil)
	})
	assert.Equal(t, 1, p.calls)
}
