package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []Event
	d.Subscribe(EventTokenRevoked, func(_ context.Context, event Event) error {
		seen = append(seen, event)
		return nil
	})
	d.Subscribe(EventTokenIssued, func(_ context.Context, _ Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTokenRevoked, UserID: 42, TrackingID: "t-1"})
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, int64(42), seen[0].UserID)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	var delivered bool
	d.Subscribe(EventTokenIssued, func(_ context.Context, _ Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventTokenIssued, func(_ context.Context, _ Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTokenIssued})
	assert.NoError(t, err)
	assert.True(t, delivered)
}
