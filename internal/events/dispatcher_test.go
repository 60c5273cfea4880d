package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToAllSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var first, second []Event
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		first = append(first, e)
		return nil
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		second = append(second, e)
		return nil
	})
	d.Subscribe(EventTicketDeleted, func(ctx context.Context, e Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	err := d.Publish(context.Background(), Event{
		Type:      EventTicketCreated,
		ChannelID: "chan-1",
		ActorID:   "user-1",
	})
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "chan-1", first[0].ChannelID)
	assert.NotEmpty(t, first[0].ID)
	assert.False(t, first[0].Timestamp.IsZero())
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	var delivered bool
	d.Subscribe(EventTicketArchived, func(ctx context.Context, e Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventTicketArchived, func(ctx context.Context, e Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketArchived, ChannelID: "chan-1"})
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventStaffPromoted}))
}
