package penalty

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campuspark/internal/notifications"

	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Handle(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type mockPublisher struct {
	PublishFunc func(ctx context.Context, routingKey string, payload any) error
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.PublishFunc(ctx, routingKey, payload)
}

type mockNotifier struct {
	notifications.Service
	NotifyPenaltyFunc func(ctx context.Context, n notifications.PenaltyNotice) error
}

func (m *mockNotifier) NotifyPenalty(ctx context.Context, n notifications.PenaltyNotice) error {
	return m.NotifyPenaltyFunc(ctx, n)
}

func TestRelay_ForwardsToEverySink(t *testing.T) {
	broker := NewBroker(8)
	failing := &recordingSink{err: errors.New("broker unreachable")}
	ok := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewRelay(broker, failing, ok).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return broker.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	broker.Publish(Event{Type: EventTimeExpired, UserID: "user-1"}, Event{Type: EventPenaltyAccrued, UserID: "user-2"})

	assert.Eventually(t, func() bool { return ok.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, failing.count())

	cancel()
	<-done
	assert.Equal(t, 0, broker.Subscribers())
}

func TestAMQPSink_RoutingKey(t *testing.T) {
	var key string
	sink := NewAMQPSink(&mockPublisher{
		PublishFunc: func(ctx context.Context, routingKey string, payload any) error {
			key = routingKey
			return nil
		},
	})

	assert.NoError(t, sink.Handle(context.Background(), Event{Type: EventSyncFailed}))
	assert.Equal(t, "parking.sync_failed", key)
}

func TestPenaltyNoticeSink_OnlyAccruals(t *testing.T) {
	var notices []notifications.PenaltyNotice
	notifier := &mockNotifier{
		NotifyPenaltyFunc: func(ctx context.Context, n notifications.PenaltyNotice) error {
			notices = append(notices, n)
			return nil
		},
	}
	acc := newTestAccount()
	sink := NewPenaltyNoticeSink(notifier, newFakeRepository(acc))
	ctx := context.Background()

	assert.NoError(t, sink.Handle(ctx, Event{Type: EventTimeExpired, UserID: "user-1"}))
	assert.NoError(t, sink.Handle(ctx, Event{
		Type:            EventPenaltyAccrued,
		UserID:          "user-1",
		BookingID:       "booking-1",
		PenaltyAmount:   20,
		OvertimeMinutes: 11,
	}))

	if assert.Len(t, notices, 1) {
		assert.Equal(t, 20, notices[0].Amount)
		assert.Equal(t, 11, notices[0].MinutesLate)
		assert.Equal(t, "Zone A", notices[0].Zone)
		assert.Equal(t, "A01", notices[0].Lot)
	}
}
