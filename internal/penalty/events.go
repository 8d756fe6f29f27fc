package penalty

import (
	"sync"
	"time"

	"campuspark/pkg/logger"
)

type EventType string

const (
	EventPhaseChanged   EventType = "phase_changed"
	EventTimeExpired    EventType = "time_expired"
	EventPenaltyAccrued EventType = "penalty_accrued"
	EventSyncFailed     EventType = "sync_failed"
	EventSyncRestored   EventType = "sync_restored"
)

type Event struct {
	Type            EventType `json:"type"`
	UserID          string    `json:"user_id"`
	BookingID       string    `json:"booking_id"`
	From            Phase     `json:"from,omitempty"`
	To              Phase     `json:"to,omitempty"`
	PenaltyAmount   int       `json:"penalty_amount"`
	OvertimeMinutes int       `json:"overtime_minutes"`
	At              time.Time `json:"at"`
	Error           string    `json:"error,omitempty"`
}

func newEvent(t EventType, a *Account, at time.Time) Event {
	return Event{
		Type:            t,
		UserID:          a.UserID,
		BookingID:       a.CurrentBookingID,
		PenaltyAmount:   a.PenaltyAmount,
		OvertimeMinutes: a.OvertimeMinutes,
		At:              at,
	}
}

// Broker fans events out to subscribers. A subscriber that falls behind
// loses events rather than blocking the publisher.
type Broker struct {
	mu     sync.RWMutex
	subs   map[int]*subscription
	nextID int
	buffer int
}

type subscription struct {
	userID string // empty receives every user's events
	ch     chan Event
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 32
	}
	return &Broker{
		subs:   make(map[int]*subscription),
		buffer: buffer,
	}
}

// Subscribe returns a channel of events for userID (all users when empty)
// and a cancel func that closes it.
func (b *Broker) Subscribe(userID string) (<-chan Event, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	sub := &subscription{userID: userID, ch: make(chan Event, b.buffer)}
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(sub.ch)
			b.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

func (b *Broker) Publish(events ...Event) {
	if len(events) == 0 {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, e := range events {
		for _, sub := range b.subs {
			if sub.userID != "" && sub.userID != e.UserID {
				continue
			}
			select {
			case sub.ch <- e:
			default:
				logger.GetDefault().WithUserID(e.UserID).WithFields(map[string]interface{}{
					"event": string(e.Type),
				}).Warn("event subscriber is full, dropping event")
			}
		}
	}
}

// Subscribers reports the number of live subscriptions
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
