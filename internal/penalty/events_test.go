package penalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroker_FiltersByUser(t *testing.T) {
	b := NewBroker(4)
	mine, cancelMine := b.Subscribe("user-1")
	defer cancelMine()
	all, cancelAll := b.Subscribe("")
	defer cancelAll()

	b.Publish(Event{Type: EventPenaltyAccrued, UserID: "user-2"})
	b.Publish(Event{Type: EventTimeExpired, UserID: "user-1"})

	e := <-mine
	assert.Equal(t, EventTimeExpired, e.Type)
	assert.Len(t, mine, 0)
	assert.Len(t, all, 2)
}

func TestBroker_DropsWhenFull(t *testing.T) {
	b := NewBroker(1)
	ch, cancel := b.Subscribe("user-1")
	defer cancel()

	b.Publish(
		Event{Type: EventTimeExpired, UserID: "user-1"},
		Event{Type: EventPhaseChanged, UserID: "user-1"},
	)

	assert.Len(t, ch, 1)
	assert.Equal(t, EventTimeExpired, (<-ch).Type)
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	b := NewBroker(0)
	ch, cancel := b.Subscribe("user-1")
	assert.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers())
}
