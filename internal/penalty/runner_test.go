package penalty

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, repo *fakeRepository, broker *Broker, now time.Time) *Runner {
	t.Helper()
	r := NewRunner(newTestSession(t, nil), repo, broker, RunnerOptions{
		TickInterval:   time.Hour,
		SyncRetryDelay: time.Hour,
		Clock:          fixedClock(now),
	})
	t.Cleanup(r.Abandon)
	return r
}

func drain(ch <-chan Event) []EventType {
	var types []EventType
	for {
		select {
		case e := <-ch:
			types = append(types, e.Type)
		default:
			return types
		}
	}
}

func TestRunner_StepAndFlush(t *testing.T) {
	repo := newFakeRepository()
	r := newTestRunner(t, repo, nil, late(12*time.Minute))

	terminal := r.step(late(12 * time.Minute))
	assert.False(t, terminal)
	assert.True(t, r.SyncPending())

	require.NoError(t, r.Flush(context.Background()))
	assert.False(t, r.SyncPending())

	stored := repo.stored("user-1")
	assert.True(t, stored.IsInOvertime)
	assert.Equal(t, 20, stored.PenaltyAmount)

	// nothing changed, nothing written
	require.NoError(t, r.Flush(context.Background()))
	assert.Equal(t, 1, repo.saveCount())
}

func TestRunner_SyncFailureAndRecovery(t *testing.T) {
	repo := newFakeRepository()
	broker := NewBroker(16)
	events, cancel := broker.Subscribe("user-1")
	defer cancel()

	r := newTestRunner(t, repo, broker, late(6*time.Minute))
	r.step(late(6 * time.Minute))
	drain(events)

	repo.setSaveErr(errors.New("connection refused"))
	err := r.Flush(context.Background())

	var werr *PersistenceWriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "user-1", werr.UserID)
	assert.True(t, r.SyncPending())
	assert.Equal(t, []EventType{EventSyncFailed}, drain(events))

	// in-memory state stays authoritative while the store is down
	assert.Equal(t, 10, r.Session().Snapshot().PenaltyAmount)

	repo.setSaveErr(nil)
	require.NoError(t, r.Flush(context.Background()))
	assert.False(t, r.SyncPending())
	assert.Equal(t, []EventType{EventSyncRestored}, drain(events))
	assert.Equal(t, 10, repo.stored("user-1").PenaltyAmount)
}

func TestRunner_MarkCarRemovedUsesClock(t *testing.T) {
	repo := newFakeRepository()
	r := newTestRunner(t, repo, nil, late(15*time.Minute))

	acc, err := r.MarkCarRemoved()
	require.NoError(t, err)
	assert.Equal(t, PhaseRemovedUnpaid, acc.Phase())
	assert.Equal(t, 20, acc.PenaltyAmount)
	assert.Equal(t, late(15*time.Minute), acc.CarRemovedAt.Time)
}

func TestRunner_StopFlushesFinalState(t *testing.T) {
	repo := newFakeRepository()
	r := newTestRunner(t, repo, nil, late(-time.Hour))

	_, err := r.Cancel()
	require.NoError(t, err)
	require.NoError(t, r.Stop(context.Background()))

	assert.False(t, repo.stored("user-1").IsSessionActive)
}

func TestRunner_AbandonDoesNotWrite(t *testing.T) {
	repo := newFakeRepository()
	r := newTestRunner(t, repo, nil, late(10*time.Minute))

	r.step(late(10 * time.Minute))
	r.Abandon()

	assert.Equal(t, 0, repo.saveCount())
}

func TestRunner_StartTicksImmediately(t *testing.T) {
	repo := newFakeRepository()
	broker := NewBroker(16)
	events, cancel := broker.Subscribe("user-1")
	defer cancel()

	r := newTestRunner(t, repo, broker, late(5*time.Minute))
	r.Start()

	assert.Eventually(t, func() bool {
		return repo.stored("user-1").PenaltyAmount == 10
	}, 2*time.Second, 10*time.Millisecond)

	r.Abandon()
	types := drain(events)
	assert.Contains(t, types, EventTimeExpired)
	assert.Contains(t, types, EventPenaltyAccrued)
}

func TestRunner_StepEndsOnceCarRemoved(t *testing.T) {
	repo := newFakeRepository()
	r := newTestRunner(t, repo, nil, late(12*time.Minute))

	assert.False(t, r.step(late(12*time.Minute)))

	acc, err := r.MarkCarRemoved()
	require.NoError(t, err)
	require.Equal(t, PhaseRemovedUnpaid, acc.Phase())

	// the penalty is frozen, so ticking is over while payment is pending
	assert.True(t, r.step(late(40*time.Minute)))
	assert.Equal(t, 20, r.Session().Snapshot().PenaltyAmount)

	_, err = r.ConfirmPayment()
	require.NoError(t, err)
	require.NoError(t, r.Flush(context.Background()))
	assert.True(t, repo.stored("user-1").IsPaid)
}
