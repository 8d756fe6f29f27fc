package penalty

import (
	"context"
	"sync"
	"time"

	"campuspark/pkg/logger"
)

// LifecycleStore is the persistence a runner flushes to
type LifecycleStore interface {
	SaveLifecycle(ctx context.Context, acc *Account) error
}

type RunnerOptions struct {
	TickInterval   time.Duration
	SyncTimeout    time.Duration
	SyncRetryDelay time.Duration
	Clock          func() time.Time
}

func (o *RunnerOptions) withDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.SyncTimeout <= 0 {
		o.SyncTimeout = 5 * time.Second
	}
	if o.SyncRetryDelay <= 0 {
		o.SyncRetryDelay = 10 * time.Second
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// Runner drives one session: a ticker goroutine advances it and a sync
// goroutine persists the latest snapshot. A slow write never delays a tick.
type Runner struct {
	session *Session
	store   LifecycleStore
	broker  *Broker
	opts    RunnerOptions

	syncSignal chan struct{}
	stopCh     chan struct{}
	wg         sync.WaitGroup
	stopOnce   sync.Once

	syncMu        sync.Mutex
	syncedVersion uint64
	failing       bool
	retry         *time.Timer
}

func NewRunner(session *Session, store LifecycleStore, broker *Broker, opts RunnerOptions) *Runner {
	opts.withDefaults()
	return &Runner{
		session:    session,
		store:      store,
		broker:     broker,
		opts:       opts,
		syncSignal: make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
	}
}

func (r *Runner) Session() *Session {
	return r.session
}

// Start launches the tick and sync loops. The first tick runs immediately.
func (r *Runner) Start() {
	r.wg.Add(2)
	go r.tickLoop()
	go r.syncLoop()
}

func (r *Runner) tickLoop() {
	defer r.wg.Done()

	if r.step(r.opts.Clock()) {
		return
	}

	ticker := time.NewTicker(r.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if r.step(r.opts.Clock()) {
				return
			}
		}
	}
}

// step ticks once and reports whether ticking is over: the car is gone and
// the penalty frozen, or the session is terminal. Syncing carries on.
func (r *Runner) step(now time.Time) bool {
	r.emit(r.session.Tick(now))
	phase := r.session.Phase()
	return phase == PhaseRemovedUnpaid || phase.IsTerminal()
}

func (r *Runner) syncLoop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.stopCh:
			return
		case <-r.syncSignal:
			_ = r.flush(context.Background())
		}
	}
}

// MarkCarRemoved applies the removal at the runner's clock
func (r *Runner) MarkCarRemoved() (Account, error) {
	events, err := r.session.MarkCarRemoved(r.opts.Clock())
	r.emit(events)
	return r.session.Snapshot(), err
}

func (r *Runner) ConfirmPayment() (Account, error) {
	events, err := r.session.ConfirmPayment(r.opts.Clock())
	r.emit(events)
	return r.session.Snapshot(), err
}

func (r *Runner) Cancel() (Account, error) {
	events, err := r.session.Cancel(r.opts.Clock())
	r.emit(events)
	return r.session.Snapshot(), err
}

// Flush writes the latest snapshot now. On failure the write stays queued
// for retry and a PersistenceWriteError is returned.
func (r *Runner) Flush(ctx context.Context) error {
	return r.flush(ctx)
}

// SyncPending reports whether the stored account lags the session
func (r *Runner) SyncPending() bool {
	r.syncMu.Lock()
	defer r.syncMu.Unlock()
	return r.session.Version() > r.syncedVersion
}

func (r *Runner) emit(events []Event) {
	if len(events) == 0 {
		return
	}
	for _, e := range events {
		log := logger.GetDefault()
		switch e.Type {
		case EventPhaseChanged:
			log.LogPhaseChanged(context.Background(), e.UserID, e.BookingID, string(e.From), string(e.To))
		case EventPenaltyAccrued:
			log.LogPenaltyAccrued(context.Background(), e.UserID, e.BookingID, e.PenaltyAmount, e.OvertimeMinutes)
		}
	}
	if r.broker != nil {
		r.broker.Publish(events...)
	}
	r.requestSync()
}

func (r *Runner) requestSync() {
	select {
	case r.syncSignal <- struct{}{}:
	default:
	}
}

func (r *Runner) flush(ctx context.Context) error {
	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	snap, version := r.session.snapshotVersion()
	if version <= r.syncedVersion {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.SyncTimeout)
	defer cancel()

	if err := r.store.SaveLifecycle(ctx, &snap); err != nil {
		werr := &PersistenceWriteError{UserID: snap.UserID, Cause: err}
		r.failing = true
		logger.GetDefault().LogSyncFailure(ctx, snap.UserID, err)

		e := newEvent(EventSyncFailed, &snap, r.opts.Clock())
		e.Error = werr.Error()
		r.publish(e)
		r.scheduleRetry()
		return werr
	}

	r.syncedVersion = version
	if r.failing {
		r.failing = false
		r.publish(newEvent(EventSyncRestored, &snap, r.opts.Clock()))
	}
	return nil
}

// scheduleRetry arms a single retry; callers hold syncMu
func (r *Runner) scheduleRetry() {
	select {
	case <-r.stopCh:
		return
	default:
	}
	if r.retry != nil {
		r.retry.Stop()
	}
	r.retry = time.AfterFunc(r.opts.SyncRetryDelay, r.requestSync)
}

func (r *Runner) publish(e Event) {
	if r.broker != nil {
		r.broker.Publish(e)
	}
}

// Stop halts both loops and flushes the final state
func (r *Runner) Stop(ctx context.Context) error {
	r.halt()
	return r.flush(ctx)
}

// Abandon halts the runner without writing, for a session that has been
// superseded in storage.
func (r *Runner) Abandon() {
	r.halt()
}

func (r *Runner) halt() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.wg.Wait()
		r.syncMu.Lock()
		if r.retry != nil {
			r.retry.Stop()
		}
		r.syncMu.Unlock()
	})
}
