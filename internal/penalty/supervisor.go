package penalty

import (
	"context"
	"errors"
	"sync"
	"time"

	"campuspark/internal/shared/config"
	"campuspark/pkg/logger"
)

// Supervisor keeps at most one runner per user
type Supervisor struct {
	mu       sync.Mutex
	runners  map[string]*Runner
	repo     Repository
	broker   *Broker
	strategy Strategy
	loc      *time.Location
	opts     RunnerOptions
}

func NewSupervisor(repo Repository, broker *Broker, cfg config.PenaltyConfig) (*Supervisor, error) {
	strategy, err := StrategyByName(cfg.SessionStrategy)
	if err != nil {
		return nil, err
	}
	return &Supervisor{
		runners:  make(map[string]*Runner),
		repo:     repo,
		broker:   broker,
		strategy: strategy,
		loc:      cfg.Location(),
		opts: RunnerOptions{
			TickInterval:   cfg.TickInterval,
			SyncTimeout:    cfg.SyncTimeout,
			SyncRetryDelay: cfg.SyncRetryDelay,
		},
	}, nil
}

// WithClock overrides the runners' clock
func (s *Supervisor) WithClock(clock func() time.Time) *Supervisor {
	s.opts.Clock = clock
	return s
}

func (s *Supervisor) Location() *time.Location {
	return s.loc
}

func (s *Supervisor) Strategy() Strategy {
	return s.strategy
}

// Resume returns the runner for acc, starting one if needed. A runner for an
// older booking of the same user is abandoned: storage already holds the
// newer session.
func (s *Supervisor) Resume(acc Account) (*Runner, error) {
	if acc.UserID == "" {
		return nil, ErrAuthenticationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.runners[acc.UserID]; ok {
		if r.Session().BookingID() == acc.CurrentBookingID {
			return r, nil
		}
		r.Abandon()
		delete(s.runners, acc.UserID)
	}

	if acc.Phase().IsTerminal() {
		return nil, ErrNoActiveSession
	}

	session, err := NewSession(acc, s.loc, s.strategy)
	if err != nil {
		return nil, err
	}

	r := NewRunner(session, s.repo, s.broker, s.opts)
	s.runners[acc.UserID] = r
	r.Start()
	return r, nil
}

// ResumeActive recreates runners for every stored active session, e.g. after
// a restart. Sessions with an unusable schedule are logged and skipped.
func (s *Supervisor) ResumeActive(ctx context.Context) (int, error) {
	accounts, err := s.repo.ListActiveAccounts(ctx)
	if err != nil {
		return 0, err
	}

	resumed := 0
	for _, acc := range accounts {
		if _, err := s.Resume(acc); err != nil {
			var cfgErr *ConfigurationError
			if errors.As(err, &cfgErr) || errors.Is(err, ErrNoActiveSession) {
				logger.GetDefault().WithUserID(acc.UserID).WithError(err).Warn("skipping penalty session on resume")
				continue
			}
			return resumed, err
		}
		resumed++
	}
	return resumed, nil
}

func (s *Supervisor) Runner(userID string) (*Runner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runners[userID]
	return r, ok
}

// Stop flushes the user's runner and halts it. When the flush fails the
// runner stays registered and keeps retrying.
func (s *Supervisor) Stop(ctx context.Context, userID string) error {
	r, ok := s.Runner(userID)
	if !ok {
		return nil
	}
	if err := r.Flush(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if s.runners[userID] == r {
		delete(s.runners, userID)
	}
	s.mu.Unlock()
	return r.Stop(ctx)
}

// Abandon halts the user's runner without writing
func (s *Supervisor) Abandon(userID string) {
	s.mu.Lock()
	r, ok := s.runners[userID]
	delete(s.runners, userID)
	s.mu.Unlock()

	if ok {
		r.Abandon()
	}
}

// Shutdown stops every runner, flushing each
func (s *Supervisor) Shutdown(ctx context.Context) {
	s.mu.Lock()
	runners := s.runners
	s.runners = make(map[string]*Runner)
	s.mu.Unlock()

	for userID, r := range runners {
		if err := r.Stop(ctx); err != nil {
			logger.GetDefault().WithUserID(userID).WithError(err).Error("final penalty flush failed")
		}
	}
}

func (s *Supervisor) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runners)
}
