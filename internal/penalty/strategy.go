package penalty

import (
	"fmt"
	"time"
)

const (
	Rate           = 10 // RM per interval
	Interval       = 5 * time.Minute
	GracePeriod    = 5 * time.Minute
	MaxPenalty     = 30 // RM, status-check only
	intervalMinute = int(Interval / time.Minute)
	graceMinute    = int(GracePeriod / time.Minute)
)

const (
	StrategyLiveSession = "live-session"
	StrategyStatusCheck = "status-check"
)

// Assessment is the result of applying a strategy at an instant
type Assessment struct {
	MinutesLate int
	Amount      int
	Intervals   int
}

// Strategy computes the overtime penalty for a session that ended at end
type Strategy interface {
	Name() string
	Assess(end, now time.Time) Assessment
}

// LiveSession charges Rate for every full Interval past end. No grace, no cap.
type LiveSession struct{}

func (LiveSession) Name() string { return StrategyLiveSession }

func (LiveSession) Assess(end, now time.Time) Assessment {
	late := MinutesLate(end, now)
	intervals := late / intervalMinute
	return Assessment{MinutesLate: late, Amount: intervals * Rate, Intervals: intervals}
}

// StatusCheck waives the first GracePeriod, then charges Rate per Interval
// up to MaxPenalty.
type StatusCheck struct{}

func (StatusCheck) Name() string { return StrategyStatusCheck }

func (StatusCheck) Assess(end, now time.Time) Assessment {
	late := MinutesLate(end, now)
	if late <= graceMinute {
		return Assessment{MinutesLate: late}
	}
	intervals := (late - graceMinute) / intervalMinute
	return Assessment{
		MinutesLate: late,
		Amount:      min(intervals*Rate, MaxPenalty),
		Intervals:   intervals,
	}
}

// MinutesLate is max(0, floor((now-end)/1m))
func MinutesLate(end, now time.Time) int {
	d := now.Sub(end)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// StrategyByName resolves a configured strategy name
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case StrategyLiveSession, "":
		return LiveSession{}, nil
	case StrategyStatusCheck:
		return StatusCheck{}, nil
	default:
		return nil, fmt.Errorf("unknown penalty strategy %q", name)
	}
}
