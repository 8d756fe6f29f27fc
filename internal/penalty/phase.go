package penalty

type Phase string

const (
	PhaseScheduled     Phase = "SCHEDULED"
	PhaseOvertime      Phase = "OVERTIME"
	PhaseRemovedUnpaid Phase = "REMOVED_UNPAID"
	PhaseComplete      Phase = "COMPLETE"
)

func (p Phase) IsTerminal() bool {
	return p == PhaseComplete
}

// Phase derives the lifecycle phase from the account flags. Order matters:
// a paid account is complete even if its other flags are stale.
func (a *Account) Phase() Phase {
	switch {
	case a.IsPaid:
		return PhaseComplete
	case a.CarRemoved && a.PenaltyAmount > 0:
		return PhaseRemovedUnpaid
	case a.CarRemoved:
		return PhaseComplete
	case !a.IsSessionActive:
		return PhaseComplete
	case a.IsInOvertime:
		return PhaseOvertime
	default:
		return PhaseScheduled
	}
}
