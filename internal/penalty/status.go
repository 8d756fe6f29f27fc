package penalty

import (
	"fmt"
	"time"
)

// Status is the passive, display-oriented penalty view of a booking
type Status struct {
	HasPenalty  bool   `json:"has_penalty"`
	Amount      int    `json:"amount"`
	MinutesLate int    `json:"minutes_late"`
	Message     string `json:"message"`
}

// GetStatus evaluates the status-check strategy at now without touching any
// session state.
func GetStatus(end, now time.Time) Status {
	a := StatusCheck{}.Assess(end, now)

	st := Status{
		HasPenalty:  a.Amount > 0,
		Amount:      a.Amount,
		MinutesLate: a.MinutesLate,
	}

	switch {
	case a.Amount > 0:
		st.Message = fmt.Sprintf("Penalty: You are %d minutes late. RM%d penalty applied. Total penalty: RM%d.",
			a.Intervals*intervalMinute+graceMinute, Rate, min(a.Intervals*Rate, MaxPenalty))
	case a.MinutesLate > 0:
		// late but still inside the first chargeable interval after grace
		st.Message = fmt.Sprintf("⏰ You have %d minutes of grace period remaining.", max(graceMinute-a.MinutesLate, 0))
	default:
		st.Message = "✅ No penalties applied"
	}
	return st
}
