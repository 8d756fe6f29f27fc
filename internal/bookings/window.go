package bookings

import (
	"errors"
	"fmt"
	"time"

	"campuspark/internal/shared/utils/validation"
)

const (
	MinDuration = 60 * time.Minute
	MaxDuration = 480 * time.Minute
)

var (
	ErrInvalidDateTime  = errors.New("invalid booking date or time")
	ErrTimesRequired    = errors.New("Both start and end times are required")
	ErrEndBeforeStart   = errors.New("End time must be after start time")
	ErrDurationTooShort = errors.New("Minimum booking duration is 1 hour")
	ErrDurationTooLong  = errors.New("Maximum booking duration is 8 hours")
	ErrWindowInPast     = errors.New("Booking end time has already passed")
)

// Window is a booking's date and HH:MM range resolved in the campus zone
type Window struct {
	Date    string
	TimeIn  string
	TimeOut string
	Start   time.Time
	End     time.Time
}

// ParseWindow resolves and validates a same-day booking window. The end
// must not already be past at now.
func ParseWindow(date, timeIn, timeOut string, loc *time.Location, now time.Time) (Window, error) {
	if timeIn == "" || timeOut == "" {
		return Window{}, ErrTimesRequired
	}
	start, err := time.ParseInLocation(validation.DateLayout+" "+validation.ClockLayout, date+" "+timeIn, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: start %s %s: %v", ErrInvalidDateTime, date, timeIn, err)
	}
	end, err := time.ParseInLocation(validation.DateLayout+" "+validation.ClockLayout, date+" "+timeOut, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: end %s %s: %v", ErrInvalidDateTime, date, timeOut, err)
	}

	w := Window{Date: date, TimeIn: timeIn, TimeOut: timeOut, Start: start, End: end}
	switch d := w.Duration(); {
	case d <= 0:
		return Window{}, ErrEndBeforeStart
	case d < MinDuration:
		return Window{}, ErrDurationTooShort
	case d > MaxDuration:
		return Window{}, ErrDurationTooLong
	}
	if !end.After(now) {
		return Window{}, ErrWindowInPast
	}
	return w, nil
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) Minutes() int {
	return int(w.Duration() / time.Minute)
}

// IsWindowError reports whether err came from window validation
func IsWindowError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidDateTime),
		errors.Is(err, ErrTimesRequired),
		errors.Is(err, ErrEndBeforeStart),
		errors.Is(err, ErrDurationTooShort),
		errors.Is(err, ErrDurationTooLong),
		errors.Is(err, ErrWindowInPast):
		return true
	}
	return false
}

// DurationLabel formats minutes as "2h 30m", or "2h" on the hour.
func DurationLabel(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
