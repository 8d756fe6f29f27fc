package penalty

import (
	"errors"
	"time"

	"campuspark/internal/shared/utils/validation"
)

// ScheduledEnd resolves a booking's date and HH:MM end time to an instant in loc
func ScheduledEnd(date, clock string, loc *time.Location) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, &ConfigurationError{Date: date, Time: clock, Cause: errors.New("missing booking date or time")}
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(validation.DateLayout+" "+validation.ClockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, &ConfigurationError{Date: date, Time: clock, Cause: err}
	}
	return t, nil
}
