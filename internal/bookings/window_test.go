package bookings

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    string
		timeIn  string
		timeOut string
		wantErr error
	}{
		{"valid", "2026-10-19", "09:00", "11:30", nil},
		{"exactly one hour", "2026-10-19", "09:00", "10:00", nil},
		{"exactly eight hours", "2026-10-19", "08:00", "16:00", nil},
		{"missing time", "2026-10-19", "", "11:00", ErrTimesRequired},
		{"bad date", "19-10-2026", "09:00", "11:00", ErrInvalidDateTime},
		{"bad clock", "2026-10-19", "9am", "11:00", ErrInvalidDateTime},
		{"end before start", "2026-10-19", "11:00", "09:00", ErrEndBeforeStart},
		{"same time", "2026-10-19", "11:00", "11:00", ErrEndBeforeStart},
		{"too short", "2026-10-19", "09:00", "09:59", ErrDurationTooShort},
		{"too long", "2026-10-19", "08:00", "16:01", ErrDurationTooLong},
		{"already over", "2026-10-19", "05:00", "07:00", ErrWindowInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseWindow(tt.date, tt.timeIn, tt.timeOut, time.UTC, now)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, IsWindowError(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, w.End.After(w.Start))
		})
	}
}

func TestParseWindow_UsesLocation(t *testing.T) {
	loc := time.FixedZone("MYT", 8*60*60)

	w, err := ParseWindow("2026-10-19", "09:00", "11:30", loc, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC), w.Start.UTC())
	assert.Equal(t, 150, w.Minutes())
}

func TestParseWindow_StartedButNotEnded(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	_, err := ParseWindow("2026-10-19", "09:00", "11:00", time.UTC, now)
	assert.NoError(t, err)
}

func TestIsWindowError(t *testing.T) {
	assert.False(t, IsWindowError(ErrSlotUnavailable))
	assert.False(t, IsWindowError(nil))
}

func TestDurationLabel(t *testing.T) {
	assert.Equal(t, "", DurationLabel(0))
	assert.Equal(t, "1h", DurationLabel(60))
	assert.Equal(t, "2h 30m", DurationLabel(150))
	assert.Equal(t, "8h", DurationLabel(480))
	assert.Equal(t, "0h 45m", DurationLabel(45))
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusBooked.IsActive())
	assert.True(t, StatusActive.IsActive())
	assert.False(t, StatusCompleted.IsActive())

	assert.True(t, StatusConfirmed.CanReschedule())
	assert.False(t, StatusActive.CanReschedule())

	assert.True(t, StatusCancelled.IsValid())
	assert.False(t, Status("pending").IsValid())
}
