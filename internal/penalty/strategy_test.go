package penalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnd = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func late(d time.Duration) time.Time {
	return testEnd.Add(d)
}

func TestMinutesLate(t *testing.T) {
	assert.Equal(t, 0, MinutesLate(testEnd, late(-30*time.Minute)))
	assert.Equal(t, 0, MinutesLate(testEnd, testEnd))
	assert.Equal(t, 0, MinutesLate(testEnd, late(59*time.Second)))
	assert.Equal(t, 7, MinutesLate(testEnd, late(7*time.Minute+30*time.Second)))
}

func TestLiveSession_Assess(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		amount int
	}{
		{"before end", late(-time.Minute), 0},
		{"inside first interval", late(4*time.Minute + 59*time.Second), 0},
		{"first interval", late(5 * time.Minute), 10},
		{"three intervals", late(17 * time.Minute), 30},
		{"never capped", late(60 * time.Minute), 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := LiveSession{}.Assess(testEnd, tt.now)
			assert.Equal(t, tt.amount, a.Amount)
			assert.Equal(t, tt.amount/Rate, a.Intervals)
		})
	}
}

func TestStatusCheck_Assess(t *testing.T) {
	tests := []struct {
		name   string
		late   time.Duration
		amount int
	}{
		{"on time", 0, 0},
		{"inside grace", 5 * time.Minute, 0},
		{"after grace before interval", 9 * time.Minute, 0},
		{"one interval", 10 * time.Minute, 10},
		{"two intervals", 15 * time.Minute, 20},
		{"three intervals", 20 * time.Minute, 30},
		{"capped", 90 * time.Minute, MaxPenalty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := StatusCheck{}.Assess(testEnd, late(tt.late))
			assert.Equal(t, tt.amount, a.Amount)
			assert.Equal(t, int(tt.late/time.Minute), a.MinutesLate)
		})
	}
}

func TestStrategyByName(t *testing.T) {
	s, err := StrategyByName("")
	require.NoError(t, err)
	assert.Equal(t, StrategyLiveSession, s.Name())

	s, err = StrategyByName(StrategyStatusCheck)
	require.NoError(t, err)
	assert.Equal(t, StrategyStatusCheck, s.Name())

	_, err = StrategyByName("hourly")
	assert.Error(t, err)
}
