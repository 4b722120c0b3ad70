package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeMinutes(t *testing.T) {
	cases := []struct {
		timestamp string
		want      int
	}{
		{"2h ago", 120},
		{"5h ago", 300},
		{"1d ago", 1440},
		{"3d ago", 4320},
		{"now", 0},
		{"just now", 0},
		{"", 0},
		{"h ago", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RelativeMinutes(tc.timestamp), "timestamp %q", tc.timestamp)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "now", Relative(now.Add(-30*time.Minute), now))
	assert.Equal(t, "2h ago", Relative(now.Add(-2*time.Hour), now))
	assert.Equal(t, "1d ago", Relative(now.Add(-24*time.Hour), now))
	assert.Equal(t, "3d ago", Relative(now.Add(-80*time.Hour), now))
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, NextStreak(0, time.Time{}, now), "first post starts the streak")
	assert.Equal(t, 3, NextStreak(3, now.Add(-2*time.Hour), now), "same-day post keeps it")
	assert.Equal(t, 4, NextStreak(3, now.AddDate(0, 0, -1), now), "next-day post extends it")
	assert.Equal(t, 1, NextStreak(7, now.AddDate(0, 0, -3), now), "a gap resets it")
	assert.Equal(t, 2, NextStreak(0, now.AddDate(0, 0, -1), now), "corrupt zero streak is floored before extending")
}

func TestMilestoneDaysRemaining(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 30, 0, 0, time.UTC)

	sameDay := Milestone{Date: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 0, sameDay.DaysRemaining(now))
	assert.True(t, sameDay.Upcoming(now))

	nextWeek := Milestone{Date: time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 7, nextWeek.DaysRemaining(now))

	past := Milestone{Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, -10, past.DaysRemaining(now))
	assert.False(t, past.Upcoming(now))
}
