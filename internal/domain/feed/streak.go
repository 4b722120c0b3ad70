package feed

import "time"

// NextStreak advances an author's posting streak for a post made at now,
// given the time of their previous post. Days are compared by calendar
// day: posting again the same day keeps the streak, posting the next day
// extends it, any gap resets it to 1.
func NextStreak(current int, last, now time.Time) int {
	if last.IsZero() {
		return 1
	}
	if current < 1 {
		current = 1
	}

	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch int(today.Sub(lastDay).Hours() / 24) {
	case 0:
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}
