package feed

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Author is the display identity attached to a post.
type Author struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Streak   int    `json:"streak,omitempty"`
}

// Post is one mood update in the circle feed. Timestamp is the relative
// display string ("2h ago", "1d ago") and doubles as the sort key.
type Post struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"authorId"`
	Author         Author    `json:"author"`
	MoodEmoji      string    `json:"moodEmoji"`
	JournalSnippet string    `json:"journalSnippet,omitempty"`
	Timestamp      string    `json:"timestamp"`
	CommentCount   int       `json:"commentCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RelativeMinutes converts a relative timestamp string to its
// minutes-equivalent for ordering: "<N>h ago" is N*60, "<N>d ago" is
// N*1440, anything else is 0.
func RelativeMinutes(timestamp string) int {
	digits := timestamp
	for i := 0; i < len(timestamp); i++ {
		if timestamp[i] < '0' || timestamp[i] > '9' {
			digits = timestamp[:i]
			break
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	switch {
	case strings.Contains(timestamp, "h"):
		return n * 60
	case strings.Contains(timestamp, "d"):
		return n * 24 * 60
	}
	return 0
}

// Relative renders a creation time as the feed's display string.
func Relative(createdAt, now time.Time) string {
	d := now.Sub(createdAt)
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return "now"
	}
}
