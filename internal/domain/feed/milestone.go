package feed

import "time"

// MilestoneType categorizes a tracked milestone.
type MilestoneType string

const (
	MilestoneBirthday    MilestoneType = "birthday"
	MilestoneAnniversary MilestoneType = "anniversary"
	MilestoneCustom      MilestoneType = "custom"
)

// Milestone is an upcoming or past event a user tracks on the milestones
// tab.
type Milestone struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"ownerId"`
	Title     string        `json:"title"`
	Type      MilestoneType `json:"type"`
	Date      time.Time     `json:"date"`
	CreatedAt time.Time     `json:"createdAt"`
}

// DaysRemaining counts whole days from now (midnight-floored) until the
// milestone date. Past milestones yield a negative count.
func (m Milestone) DaysRemaining(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	diff := m.Date.Sub(today)
	days := int(diff.Hours() / 24)
	if diff > 0 && diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Upcoming reports whether the milestone is today or later.
func (m Milestone) Upcoming(now time.Time) bool {
	return m.DaysRemaining(now) >= 0
}
