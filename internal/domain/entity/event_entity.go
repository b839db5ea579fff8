package entity

import (
	"regexp"
	"time"
)

// Event is a calendar entry owned by exactly one user.
// OwnerID is assigned from the verified token subject on creation and never changes.
type Event struct {
	ID          string    `json:"_id"`
	Name        string    `json:"nameEvent"`
	Date        time.Time `json:"fecha"`
	Time        string    `json:"hora"`
	Location    string    `json:"ubicacion"`
	Description string    `json:"descripcion"`
	OwnerID     string    `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const EventDateLayout = "2006-01-02"

// ParseEventDate accepts a calendar date (YYYY-MM-DD) or a full RFC3339 timestamp.
func ParseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(EventDateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

var eventTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidEventTime reports whether s is a 24h HH:MM clock time.
func ValidEventTime(s string) bool {
	return eventTimeRe.MatchString(s)
}
