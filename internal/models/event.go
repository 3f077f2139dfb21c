package models

import (
	"fmt"
	"time"
)

// Event owns zero or more guests.
type Event struct {
	ID              string    `json:"id,omitempty"`
	Name            string    `json:"name"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Location        string    `json:"location"`
	Capacity        int       `json:"capacity"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	SongURL         string    `json:"songUrl,omitempty"`
	SecondaryImages []string  `json:"secondaryImages"`
	IsActive        bool      `json:"isActive"`
	Type            EventType `json:"type,omitempty"`
}

// EventType marks whether an event's page is publicly reachable.
type EventType string

const (
	EventPublic  EventType = "public"
	EventPrivate EventType = "private"
)

// StartsAt combines the Date and Time fields ("2006-01-02" and "15:04").
func (e Event) StartsAt() (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, time.Local)
}

// Validate checks the fields required to create an event. The future-date
// rule is enforced here only; existing events are never re-validated.
func (e Event) Validate(now time.Time) error {
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if e.Location == "" {
		return fmt.Errorf("event location is required")
	}
	if e.Capacity < 0 {
		return fmt.Errorf("event capacity must not be negative")
	}
	starts, err := e.StartsAt()
	if err != nil {
		return fmt.Errorf("invalid event date/time: %w", err)
	}
	if !starts.After(now) {
		return fmt.Errorf("event date must be in the future")
	}
	return nil
}
