package event

import (
	"fmt"
	"time"
)

const (
	TypeNumbered   = "numbered"
	TypeFightNight = "fight_night"
)

// Event is one fight card. Name plus date forms the natural key used to
// reconcile records across sources.
type Event struct {
	ID        string
	Name      string
	EventDate time.Time
	Venue     string
	City      string
	State     string
	Country   string

	EventType   string
	IsCompleted bool

	UFCID  string
	ESPNID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if e.EventDate.IsZero() {
		return fmt.Errorf("event date is required")
	}

	return nil
}

// IsUpcoming reports whether the card has yet to happen as of now.
func (e Event) IsUpcoming(now time.Time) bool {
	return !e.IsCompleted && e.EventDate.After(now)
}
