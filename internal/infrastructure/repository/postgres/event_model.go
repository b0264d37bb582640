package postgres

import (
	"time"

	"github.com/prasetyowira/fightcast/internal/domain/event"
)

type eventTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	EventDate   time.Time `db:"event_date"`
	Venue       string    `db:"venue"`
	City        string    `db:"city"`
	State       string    `db:"state"`
	Country     string    `db:"country"`
	EventType   string    `db:"event_type"`
	IsCompleted bool      `db:"is_completed"`
	UFCID       string    `db:"ufc_id"`
	ESPNID      string    `db:"espn_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type eventInsertModel struct {
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	EventDate   time.Time `db:"event_date"`
	Venue       string    `db:"venue"`
	City        string    `db:"city"`
	State       string    `db:"state"`
	Country     string    `db:"country"`
	EventType   string    `db:"event_type"`
	IsCompleted bool      `db:"is_completed"`
	UFCID       string    `db:"ufc_id"`
	ESPNID      string    `db:"espn_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func eventInsertFromDomain(e *event.Event) eventInsertModel {
	return eventInsertModel{
		PublicID:    e.ID,
		Name:        e.Name,
		EventDate:   e.EventDate,
		Venue:       e.Venue,
		City:        e.City,
		State:       e.State,
		Country:     e.Country,
		EventType:   e.EventType,
		IsCompleted: e.IsCompleted,
		UFCID:       e.UFCID,
		ESPNID:      e.ESPNID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (m eventTableModel) toDomain() *event.Event {
	return &event.Event{
		ID:          m.PublicID,
		Name:        m.Name,
		EventDate:   m.EventDate,
		Venue:       m.Venue,
		City:        m.City,
		State:       m.State,
		Country:     m.Country,
		EventType:   m.EventType,
		IsCompleted: m.IsCompleted,
		UFCID:       m.UFCID,
		ESPNID:      m.ESPNID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
