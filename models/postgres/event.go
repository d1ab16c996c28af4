package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'Event' defines the structure of a group event. Game suggestions, the
 * participant list and per-user ratings live in jsonb columns with the same
 * shape the mobile client stores, so one row mirrors one event document.
 * The version column guards read-modify-write cycles on the jsonb fields.
 */
type Event struct {
	ID              string         `gorm:"primaryKey;size:50;not null"`
	GroupID         string         `gorm:"size:50;not null;index:idx_events_group"`
	Name            string         `gorm:"size:100;not null"`
	Description     string         `gorm:"size:500"`
	Location        string         `gorm:"size:200"`
	Datetime        time.Time      `gorm:"not null;index:idx_events_datetime"`
	Host            string         `gorm:"size:50;not null"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
	GameSuggestions datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	ParticipantIDs  datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	Ratings         datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Version         int            `gorm:"default:0;not null"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// GameSuggestion is one entry of Event.GameSuggestions. Names are unique per
// event, compared case-insensitively.
type GameSuggestion struct {
	Name        string    `json:"name"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	Description string    `json:"description,omitempty"`
	VoterIDs    []string  `json:"voterIds"`
}

// EventRating is one value of the Event.Ratings map (keyed by user id).
// Every score is an integer in 1..5.
type EventRating struct {
	Host    int `json:"host"`
	Food    int `json:"food"`
	General int `json:"general"`
}
