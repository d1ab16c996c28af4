package events

import (
	"encoding/json"
	"errors"
	"time"

	models "Meeple/models/postgres"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/*
 * 'Service' is the event scheduling core: event lifecycle (create with host
 * rotation, list, update, delete) plus the suggestion ballot and rating
 * submission in ballot.go. Controllers own HTTP concerns; this package owns
 * the invariants.
 */
type Service struct {
	DB    *gorm.DB
	Clock Clock
}

// NewService builds a Service on the real wall clock.
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, Clock: SystemClock()}
}

// CreateEventInput carries the user-provided fields of a new event. Host,
// creation timestamp and the participant list are assigned by the core.
type CreateEventInput struct {
	Name        string
	Datetime    time.Time
	Location    string
	Description string
	CreatedBy   string
}

// UpdateEventInput merges only the fields that are non-nil. Host, createdAt
// and participantIds are not writable through updates; suggestions and
// ratings have their own operations.
type UpdateEventInput struct {
	Name     *string
	Location *string
	Datetime *time.Time
}

// CreateEvent assigns the next host in the group's rotation and persists the
// event. The group row is locked for the duration of the transaction so two
// concurrent creations on the same group cannot both read the same prior
// event and compute the same host.
func (s *Service) CreateEvent(groupID string, in CreateEventInput) (string, error) {
	if in.Name == "" || in.Datetime.IsZero() {
		return "", &ValidationError{Reason: "event name and datetime are required"}
	}
	if in.CreatedBy == "" {
		return "", &ValidationError{Reason: "event creator is required"}
	}

	var eventID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", groupID).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "group", ID: groupID}
			}
			return &PersistenceError{Op: "load group", Err: err}
		}

		memberIDs, err := stableMemberIDs(tx, groupID)
		if err != nil {
			return err
		}
		if len(memberIDs) == 0 {
			return &NotFoundError{Resource: "group with members", ID: groupID}
		}

		lastHost, err := mostRecentHost(tx, groupID)
		if err != nil {
			return err
		}

		host, err := ResolveNextHost(memberIDs, lastHost)
		if err != nil {
			return err
		}

		participants, err := json.Marshal([]string{in.CreatedBy})
		if err != nil {
			return &PersistenceError{Op: "encode participants", Err: err}
		}

		event := models.Event{
			GroupID:         groupID,
			Name:            in.Name,
			Description:     in.Description,
			Location:        in.Location,
			Datetime:        in.Datetime,
			Host:            host,
			CreatedAt:       s.Clock.Now(),
			GameSuggestions: []byte("[]"),
			ParticipantIDs:  participants,
			Ratings:         []byte("{}"),
		}
		if err := tx.Create(&event).Error; err != nil {
			return &PersistenceError{Op: "create event", Err: err}
		}

		eventID = event.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return eventID, nil
}

// ListGroupEvents returns all events of one group ordered by datetime
// ascending, the order the group details screen shows them in.
func (s *Service) ListGroupEvents(groupID string) ([]models.Event, error) {
	var evs []models.Event
	if err := s.DB.Where("group_id = ?", groupID).
		Order("datetime ASC").Find(&evs).Error; err != nil {
		return nil, &PersistenceError{Op: "list group events", Err: err}
	}
	return evs, nil
}

// ListAllEvents returns every event across all groups for the global events
// feed. No ordering guarantee; callers re-sort as needed.
func (s *Service) ListAllEvents() ([]models.Event, error) {
	var evs []models.Event
	if err := s.DB.Find(&evs).Error; err != nil {
		return nil, &PersistenceError{Op: "list all events", Err: err}
	}
	return evs, nil
}

// UpdateEvent merges the provided fields into the event. Only name, location
// and datetime are reachable through this path.
func (s *Service) UpdateEvent(groupID, eventID string, in UpdateEventInput) error {
	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return &ValidationError{Reason: "event name cannot be empty"}
		}
		updates["name"] = *in.Name
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Datetime != nil {
		if in.Datetime.IsZero() {
			return &ValidationError{Reason: "event datetime cannot be zero"}
		}
		updates["datetime"] = *in.Datetime
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.DB.Model(&models.Event{}).
		Where("id = ? AND group_id = ?", eventID, groupID).
		Updates(updates)
	if res.Error != nil {
		return &PersistenceError{Op: "update event", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "event", ID: eventID}
	}
	return nil
}

// DeleteEvent removes the event permanently. Deleting an event that does not
// exist is reported as NotFoundError, consistent with the rest of the API.
func (s *Service) DeleteEvent(groupID, eventID string) error {
	res := s.DB.Where("id = ? AND group_id = ?", eventID, groupID).
		Delete(&models.Event{})
	if res.Error != nil {
		return &PersistenceError{Op: "delete event", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "event", ID: eventID}
	}
	return nil
}

// stableMemberIDs returns the group's member ids in the fixed order the host
// rotation is defined over.
func stableMemberIDs(tx *gorm.DB, groupID string) ([]string, error) {
	var ids []string
	if err := tx.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("joined_at ASC, user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, &PersistenceError{Op: "load group members", Err: err}
	}
	return ids, nil
}

// mostRecentHost returns the host of the group's most recently created
// event, or "" when the group has no events yet.
func mostRecentHost(tx *gorm.DB, groupID string) (string, error) {
	var prior []models.Event
	if err := tx.Where("group_id = ?", groupID).
		Order("created_at DESC").Limit(1).Find(&prior).Error; err != nil {
		return "", &PersistenceError{Op: "load previous event", Err: err}
	}
	if len(prior) == 0 {
		return "", nil
	}
	return prior[0].Host, nil
}

func (s *Service) loadEvent(groupID, eventID string) (*models.Event, error) {
	var ev models.Event
	if err := s.DB.Where("id = ? AND group_id = ?", eventID, groupID).
		First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "event", ID: eventID}
		}
		return nil, &PersistenceError{Op: "load event", Err: err}
	}
	return &ev, nil
}
