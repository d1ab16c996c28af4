package events

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	models "Meeple/models/postgres"
)

// Number of compare-and-swap attempts before a jsonb mutation gives up.
const casAttempts = 3

/*
 * Suggestion ballot: members of a group propose games for an upcoming event
 * and vote on them. Both mutations are gated on the event still being
 * upcoming (datetime >= now). The suggestions array is rewritten as a whole,
 * guarded by the event's version column so concurrent writers cannot drop
 * each other's entries.
 */

// SuggestGame appends a new game suggestion to an upcoming event. Suggestion
// names are unique per event, compared case-insensitively.
func (s *Service) SuggestGame(groupID, eventID, proposerID, name, description string) error {
	if name == "" {
		return &ValidationError{Reason: "game name is required"}
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		ev, err := s.loadEvent(groupID, eventID)
		if err != nil {
			return err
		}
		if !Upcoming(s.Clock.Now(), ev.Datetime) {
			return &StateError{Reason: "event is not upcoming, games can no longer be suggested"}
		}

		suggestions, err := decodeSuggestions(ev)
		if err != nil {
			return err
		}

		next, err := appendSuggestion(suggestions, models.GameSuggestion{
			Name:        name,
			CreatedBy:   proposerID,
			CreatedAt:   s.Clock.Now(),
			Description: description,
			VoterIDs:    []string{},
		})
		if err != nil {
			return err
		}

		done, err := s.storeSuggestions(ev, next)
		if err != nil || done {
			return err
		}
		// Lost the version race, reload and retry.
	}
	return &PersistenceError{Op: "suggest game", Err: errVersionContention}
}

// VoteForGame adds the voter to a suggestion, located by case-insensitive
// name. Voting twice is a no-op, not an error.
func (s *Service) VoteForGame(groupID, eventID, voterID, name string) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		ev, err := s.loadEvent(groupID, eventID)
		if err != nil {
			return err
		}
		if !Upcoming(s.Clock.Now(), ev.Datetime) {
			return &StateError{Reason: "event is not upcoming, voting is closed"}
		}

		suggestions, err := decodeSuggestions(ev)
		if err != nil {
			return err
		}

		changed, err := applyVote(suggestions, voterID, name)
		if err != nil {
			return err
		}
		if !changed {
			// Already voted.
			return nil
		}

		done, err := s.storeSuggestions(ev, suggestions)
		if err != nil || done {
			return err
		}
	}
	return &PersistenceError{Op: "vote for game", Err: errVersionContention}
}

// SubmitRating stores the user's rating for a past event, overwriting any
// previous rating by the same user.
func (s *Service) SubmitRating(groupID, eventID, userID string, rating models.EventRating) error {
	if err := validateRating(rating); err != nil {
		return err
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		ev, err := s.loadEvent(groupID, eventID)
		if err != nil {
			return err
		}
		if Upcoming(s.Clock.Now(), ev.Datetime) {
			return &StateError{Reason: "event has not taken place yet, it cannot be rated"}
		}

		ratings, err := decodeRatings(ev)
		if err != nil {
			return err
		}
		ratings[userID] = rating

		raw, err := json.Marshal(ratings)
		if err != nil {
			return &PersistenceError{Op: "encode ratings", Err: err}
		}

		res := s.DB.Model(&models.Event{}).
			Where("id = ? AND group_id = ? AND version = ?", ev.ID, ev.GroupID, ev.Version).
			Updates(map[string]interface{}{"ratings": raw, "version": ev.Version + 1})
		if res.Error != nil {
			return &PersistenceError{Op: "store ratings", Err: res.Error}
		}
		if res.RowsAffected > 0 {
			return nil
		}
	}
	return &PersistenceError{Op: "submit rating", Err: errVersionContention}
}

// RankedSuggestions returns the event's suggestions sorted for display.
func (s *Service) RankedSuggestions(groupID, eventID string) ([]models.GameSuggestion, error) {
	ev, err := s.loadEvent(groupID, eventID)
	if err != nil {
		return nil, err
	}
	suggestions, err := decodeSuggestions(ev)
	if err != nil {
		return nil, err
	}
	return RankSuggestions(suggestions), nil
}

// RankSuggestions sorts by descending vote count. The sort is stable, so
// ties keep their proposal order.
func RankSuggestions(suggestions []models.GameSuggestion) []models.GameSuggestion {
	ranked := make([]models.GameSuggestion, len(suggestions))
	copy(ranked, suggestions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i].VoterIDs) > len(ranked[j].VoterIDs)
	})
	return ranked
}

// appendSuggestion enforces the case-insensitive name uniqueness invariant.
func appendSuggestion(suggestions []models.GameSuggestion, s models.GameSuggestion) ([]models.GameSuggestion, error) {
	for _, existing := range suggestions {
		if strings.EqualFold(existing.Name, s.Name) {
			return nil, &ConflictError{Reason: "this game was already proposed"}
		}
	}
	return append(suggestions, s), nil
}

// applyVote registers voterID on the named suggestion. Returns false when
// the voter already voted (idempotent success).
func applyVote(suggestions []models.GameSuggestion, voterID, name string) (bool, error) {
	for i := range suggestions {
		if !strings.EqualFold(suggestions[i].Name, name) {
			continue
		}
		for _, v := range suggestions[i].VoterIDs {
			if v == voterID {
				return false, nil
			}
		}
		suggestions[i].VoterIDs = append(suggestions[i].VoterIDs, voterID)
		return true, nil
	}
	return false, &NotFoundError{Resource: "game suggestion", ID: name}
}

func validateRating(r models.EventRating) error {
	for _, score := range []int{r.Host, r.Food, r.General} {
		if score < 1 || score > 5 {
			return &ValidationError{Reason: "rating scores must be between 1 and 5"}
		}
	}
	return nil
}

// storeSuggestions writes the whole suggestions array back, conditional on
// the version the caller read. Returns done=false when another writer got
// there first.
func (s *Service) storeSuggestions(ev *models.Event, suggestions []models.GameSuggestion) (bool, error) {
	raw, err := json.Marshal(suggestions)
	if err != nil {
		return false, &PersistenceError{Op: "encode suggestions", Err: err}
	}

	res := s.DB.Model(&models.Event{}).
		Where("id = ? AND group_id = ? AND version = ?", ev.ID, ev.GroupID, ev.Version).
		Updates(map[string]interface{}{"game_suggestions": raw, "version": ev.Version + 1})
	if res.Error != nil {
		return false, &PersistenceError{Op: "store suggestions", Err: res.Error}
	}
	return res.RowsAffected > 0, nil
}

// decodeSuggestions validates the jsonb column at the store boundary. A
// malformed column is reported like a missing event, the caller cannot act
// on it either way.
func decodeSuggestions(ev *models.Event) ([]models.GameSuggestion, error) {
	if len(ev.GameSuggestions) == 0 {
		return []models.GameSuggestion{}, nil
	}
	var suggestions []models.GameSuggestion
	if err := json.Unmarshal(ev.GameSuggestions, &suggestions); err != nil {
		return nil, &NotFoundError{Resource: "event suggestions", ID: ev.ID}
	}
	return suggestions, nil
}

func decodeRatings(ev *models.Event) (map[string]models.EventRating, error) {
	ratings := map[string]models.EventRating{}
	if len(ev.Ratings) == 0 {
		return ratings, nil
	}
	if err := json.Unmarshal(ev.Ratings, &ratings); err != nil {
		return nil, &NotFoundError{Resource: "event ratings", ID: ev.ID}
	}
	return ratings, nil
}

var errVersionContention = errors.New("gave up after repeated concurrent updates")
