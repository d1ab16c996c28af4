package events

import (
	"testing"
	"time"

	models "Meeple/models/postgres"

	"github.com/stretchr/testify/assert"
)

func suggestion(name string, voters ...string) models.GameSuggestion {
	if voters == nil {
		voters = []string{}
	}
	return models.GameSuggestion{
		Name:      name,
		CreatedBy: "alice",
		CreatedAt: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		VoterIDs:  voters,
	}
}

func TestSuggestionNamesAreUniqueCaseInsensitive(t *testing.T) {
	suggestions, err := appendSuggestion(nil, suggestion("Wingspan"))
	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)

	_, err = appendSuggestion(suggestions, suggestion("wingspan"))
	var cerr *ConflictError
	assert.ErrorAs(t, err, &cerr)

	_, err = appendSuggestion(suggestions, suggestion("WINGSPAN"))
	assert.ErrorAs(t, err, &cerr)

	// A different name still goes through
	suggestions, err = appendSuggestion(suggestions, suggestion("Catan"))
	assert.NoError(t, err)
	assert.Len(t, suggestions, 2)
}

func TestVoteIsIdempotent(t *testing.T) {
	suggestions := []models.GameSuggestion{suggestion("Catan")}

	changed, err := applyVote(suggestions, "carol", "Catan")
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"carol"}, suggestions[0].VoterIDs)

	changed, err = applyVote(suggestions, "carol", "Catan")
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, suggestions[0].VoterIDs, 1)
}

func TestVoteMatchesNameCaseInsensitively(t *testing.T) {
	suggestions := []models.GameSuggestion{suggestion("Wingspan")}

	changed, err := applyVote(suggestions, "carol", "wingSPAN")
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"carol"}, suggestions[0].VoterIDs)
}

func TestVoteForUnknownGameFails(t *testing.T) {
	suggestions := []models.GameSuggestion{suggestion("Catan")}

	_, err := applyVote(suggestions, "carol", "Azul")
	var nerr *NotFoundError
	assert.ErrorAs(t, err, &nerr)
}

func TestRankingIsStableOnTies(t *testing.T) {
	suggestions := []models.GameSuggestion{
		suggestion("A", "u1", "u2"),
		suggestion("B", "u3", "u4"),
		suggestion("C", "u5"),
	}

	ranked := RankSuggestions(suggestions)
	assert.Equal(t, "A", ranked[0].Name)
	assert.Equal(t, "B", ranked[1].Name)
	assert.Equal(t, "C", ranked[2].Name)

	// Input order is not disturbed
	assert.Equal(t, "A", suggestions[0].Name)
}

func TestRankingSortsByDescendingVotes(t *testing.T) {
	suggestions := []models.GameSuggestion{
		suggestion("C", "u5"),
		suggestion("A", "u1", "u2", "u3"),
		suggestion("B", "u4", "u6"),
	}

	ranked := RankSuggestions(suggestions)
	assert.Equal(t, []string{"A", "B", "C"}, []string{ranked[0].Name, ranked[1].Name, ranked[2].Name})
}

func TestRatingScoresMustBeOneToFive(t *testing.T) {
	assert.NoError(t, validateRating(models.EventRating{Host: 1, Food: 3, General: 5}))

	var verr *ValidationError
	assert.ErrorAs(t, validateRating(models.EventRating{Host: 0, Food: 3, General: 3}), &verr)
	assert.ErrorAs(t, validateRating(models.EventRating{Host: 3, Food: 6, General: 3}), &verr)
	assert.ErrorAs(t, validateRating(models.EventRating{Host: 3, Food: 3, General: -1}), &verr)
}

func TestUpcomingBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	assert.True(t, Upcoming(now, now.Add(time.Hour)))
	// An event starting exactly now still counts as upcoming
	assert.True(t, Upcoming(now, now))
	assert.False(t, Upcoming(now, now.Add(-time.Minute)))
}

func TestDecodeSuggestionsFailsFastOnMalformedColumn(t *testing.T) {
	ev := &models.Event{ID: "e1", GameSuggestions: []byte(`{"not":"an array"}`)}

	_, err := decodeSuggestions(ev)
	var nerr *NotFoundError
	assert.ErrorAs(t, err, &nerr)

	ev.GameSuggestions = []byte(`[]`)
	suggestions, err := decodeSuggestions(ev)
	assert.NoError(t, err)
	assert.Empty(t, suggestions)
}
