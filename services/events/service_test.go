package events_test

import (
	"os"
	"testing"
	"time"

	config "Meeple/config/postgres"
	models "Meeple/models/postgres"
	"Meeple/services/events"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeClock lets a test move time past an event's datetime.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func connectServiceTestDB(t *testing.T) *gorm.DB {
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set, skipping database tests")
	}

	db, err := config.ConnectGORM()
	require.NoError(t, err, "Error connecting to PostgreSQL")

	err = config.MigrateDatabase(db)
	require.NoError(t, err, "Error migrating database")

	return db
}

func cleanupServiceDB(t *testing.T, db *gorm.DB) {
	assert.NoError(t, db.Exec("DELETE FROM group_messages").Error)
	assert.NoError(t, db.Exec("DELETE FROM events").Error)
	assert.NoError(t, db.Exec("DELETE FROM group_members").Error)
	assert.NoError(t, db.Exec("DELETE FROM groups").Error)
	assert.NoError(t, db.Exec("DELETE FROM users").Error)
}

// seedGroup creates a group with the given users as members, joined in the
// order they are listed.
func seedGroup(t *testing.T, db *gorm.DB, usernames []string) (string, []string) {
	userIDs := make([]string, len(usernames))
	for i, name := range usernames {
		user := models.User{
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: "x",
		}
		require.NoError(t, db.Create(&user).Error)
		userIDs[i] = user.ID
	}

	group := models.Group{
		Name:        "Game night crew",
		CreatedBy:   userIDs[0],
		LastMessage: []byte("{}"),
	}
	require.NoError(t, db.Create(&group).Error)

	joined := time.Now()
	for i, id := range userIDs {
		member := models.GroupMember{
			GroupID:  group.ID,
			UserID:   id,
			JoinedAt: joined.Add(time.Duration(i) * time.Millisecond),
		}
		require.NoError(t, db.Create(&member).Error)
	}
	return group.ID, userIDs
}

func TestHostRotationAcrossEvents(t *testing.T) {
	db := connectServiceTestDB(t)
	defer cleanupServiceDB(t, db)

	groupID, userIDs := seedGroup(t, db, []string{"alice", "bob", "carol"})
	alice, bob, carol := userIDs[0], userIDs[1], userIDs[2]

	clock := &fakeClock{now: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)}
	svc := &events.Service{DB: db, Clock: clock}

	hostOf := func(eventID string) string {
		var ev models.Event
		require.NoError(t, db.Where("id = ?", eventID).First(&ev).Error)
		return ev.Host
	}

	// First event of the group goes to the first member in joining order.
	e1, err := svc.CreateEvent(groupID, events.CreateEventInput{
		Name:      "Kickoff night",
		Datetime:  clock.Now().Add(7 * 24 * time.Hour),
		CreatedBy: alice,
	})
	require.NoError(t, err)
	assert.Equal(t, alice, hostOf(e1))

	// The rotation advances one member per created event.
	clock.Advance(time.Hour)
	e2, err := svc.CreateEvent(groupID, events.CreateEventInput{
		Name:      "Second night",
		Datetime:  clock.Now().Add(14 * 24 * time.Hour),
		CreatedBy: bob,
	})
	require.NoError(t, err)
	assert.Equal(t, bob, hostOf(e2))

	// When the previous host has left the group, the rotation restarts at
	// the first remaining member.
	require.NoError(t, db.Where("group_id = ? AND user_id = ?", groupID, bob).
		Delete(&models.GroupMember{}).Error)

	clock.Advance(time.Hour)
	e3, err := svc.CreateEvent(groupID, events.CreateEventInput{
		Name:      "Third night",
		Datetime:  clock.Now().Add(21 * 24 * time.Hour),
		CreatedBy: carol,
	})
	require.NoError(t, err)
	assert.Equal(t, alice, hostOf(e3))
}

func TestSuggestionBallotLifecycle(t *testing.T) {
	db := connectServiceTestDB(t)
	defer cleanupServiceDB(t, db)

	groupID, userIDs := seedGroup(t, db, []string{"alice", "carol"})
	alice, carol := userIDs[0], userIDs[1]

	clock := &fakeClock{now: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)}
	svc := &events.Service{DB: db, Clock: clock}

	eventID, err := svc.CreateEvent(groupID, events.CreateEventInput{
		Name:      "Strategy night",
		Datetime:  clock.Now().Add(48 * time.Hour),
		CreatedBy: alice,
	})
	require.NoError(t, err)

	// Propose, reject the case-insensitive duplicate, vote, rank.
	require.NoError(t, svc.SuggestGame(groupID, eventID, alice, "Wingspan", "engine builder"))

	err = svc.SuggestGame(groupID, eventID, carol, "wingspan", "")
	var conflict *events.ConflictError
	assert.ErrorAs(t, err, &conflict)

	require.NoError(t, svc.SuggestGame(groupID, eventID, carol, "Azul", ""))
	require.NoError(t, svc.VoteForGame(groupID, eventID, carol, "Wingspan"))
	// Voting twice is a silent no-op.
	require.NoError(t, svc.VoteForGame(groupID, eventID, carol, "wingspan"))

	ranked, err := svc.RankedSuggestions(groupID, eventID)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Wingspan", ranked[0].Name)
	assert.Equal(t, []string{carol}, ranked[0].VoterIDs)
	assert.Empty(t, ranked[1].VoterIDs)

	// Rating an event that has not happened yet is rejected.
	rating := models.EventRating{Host: 5, Food: 4, General: 5}
	err = svc.SubmitRating(groupID, eventID, carol, rating)
	var state *events.StateError
	assert.ErrorAs(t, err, &state)

	// Once the event's datetime passes, the ballot closes and ratings open.
	clock.Advance(72 * time.Hour)

	err = svc.SuggestGame(groupID, eventID, alice, "Catan", "")
	assert.ErrorAs(t, err, &state)

	err = svc.VoteForGame(groupID, eventID, alice, "Azul")
	assert.ErrorAs(t, err, &state)

	require.NoError(t, svc.SubmitRating(groupID, eventID, carol, rating))

	// Last write per user wins.
	require.NoError(t, svc.SubmitRating(groupID, eventID, carol,
		models.EventRating{Host: 3, Food: 3, General: 3}))

	var ev models.Event
	require.NoError(t, db.Where("id = ?", eventID).First(&ev).Error)
	assert.JSONEq(t,
		`{"`+carol+`":{"host":3,"food":3,"general":3}}`,
		string(ev.Ratings))
}

func TestEventLifecycleErrors(t *testing.T) {
	db := connectServiceTestDB(t)
	defer cleanupServiceDB(t, db)

	groupID, userIDs := seedGroup(t, db, []string{"alice"})
	alice := userIDs[0]

	clock := &fakeClock{now: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)}
	svc := &events.Service{DB: db, Clock: clock}

	var notFound *events.NotFoundError

	// Creating an event in an unknown group fails before any rotation.
	_, err := svc.CreateEvent("11111111-1111-1111-1111-111111111111", events.CreateEventInput{
		Name:      "Nowhere night",
		Datetime:  clock.Now().Add(time.Hour),
		CreatedBy: alice,
	})
	assert.ErrorAs(t, err, &notFound)

	eventID, err := svc.CreateEvent(groupID, events.CreateEventInput{
		Name:      "Solo night",
		Datetime:  clock.Now().Add(time.Hour),
		CreatedBy: alice,
	})
	require.NoError(t, err)

	// Updates merge only the provided fields.
	newName := "Renamed night"
	require.NoError(t, svc.UpdateEvent(groupID, eventID, events.UpdateEventInput{Name: &newName}))

	var ev models.Event
	require.NoError(t, db.Where("id = ?", eventID).First(&ev).Error)
	assert.Equal(t, "Renamed night", ev.Name)
	assert.Equal(t, alice, ev.Host)

	// Deleting twice: the second call reports the event as missing.
	require.NoError(t, svc.DeleteEvent(groupID, eventID))
	err = svc.DeleteEvent(groupID, eventID)
	assert.ErrorAs(t, err, &notFound)

	err = svc.UpdateEvent(groupID, eventID, events.UpdateEventInput{Name: &newName})
	assert.ErrorAs(t, err, &notFound)
}
