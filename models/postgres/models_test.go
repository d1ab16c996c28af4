package postgres_test

import (
	"os"
	"testing"
	"time"

	config "Meeple/config/postgres"
	"Meeple/models/postgres"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func connectTestDB(t *testing.T) *gorm.DB {
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set, skipping database tests")
	}

	db, err := config.ConnectGORM()
	require.NoError(t, err, "Error connecting to PostgreSQL")

	err = config.MigrateDatabase(db)
	require.NoError(t, err, "Error migrating database")

	return db
}

// Helper function to clean up after tests
func cleanupDB(t *testing.T, db *gorm.DB) {
	// Delete records in reverse order of dependencies
	assert.NoError(t, db.Exec("DELETE FROM group_messages").Error)
	assert.NoError(t, db.Exec("DELETE FROM events").Error)
	assert.NoError(t, db.Exec("DELETE FROM group_members").Error)
	assert.NoError(t, db.Exec("DELETE FROM groups").Error)
	assert.NoError(t, db.Exec("DELETE FROM users").Error)
}

func TestUserGroupAndMembership(t *testing.T) {
	db := connectTestDB(t)
	defer cleanupDB(t, db)

	user := postgres.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		FullName:     "Test User",
	}
	err := db.Create(&user).Error
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID, "BeforeCreate should assign an id")

	group := postgres.Group{
		Name:        "Friday Night Games",
		Description: "Weekly board game round",
		CreatedBy:   user.ID,
		LastMessage: []byte("{}"),
	}
	err = db.Create(&group).Error
	assert.NoError(t, err)

	member := postgres.GroupMember{
		GroupID:  group.ID,
		UserID:   user.ID,
		JoinedAt: time.Now(),
	}
	err = db.Create(&member).Error
	assert.NoError(t, err)

	// Test retrieval with preloaded members
	var foundGroup postgres.Group
	err = db.Preload("Members").Where("id = ?", group.ID).First(&foundGroup).Error
	assert.NoError(t, err)
	assert.Equal(t, "Friday Night Games", foundGroup.Name)
	assert.Len(t, foundGroup.Members, 1)
	assert.Equal(t, user.ID, foundGroup.Members[0].UserID)
}

func TestEventJSONColumns(t *testing.T) {
	db := connectTestDB(t)
	defer cleanupDB(t, db)

	user := postgres.User{Username: "host", Email: "host@example.com", PasswordHash: "x"}
	assert.NoError(t, db.Create(&user).Error)

	group := postgres.Group{Name: "Testers", CreatedBy: user.ID, LastMessage: []byte("{}")}
	assert.NoError(t, db.Create(&group).Error)

	event := postgres.Event{
		GroupID:         group.ID,
		Name:            "Game night",
		Datetime:        time.Now().Add(48 * time.Hour),
		Host:            user.ID,
		GameSuggestions: []byte(`[{"name":"Catan","createdBy":"host","createdAt":"2025-06-01T18:00:00Z","voterIds":["u1"]}]`),
		ParticipantIDs:  []byte(`["host"]`),
		Ratings:         []byte(`{}`),
	}
	assert.NoError(t, db.Create(&event).Error)

	var found postgres.Event
	assert.NoError(t, db.Where("id = ?", event.ID).First(&found).Error)
	assert.Equal(t, 0, found.Version)
	assert.JSONEq(t, string(event.GameSuggestions), string(found.GameSuggestions))
	assert.JSONEq(t, `["host"]`, string(found.ParticipantIDs))
}

func TestGroupMessagePersistence(t *testing.T) {
	db := connectTestDB(t)
	defer cleanupDB(t, db)

	user := postgres.User{Username: "sender", Email: "sender@example.com", PasswordHash: "x"}
	assert.NoError(t, db.Create(&user).Error)

	group := postgres.Group{Name: "Chatters", CreatedBy: user.ID, LastMessage: []byte("{}")}
	assert.NoError(t, db.Create(&group).Error)

	message := postgres.GroupMessage{
		GroupID:    group.ID,
		SenderID:   user.ID,
		SenderName: user.Username,
		Content:    "Who brings snacks?",
	}
	assert.NoError(t, db.Create(&message).Error)
	assert.NotEmpty(t, message.ID)

	var found []postgres.GroupMessage
	assert.NoError(t, db.Where("group_id = ?", group.ID).Order("created_at ASC").Find(&found).Error)
	assert.Len(t, found, 1)
	assert.Equal(t, "Who brings snacks?", found[0].Content)
}
