package redis

import (
	"os"
	"testing"
	"time"

	models "Meeple/models/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOperations(t *testing.T) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		t.Skip("REDIS_URL not set, skipping Redis tests")
	}

	rc, err := InitRedis(addr, 0)
	require.NoError(t, err, "Failed to initialize Redis")
	defer CloseRedis(rc)

	const (
		groupID = "test_group_123"
		alice   = "test_user_alice"
		bob     = "test_user_bob"
	)

	// Helper function to clean Redis data between subtests
	cleanupRedis := func() {
		keys := []string{
			formatUnreadKey(groupID, alice),
			formatUnreadKey(groupID, bob),
			formatLastMessageKey(groupID),
		}
		require.NoError(t, rc.CleanupKeys(keys), "Failed to cleanup Redis keys")
	}

	t.Run("Unread counter operations", func(t *testing.T) {
		cleanupRedis()

		// A counter that was never written counts as zero
		count, err := rc.GetUnreadCount(groupID, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)

		// Two messages for alice and bob, one more for bob only
		require.NoError(t, rc.IncrementUnread(groupID, []string{alice, bob}))
		require.NoError(t, rc.IncrementUnread(groupID, []string{alice, bob}))
		require.NoError(t, rc.IncrementUnread(groupID, []string{bob}))

		count, err = rc.GetUnreadCount(groupID, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)

		// Only the listed users are bumped, so a sender filtered out by the
		// caller never sees their own message as unread
		count, err = rc.GetUnreadCount(groupID, bob)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)

		// Opening the chat clears the counter back to zero
		require.NoError(t, rc.ResetUnread(groupID, alice))
		count, err = rc.GetUnreadCount(groupID, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)

		count, err = rc.GetUnreadCount(groupID, bob)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("Last message cache round-trip", func(t *testing.T) {
		cleanupRedis()

		// Nothing cached yet
		cached, err := rc.GetLastMessage(groupID)
		assert.NoError(t, err)
		assert.Nil(t, cached)

		msg := &models.LastMessageInfo{
			SenderID:   alice,
			SenderName: "alice",
			Content:    "Who brings snacks?",
			CreatedAt:  time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		}
		require.NoError(t, rc.CacheLastMessage(groupID, msg))

		cached, err = rc.GetLastMessage(groupID)
		assert.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, msg.SenderID, cached.SenderID)
		assert.Equal(t, msg.SenderName, cached.SenderName)
		assert.Equal(t, msg.Content, cached.Content)
		assert.True(t, msg.CreatedAt.Equal(cached.CreatedAt))

		// The cache entry expires on its own
		ttl, err := rc.Client.TTL(rc.Ctx, formatLastMessageKey(groupID)).Result()
		assert.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, 24*time.Hour)
	})

	t.Run("CleanupKeys removes everything", func(t *testing.T) {
		cleanupRedis()

		require.NoError(t, rc.IncrementUnread(groupID, []string{alice}))
		require.NoError(t, rc.CacheLastMessage(groupID, &models.LastMessageInfo{
			SenderID: alice, SenderName: "alice", Content: "hi", CreatedAt: time.Now(),
		}))

		require.NoError(t, rc.CleanupKeys([]string{
			formatUnreadKey(groupID, alice),
			formatLastMessageKey(groupID),
		}))

		count, err := rc.GetUnreadCount(groupID, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)

		cached, err := rc.GetLastMessage(groupID)
		assert.NoError(t, err)
		assert.Nil(t, cached)
	})
}
