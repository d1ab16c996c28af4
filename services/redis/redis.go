package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	models "Meeple/models/postgres"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations: per-user unread message counters and
// the last-message cache backing the chats list view.
type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(addr string, db int) *RedisClient {
	var client *redis.Client
	if addr != "localhost:6379" {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RedisClient{
		Client: client,
		Ctx:    context.Background(),
	}
}

// Key format: "group:{groupID}:unread:{userID}"
func formatUnreadKey(groupID, userID string) string {
	return fmt.Sprintf("group:%s:unread:%s", groupID, userID)
}

// Key format: "group:{groupID}:last_message"
func formatLastMessageKey(groupID string) string {
	return fmt.Sprintf("group:%s:last_message", groupID)
}

// IncrementUnread bumps the unread counter of every listed user. The sender
// is expected to be filtered out by the caller.
func (rc *RedisClient) IncrementUnread(groupID string, userIDs []string) error {
	pipe := rc.Client.Pipeline()
	for _, userID := range userIDs {
		pipe.Incr(rc.Ctx, formatUnreadKey(groupID, userID))
	}
	if _, err := pipe.Exec(rc.Ctx); err != nil {
		return fmt.Errorf("failed to increment unread counters: %v", err)
	}
	return nil
}

// GetUnreadCount returns the user's unread counter for one group. A missing
// key counts as zero.
func (rc *RedisClient) GetUnreadCount(groupID, userID string) (int64, error) {
	count, err := rc.Client.Get(rc.Ctx, formatUnreadKey(groupID, userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read unread counter: %v", err)
	}
	return count, nil
}

// ResetUnread clears the user's unread counter after they open the chat.
func (rc *RedisClient) ResetUnread(groupID, userID string) error {
	if err := rc.Client.Del(rc.Ctx, formatUnreadKey(groupID, userID)).Err(); err != nil {
		return fmt.Errorf("failed to reset unread counter: %v", err)
	}
	return nil
}

// CacheLastMessage stores the most recent message of a group
// Key format: "group:{groupID}:last_message"
// TTL: 24 hours
func (rc *RedisClient) CacheLastMessage(groupID string, msg *models.LastMessageInfo) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling last message: %v", err)
	}
	return rc.Client.Set(rc.Ctx, formatLastMessageKey(groupID), data, 24*time.Hour).Err()
}

// GetLastMessage retrieves the cached last message of a group, or nil when
// nothing is cached.
func (rc *RedisClient) GetLastMessage(groupID string) (*models.LastMessageInfo, error) {
	data, err := rc.Client.Get(rc.Ctx, formatLastMessageKey(groupID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last message cache: %v", err)
	}
	var msg models.LastMessageInfo
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("error unmarshaling last message: %v", err)
	}
	return &msg, nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.Client.Del(rc.Ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
