package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'GroupMessage' is one chat message inside a group, the equivalent of the
 * client's groups/{groupId}/messages/{messageId} documents. The sender name
 * is denormalized so the chat list renders without a user lookup.
 */
type GroupMessage struct {
	ID         string    `gorm:"primaryKey;size:50;not null"`
	GroupID    string    `gorm:"size:50;not null;index:idx_group_messages_group"`
	SenderID   string    `gorm:"size:50;not null"`
	SenderName string    `gorm:"size:50;not null"`
	Content    string    `gorm:"size:2000;not null"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_group_messages_created"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID"`
}

func (m *GroupMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
