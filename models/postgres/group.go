package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'Group' defines the structure of a Meeple group. It contains references to
 * GroupMember, Event and GroupMessage. The last_message column caches the
 * most recent chat message as jsonb for the chats list view.
 */
type Group struct {
	ID          string         `gorm:"primaryKey;size:50;not null"`
	Name        string         `gorm:"size:100;not null"`
	Description string         `gorm:"size:500"`
	Location    string         `gorm:"size:200"`
	CreatedBy   string         `gorm:"size:50;not null;index:idx_groups_creator"`
	CreatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
	LastMessage datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	// Relationships
	Creator  User           `gorm:"foreignKey:CreatedBy"`
	Members  []GroupMember  `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Events   []Event        `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Messages []GroupMessage `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

/*
 * 'GroupMember' links a user to a group. The pair (joined_at, user_id) gives
 * the stable member ordering the host rotation relies on.
 */
type GroupMember struct {
	GroupID  string    `gorm:"primaryKey;size:50;not null"`
	UserID   string    `gorm:"primaryKey;size:50;not null;index:idx_group_members_user"`
	JoinedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID"`
	User  User  `gorm:"foreignKey:UserID"`
}

// LastMessageInfo is the decoded shape of Group.LastMessage.
type LastMessageInfo struct {
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
