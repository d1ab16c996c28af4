package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'User' contains the blueprint definition of a Meeple user. Referenced by
 * Group (creator), GroupMember, GroupMessage and Event (host/participants)
 * through plain user id strings, mirroring the client's users/{userId} docs.
 */
type User struct {
	ID           string    `gorm:"primaryKey;size:50;not null"`
	Username     string    `gorm:"size:50;not null;uniqueIndex"`
	Email        string    `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	FullName     string    `gorm:"size:100"`
	UserIcon     int       `gorm:"default:0"`
	FcmToken     string    `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Memberships []GroupMember `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
