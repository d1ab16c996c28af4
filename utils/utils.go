package utils

import (
	"errors"
	"fmt"
	"net/http"

	models "Meeple/models/postgres"
	"Meeple/services/events"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorHandler handles global errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// EventErrorStatus maps the scheduling core's error taxonomy onto HTTP
// status codes. Unknown errors count as persistence failures.
func EventErrorStatus(err error) int {
	var (
		validationErr  *events.ValidationError
		notFoundErr    *events.NotFoundError
		conflictErr    *events.ConflictError
		stateErr       *events.StateError
		persistenceErr *events.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &stateErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &persistenceErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// CheckGroupExists loads a group by id
func CheckGroupExists(db *gorm.DB, groupID string) (*models.Group, error) {
	var group models.Group
	result := db.Where("id = ?", groupID).First(&group)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group not found")
		}
		return nil, result.Error
	}
	return &group, nil
}

// IsUserInGroup checks the membership table
func IsUserInGroup(db *gorm.DB, groupID string, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GroupMemberIDs returns the group's member ids in the stable order the
// host rotation uses (joined_at, then user id).
func GroupMemberIDs(db *gorm.DB, groupID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("joined_at ASC, user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
