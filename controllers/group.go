package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"Meeple/middleware"
	models "Meeple/models/postgres"
	"Meeple/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Creates a new group
// @Description Creates a group with the caller as first member; the member
// order given here is the order the host rotation cycles through
// @Tags groups
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{group_id=string,message=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/groups [post]
// @Security ApiKeyAuth
func CreateGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)

		var req struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Location    string   `json:"location"`
			MemberIDs   []string `json:"member_ids"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Group name is required"})
			return
		}

		// The creator is always the first member, so the first event of the
		// group lands on them.
		memberIDs := []string{userID}
		for _, id := range req.MemberIDs {
			if id != userID {
				memberIDs = append(memberIDs, id)
			}
		}

		group := models.Group{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
			CreatedBy:   userID,
			LastMessage: []byte("{}"),
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
			joined := time.Now()
			for i, id := range memberIDs {
				member := models.GroupMember{
					GroupID: group.ID,
					UserID:  id,
					// Staggered so the membership order stays the insertion order
					JoinedAt: joined.Add(time.Duration(i) * time.Millisecond),
				}
				if err := tx.Create(&member).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating group"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"group_id": group.ID, "message": "Group created successfully"})
	}
}

// @Summary Gives info of a group
// @Description Given a group id, returns its information and member ids
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group wanted"
// @Success 200 {object} object{group_id=string,name=string,member_ids=[]string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/groups/{group_id} [get]
// @Security ApiKeyAuth
func GetGroupInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Param("group_id")

		var group models.Group
		result := db.Where("id = ?", groupID).First(&group)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			}
			return
		}

		memberIDs, err := utils.GroupMemberIDs(db, groupID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching group members"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"group_id":     group.ID,
			"name":         group.Name,
			"description":  group.Description,
			"location":     group.Location,
			"created_by":   group.CreatedBy,
			"created_at":   group.CreatedAt,
			"member_ids":   memberIDs,
			"last_message": group.LastMessage,
		})
	}
}

// @Summary Lists all existing groups
// @Description Returns all groups ordered by creation time, newest first
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{group_id=string,name=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/groups [get]
// @Security ApiKeyAuth
func GetAllGroups(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var groups []models.Group
		if err := db.Order("created_at DESC").Find(&groups).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching groups"})
			return
		}

		simplified := make([]gin.H, len(groups))
		for i, group := range groups {
			simplified[i] = gin.H{
				"group_id":   group.ID,
				"name":       group.Name,
				"created_by": group.CreatedBy,
				"created_at": group.CreatedAt,
			}
		}
		c.JSON(http.StatusOK, simplified)
	}
}

// @Summary Lists the groups of the current user
// @Description Returns the groups the authenticated user is a member of
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{group_id=string,name=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/groups/my [get]
// @Security ApiKeyAuth
func GetUserGroups(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)

		var groups []models.Group
		err := db.Joins("JOIN group_members ON group_members.group_id = groups.id").
			Where("group_members.user_id = ?", userID).
			Order("groups.created_at DESC").
			Find(&groups).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching groups"})
			return
		}

		simplified := make([]gin.H, len(groups))
		for i, group := range groups {
			simplified[i] = gin.H{
				"group_id":     group.ID,
				"name":         group.Name,
				"description":  group.Description,
				"location":     group.Location,
				"last_message": group.LastMessage,
			}
		}
		c.JSON(http.StatusOK, simplified)
	}
}

// @Summary Updates a group
// @Description Merges the provided fields (name, description, location)
// @Tags groups
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/groups/{group_id} [patch]
// @Security ApiKeyAuth
func UpdateGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Param("group_id")

		var req struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			Location    *string `json:"location"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Group name cannot be empty"})
				return
			}
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Location != nil {
			updates["location"] = *req.Location
		}
		if len(updates) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
			return
		}

		res := db.Model(&models.Group{}).Where("id = ?", groupID).Updates(updates)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating group"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Group updated"})
	}
}

// @Summary Deletes a group
// @Description Removes the group and, through the FK constraints, its members, events and messages
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/groups/{group_id} [delete]
// @Security ApiKeyAuth
func DeleteGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		groupID := c.Param("group_id")

		group, err := utils.CheckGroupExists(db, groupID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		if group.CreatedBy != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can delete a group"})
			return
		}

		if err := db.Delete(&models.Group{}, "id = ?", groupID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting group"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
	}
}

// @Summary Joins a group
// @Description Adds the authenticated user to the end of the group's member list
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/groups/{group_id}/join [post]
// @Security ApiKeyAuth
func JoinGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		groupID := c.Param("group_id")

		if _, err := utils.CheckGroupExists(db, groupID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}

		isMember, err := utils.IsUserInGroup(db, groupID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if isMember {
			c.JSON(http.StatusConflict, gin.H{"error": "Already a member of this group"})
			return
		}

		member := models.GroupMember{GroupID: groupID, UserID: userID, JoinedAt: time.Now()}
		if err := db.Create(&member).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error joining group"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Joined group"})
	}
}

// @Summary Leaves a group
// @Description Removes the authenticated user from the group's member list.
// Future events rotate over the remaining members; if the leaver hosted the
// last event the rotation restarts at the first member.
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/groups/{group_id}/leave [delete]
// @Security ApiKeyAuth
func LeaveGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		groupID := c.Param("group_id")

		res := db.Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&models.GroupMember{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error leaving group"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this group"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Left group"})
	}
}
