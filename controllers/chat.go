package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"Meeple/middleware"
	models "Meeple/models/postgres"
	"Meeple/services/redis"
	socketio_types "Meeple/services/socket_io/types"
	"Meeple/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Sends a chat message to a group
// @Description Persists the message, updates the group's last message,
// bumps the unread counters of the other members and broadcasts it to the
// group's socket.io room
// @Tags chat
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Success 200 {object} object{message_id=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/groups/{group_id}/messages [post]
// @Security ApiKeyAuth
func SendGroupMessage(db *gorm.DB, rc *redis.RedisClient, sio *socketio_types.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		groupID := c.Param("group_id")

		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
			return
		}

		isMember, err := utils.IsUserInGroup(db, groupID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !isMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "You must be a member of the group to send messages"})
			return
		}

		var sender models.User
		if err := db.Where("id = ?", userID).First(&sender).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching sender"})
			return
		}

		message := models.GroupMessage{
			GroupID:    groupID,
			SenderID:   userID,
			SenderName: sender.Username,
			Content:    req.Content,
			CreatedAt:  time.Now(),
		}
		if err := db.Create(&message).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending message"})
			return
		}

		// Update last message in the group row (for the chats list view)
		lastMessage := models.LastMessageInfo{
			SenderID:   userID,
			SenderName: sender.Username,
			Content:    req.Content,
			CreatedAt:  message.CreatedAt,
		}
		raw, _ := json.Marshal(lastMessage)
		if err := db.Model(&models.Group{}).Where("id = ?", groupID).
			Update("last_message", raw).Error; err != nil {
			log.Printf("Error updating last message of group %s: %v", groupID, err)
		}

		// Unread counters for everyone but the sender
		memberIDs, err := utils.GroupMemberIDs(db, groupID)
		if err == nil {
			recipients := make([]string, 0, len(memberIDs))
			for _, id := range memberIDs {
				if id != userID {
					recipients = append(recipients, id)
				}
			}
			if err := rc.IncrementUnread(groupID, recipients); err != nil {
				log.Printf("Error incrementing unread counters: %v", err)
			}
		}
		if err := rc.CacheLastMessage(groupID, &lastMessage); err != nil {
			log.Printf("Error caching last message: %v", err)
		}

		if sio != nil && sio.Sio_server != nil {
			sio.Sio_server.To(socketio_types.GroupRoom(groupID)).Emit("group_message", gin.H{
				"group_id":    groupID,
				"message_id":  message.ID,
				"sender_id":   userID,
				"sender_name": sender.Username,
				"content":     req.Content,
				"created_at":  message.CreatedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{"message_id": message.ID})
	}
}

// @Summary Lists the chat messages of a group
// @Description Returns the group's messages ordered by creation time, oldest first
// @Tags chat
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Success 200 {array} object{message_id=string,sender_id=string,content=string}
// @Failure 403 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/groups/{group_id}/messages [get]
// @Security ApiKeyAuth
func GetGroupMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		groupID := c.Param("group_id")

		isMember, err := utils.IsUserInGroup(db, groupID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if !isMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "You must be a member of the group to read messages"})
			return
		}

		var messages []models.GroupMessage
		if err := db.Where("group_id = ?", groupID).
			Order("created_at ASC").Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching messages"})
			return
		}

		out := make([]gin.H, len(messages))
		for i, m := range messages {
			out[i] = gin.H{
				"message_id":  m.ID,
				"sender_id":   m.SenderID,
				"sender_name": m.SenderName,
				"content":     m.Content,
				"created_at":  m.CreatedAt,
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Marks a group chat as read
// @Description Clears the caller's unread counter for the group
// @Tags chat
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group_id path string true "Id of the group"
// @Success 200 {object} object{message=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/groups/{group_id}/read [post]
// @Security ApiKeyAuth
func MarkGroupRead(rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		groupID := c.Param("group_id")

		if err := rc.ResetUnread(groupID, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resetting unread counter"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Chat marked as read"})
	}
}

// @Summary Chats list of the current user
// @Description Returns the user's groups with last message and unread count
// @Tags chat
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} object{group_id=string,name=string,unread=integer}
// @Failure 500 {object} object{error=string}
// @Router /auth/chats [get]
// @Security ApiKeyAuth
func GetMyChats(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)

		var groups []models.Group
		err := db.Joins("JOIN group_members ON group_members.group_id = groups.id").
			Where("group_members.user_id = ?", userID).
			Find(&groups).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching groups"})
			return
		}

		out := make([]gin.H, len(groups))
		for i, group := range groups {
			unread, err := rc.GetUnreadCount(group.ID, userID)
			if err != nil {
				log.Printf("Error reading unread counter of group %s: %v", group.ID, err)
			}

			// The cache usually has the freshest last message; the group row
			// is the fallback.
			var lastMessage interface{}
			if cached, err := rc.GetLastMessage(group.ID); err == nil && cached != nil {
				lastMessage = cached
			} else {
				lastMessage = group.LastMessage
			}

			out[i] = gin.H{
				"group_id":     group.ID,
				"name":         group.Name,
				"unread":       unread,
				"last_message": lastMessage,
			}
		}
		c.JSON(http.StatusOK, out)
	}
}
