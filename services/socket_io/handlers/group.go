package handlers

import (
	"errors"
	"log"

	models "Meeple/models/postgres"
	socketio_types "Meeple/services/socket_io/types"
	"Meeple/utils"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// VerifyUserConnection checks the handshake auth data and makes sure the
// user exists. Returns the user id on success.
func VerifyUserConnection(client *socket.Socket, db *gorm.DB) (string, error) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return "", errors.New("authentication data missing")
	}

	userID, exists := authData["user_id"].(string)
	if !exists || userID == "" {
		client.Emit("error", gin.H{"error": "Authentication failed: missing user id"})
		return "", errors.New("user id not found in authentication")
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		client.Emit("error", gin.H{"error": "Authentication failed: unknown user"})
		return "", err
	}

	return userID, nil
}

// HandleJoinGroup joins the client to the socket.io room of a group after
// checking the membership table.
func HandleJoinGroup(client *socket.Socket, db *gorm.DB, userID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing group id"})
			return
		}

		groupID, ok := args[0].(string)
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid group id"})
			return
		}

		isMember, err := utils.IsUserInGroup(db, groupID, userID)
		if err != nil {
			client.Emit("error", gin.H{"error": "Database error"})
			return
		}
		if !isMember {
			client.Emit("error", gin.H{"error": "You must be a member of the group to join its chat"})
			return
		}

		client.Join(socketio_types.GroupRoom(groupID))
		client.Emit("group_joined", gin.H{"group_id": groupID})
		log.Printf("User %s joined room of group %s", userID, groupID)
	}
}

// HandleLeaveGroup removes the client from a group room.
func HandleLeaveGroup(client *socket.Socket, userID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		if len(args) < 1 {
			client.Emit("error", gin.H{"error": "Missing group id"})
			return
		}

		groupID, ok := args[0].(string)
		if !ok {
			client.Emit("error", gin.H{"error": "Invalid group id"})
			return
		}

		client.Leave(socketio_types.GroupRoom(groupID))
		client.Emit("group_left", gin.H{"group_id": groupID})
		log.Printf("User %s left room of group %s", userID, groupID)
	}
}

// HandleDisconnecting drops the connection from the server's map.
func HandleDisconnecting(userID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		sio.RemoveConnection(userID)
		log.Printf("Socket disconnected: %s", userID)
	}
}
