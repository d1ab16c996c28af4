package routes

import (
	"Meeple/controllers"
	"Meeple/middleware"
	"Meeple/services/events"
	"Meeple/services/redis"
	socketio_types "Meeple/services/socket_io/types"
	"Meeple/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient, sio *socketio_types.SocketServer) {
	// The event scheduling core (host rotation, suggestion ballot, ratings)
	eventService := events.NewService(db)

	// utils global
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/allusers", controllers.GetAllUsers(db))

	api.GET("/users/:user_id", controllers.GetUserPublicInfo(db))

	api.POST("/login", controllers.Login(db))

	api.POST("/signup", controllers.SignUp(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.PATCH("/update", controllers.UpdateUserInfo(db))

		// Groups
		authentication.POST("/groups", controllers.CreateGroup(db))
		authentication.GET("/groups", controllers.GetAllGroups(db))
		authentication.GET("/groups/my", controllers.GetUserGroups(db))
		authentication.GET("/groups/:group_id", controllers.GetGroupInfo(db))
		authentication.PATCH("/groups/:group_id", controllers.UpdateGroup(db))
		authentication.DELETE("/groups/:group_id", controllers.DeleteGroup(db))
		authentication.POST("/groups/:group_id/join", controllers.JoinGroup(db))
		authentication.DELETE("/groups/:group_id/leave", controllers.LeaveGroup(db))

		// Events (host rotation happens on create)
		authentication.GET("/events", controllers.GetAllEvents(eventService))
		authentication.POST("/groups/:group_id/events", controllers.CreateEvent(eventService, sio))
		authentication.GET("/groups/:group_id/events", controllers.GetGroupEvents(eventService))
		authentication.PATCH("/groups/:group_id/events/:event_id", controllers.UpdateEvent(eventService))
		authentication.DELETE("/groups/:group_id/events/:event_id", controllers.DeleteEvent(eventService))

		// Suggestion ballot and ratings
		authentication.POST("/groups/:group_id/events/:event_id/suggestions", controllers.SuggestGame(eventService))
		authentication.GET("/groups/:group_id/events/:event_id/suggestions", controllers.GetRankedSuggestions(eventService))
		authentication.POST("/groups/:group_id/events/:event_id/votes", controllers.VoteForGame(eventService))
		authentication.POST("/groups/:group_id/events/:event_id/ratings", controllers.SubmitRating(eventService))

		// Chat
		authentication.GET("/chats", controllers.GetMyChats(db, redisClient))
		authentication.POST("/groups/:group_id/messages", controllers.SendGroupMessage(db, redisClient, sio))
		authentication.GET("/groups/:group_id/messages", controllers.GetGroupMessages(db))
		authentication.POST("/groups/:group_id/read", controllers.MarkGroupRead(redisClient))
	}
}
