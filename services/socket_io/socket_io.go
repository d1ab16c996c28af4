package socket_io

import (
	"log"
	"time"

	"Meeple/services/redis"
	"Meeple/services/socket_io/handlers"
	socketio_types "Meeple/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

type MySocketServer socketio_types.SocketServer

// Start mounts the socket.io endpoint on the gin router. Clients
// authenticate with their bearer token in the handshake auth data, then join
// per-group rooms to receive chat messages and event notifications.
func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// Higher ping interval and timeout to reduce network load and support
	// slower mobile networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.UserConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		userID, err := handlers.VerifyUserConnection(client, db)
		if err != nil {
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(userID, client)
		log.Printf("Socket connected: %s", userID)

		// Join the room of a group the user is a member of
		client.On("join_group", handlers.HandleJoinGroup(client, db, userID))

		// Leave a group room voluntarily
		client.On("leave_group", handlers.HandleLeaveGroup(client, userID))

		// Removes the sio connection from the map
		client.On("disconnecting", handlers.HandleDisconnecting(userID, (*socketio_types.SocketServer)(sio)))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}
