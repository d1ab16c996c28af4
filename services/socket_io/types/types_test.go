package socketio_types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zishang520/socket.io/v2/socket"
)

func TestConnectionMap(t *testing.T) {
	sio := NewSocketServer()

	_, exists := sio.GetConnection("alice")
	assert.False(t, exists)

	conn := &socket.Socket{}
	sio.AddConnection("alice", conn)

	got, exists := sio.GetConnection("alice")
	assert.True(t, exists)
	assert.Same(t, conn, got)

	// Reconnecting replaces the stored socket
	replacement := &socket.Socket{}
	sio.AddConnection("alice", replacement)
	got, _ = sio.GetConnection("alice")
	assert.Same(t, replacement, got)

	sio.RemoveConnection("alice")
	_, exists = sio.GetConnection("alice")
	assert.False(t, exists)
}

func TestGroupRoomName(t *testing.T) {
	assert.Equal(t, socket.Room("group:g1"), GroupRoom("g1"))
}
