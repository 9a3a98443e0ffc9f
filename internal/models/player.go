package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seated connection identity. A player belongs to at most one
// room at a time; their hand lives in the room's game state.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`
}
