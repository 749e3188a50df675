package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"digital-world/internal/protocol"
)

// Rooms is the read side of the room registry.
type Rooms interface {
	ListLobbies() []protocol.LobbySummary
	Snapshot(roomID string) (json.RawMessage, bool)
	Len() int
}

// ClientCounter reports open websocket connections.
type ClientCounter interface {
	Clients() int
}

// @Summary List open lobbies
// @Description Rooms that are still waiting in the lobby
// @Tags Room
// @Produce json
// @Success 200 {object} LobbiesResponse
// @Router /api/lobbies [get]
func LobbiesHandler(rooms Rooms) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, LobbiesResponse{Lobbies: rooms.ListLobbies()})
	}
}

// @Summary Get room state
// @Description Full snapshot of one room, battle included
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} RoomResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/rooms/{id} [get]
func RoomHandler(rooms Rooms) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := rooms.Snapshot(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		c.JSON(http.StatusOK, RoomResponse{Room: snap})
	}
}

func HealthHandler(rooms Rooms, clients ClientCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "ok",
			Rooms:   rooms.Len(),
			Clients: clients.Clients(),
		})
	}
}
