package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"digital-world/internal/api/ws"
	"digital-world/internal/game"
)

func NewRouter(rooms Rooms, hub *ws.Hub, engine *game.Engine, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	// WebSocket event channel
	r.GET("/ws", hub.HandleWS)

	api := r.Group("/api")
	api.GET("/lobbies", LobbiesHandler(rooms))
	api.GET("/rooms/:id", RoomHandler(rooms))
	api.GET("/config/battle", NewConfigHandler(engine).GetBattleConfigHandler)

	r.GET("/healthz", HealthHandler(rooms, hub))
	return r
}

// RequestLogger logs one line per request through zerolog.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Debug()
		if status >= 500 {
			evt = log.Error()
		} else if status >= 400 {
			evt = log.Warn()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
