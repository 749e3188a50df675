package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"digital-world/internal/game"
)

type ConfigHandler struct {
	engine *game.Engine
}

func NewConfigHandler(engine *game.Engine) *ConfigHandler {
	return &ConfigHandler{engine: engine}
}

// GetBattleConfigHandler returns the turn resolution tables
// @Summary Get battle configuration
// @Description Element pairings, effect durations and attack multipliers used to resolve turns
// @Tags Config
// @Produce json
// @Success 200 {object} BattleConfigResponse
// @Router /api/config/battle [get]
func (h *ConfigHandler) GetBattleConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, BattleConfigResponse{
		Elements:          h.engine.Elements(),
		EffectDurations:   game.EffectDurations(),
		AttackMultipliers: game.AttackMultipliers(),
	})
}
