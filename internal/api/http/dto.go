package http

import (
	"encoding/json"

	"digital-world/internal/gamedata"
	"digital-world/internal/protocol"
	"digital-world/internal/shared"
)

// LobbiesResponse is the body of GET /api/lobbies.
type LobbiesResponse struct {
	Lobbies []protocol.LobbySummary `json:"lobbies"`
}

// RoomResponse wraps a room snapshot.
type RoomResponse struct {
	Room json.RawMessage `json:"room"`
}

// BattleConfigResponse describes the fixed turn-resolution tables.
type BattleConfigResponse struct {
	Elements          gamedata.ElementTable     `json:"elements"`
	EffectDurations   map[shared.EffectKind]int `json:"effectDurations"`
	AttackMultipliers map[string]float64        `json:"attackMultipliers"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Rooms   int    `json:"rooms"`
	Clients int    `json:"clients"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
