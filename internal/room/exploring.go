package room

import (
	"digital-world/internal/exploration"
	"digital-world/internal/protocol"
)

func (g *Registry) handleExploration(r *Room, e *protocol.ExplorationInitialize) error {
	players := r.StatsPlayers()
	if r.Status != StatusExploring || r.Exploration == nil {
		r.Exploration = exploration.New(players, e.Exploration.Areas)
		r.Status = StatusExploring
	} else {
		r.Exploration.Resync(players)
	}
	g.broadcastExploration(r)
	return nil
}

func (g *Registry) handleExplorationForce(r *Room, e *protocol.ExplorationForceInitialize) error {
	players := r.StatsPlayers()
	if e.Type == exploration.KindResting {
		exploration.Rest(players)
	}
	r.Exploration = exploration.New(players, e.Exploration.Areas)
	r.Status = StatusExploring
	g.broadcastExploration(r)
	return nil
}

func (g *Registry) broadcastExploration(r *Room) {
	g.out.Broadcast(r.ID, protocol.EventExplorationInitialize, protocol.ExplorationMessage{
		Exploration: r.Exploration,
		Type:        protocol.EventExplorationInitialize,
	})
}
