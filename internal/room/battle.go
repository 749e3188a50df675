package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"digital-world/internal/battle"
	"digital-world/internal/protocol"
	"digital-world/internal/shared"
)

func (g *Registry) handleBattleInitialize(ctx context.Context, r *Room, e *protocol.BattleInitialize) error {
	_, span := g.tracer.Start(ctx, "battle.initialize")
	defer span.End()

	players := r.StatsPlayers()
	if r.Status != StatusBattling || r.Battle == nil || r.Battle.Over() {
		taken := map[string]bool{}
		for _, id := range r.Joined {
			taken[id] = true
		}
		monsters := make([]*shared.Monster, 0, len(e.Monsters))
		for _, m := range e.Monsters {
			if taken[m.ID] {
				g.log.Warn().Str("room_id", r.ID).Str("monster_id", m.ID).Msg("monster id already in the battle, dropped")
				continue
			}
			taken[m.ID] = true
			monsters = append(monsters, normalizeMonster(m))
		}
		r.Battle = battle.New(players, monsters, g.engine, g.rng, r.StatsIDs)
		r.Status = StatusBattling
	} else {
		r.Battle.Resync(players, r.Battle.Monsters)
	}
	span.SetAttributes(
		attribute.String("room.id", r.ID),
		attribute.Int("battle.players", len(r.Battle.Players)),
		attribute.Int("battle.monsters", len(r.Battle.Monsters)),
	)
	g.log.Info().Str("room_id", r.ID).Int("players", len(r.Battle.Players)).
		Int("monsters", len(r.Battle.Monsters)).Msg("battle initialized")

	g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{Type: protocol.TypeBattleInitialize, Battle: r.Battle})
	return nil
}

func normalizeMonster(m *shared.Monster) *shared.Monster {
	m.Type = shared.TypeMonster
	if m.Effects == nil {
		m.Effects = []shared.Effect{}
	}
	if m.BattleStats.HP == 0 {
		m.BattleStats.HP = m.Stats.HP
	}
	return m
}

func (g *Registry) handleBattleUpdate(r *Room, e *protocol.BattleUpdate) error {
	if !r.isMember(e.Player.ID) {
		return fmt.Errorf("battle-update %s: %w", e.Player.ID, ErrUnknownPlayer)
	}
	if e.Player.Customization == nil {
		e.Player.Customization = map[string]any{}
	}
	r.Players[e.Player.ID] = e.Player
	if r.Battle != nil {
		r.Battle.ReplacePlayer(e.Player)
	}
	g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{
		Type:    protocol.TypeBattleUpdate,
		Players: r.Players,
		Battle:  r.Battle,
	})
	return nil
}

func (g *Registry) handleBattleTurn(ctx context.Context, r *Room, clientID string, e *protocol.BattleTurn) error {
	if r.Battle == nil {
		return ErrNoSession
	}
	_, span := g.tracer.Start(ctx, "battle.turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("client.id", clientID),
		attribute.String("attack.type", e.Attack.Type),
	)

	res, err := r.Battle.SubmitTurn(clientID, e.Attack, e.State)
	if err != nil {
		if !errors.Is(err, battle.ErrOutOfTurn) {
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
	span.SetAttributes(attribute.Int("battle.turns", res.Turns))
	g.log.Debug().Str("room_id", r.ID).Str("client_id", clientID).Int("turns", res.Turns).Msg("player turn resolved")

	g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{
		Type:       protocol.TypeBattleTurn,
		Players:    r.Players,
		Battle:     r.Battle,
		TurnResult: res,
	})
	return nil
}

func (g *Registry) handleBattleTurnFinished(ctx context.Context, r *Room, clientID string, e *protocol.BattleTurnFinished) error {
	if r.Battle == nil {
		return ErrNoSession
	}
	released, err := r.Battle.AckTurn(clientID, *e.Turns, g.now())
	if err != nil || !released {
		return err
	}
	g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{Type: protocol.TypeBattleTurnFinished, Battle: r.Battle})

	ctx, span := g.tracer.Start(ctx, "battle.release")
	defer span.End()
	rel := r.Battle.Evaluate()
	span.SetAttributes(attribute.String("room.id", r.ID), attribute.String("battle.outcome", rel.Outcome.String()))
	g.publishRelease(ctx, r, rel)
	return nil
}

// settleBattle lets a battle continue after clientID left the room.
func (g *Registry) settleBattle(r *Room, clientID string) {
	s := r.Battle
	if s == nil {
		return
	}
	awaitingReady := s.Phase == battle.PhaseAwaitReady
	headLeft := s.RemovePlayer(clientID)
	if rel, ok := s.Settle(headLeft); ok {
		if awaitingReady {
			g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{Type: protocol.TypeBattleTurnFinished, Battle: s})
		}
		g.publishRelease(context.Background(), r, rel)
	}
	if s.SettleLeveling() {
		g.out.Broadcast(r.ID, protocol.EventLeveling, protocol.LevelingMessage{Type: protocol.TypeLevelingEnd})
	}
}

func (g *Registry) publishRelease(ctx context.Context, r *Room, rel *battle.Release) {
	logger := g.log.With().Str("room_id", r.ID).Str("outcome", rel.Outcome.String()).Logger()
	switch rel.Outcome {
	case battle.OutcomeWin:
		r.Status = StatusGame
		logger.Info().Int("exp", rel.Win.Exp).Msg("battle won")
		g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{
			Type:     protocol.TypeBattleEnd,
			Battle:   r.Battle,
			Players:  rel.Win.Players,
			Leveling: &rel.Win.Leveling,
			Exp:      rel.Win.Exp,
		})
	case battle.OutcomeLose:
		logger.Info().Msg("battle lost")
		g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{Type: protocol.TypeBattleLose})
	case battle.OutcomeMonsterTurn:
		_, span := g.tracer.Start(ctx, "battle.monster_turn")
		span.SetAttributes(
			attribute.String("room.id", r.ID),
			attribute.String("monster.id", rel.Turn.State.Attacker),
			attribute.String("target.id", rel.Turn.State.Target),
		)
		span.End()
		logger.Debug().Str("monster", rel.Turn.State.Attacker).Str("target", rel.Turn.State.Target).
			Int("turns", rel.Turn.Turns).Msg("monster turn resolved")
		g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{
			Type:       protocol.TypeBattleTurn,
			Players:    r.Players,
			Battle:     r.Battle,
			TurnResult: rel.Turn,
		})
	case battle.OutcomePointer:
		next := rel.Next
		g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{Type: protocol.TypeBattlePointer, Next: &next})
	}
}

func (g *Registry) handleLevelingReady(r *Room, clientID string) error {
	if r.Battle == nil {
		return ErrNoSession
	}
	if r.Battle.LevelReady(clientID, g.now()) {
		g.out.Broadcast(r.ID, protocol.EventLeveling, protocol.LevelingMessage{Type: protocol.TypeLevelingEnd})
	}
	return nil
}

func (g *Registry) handleLevelingUpdate(r *Room, e *protocol.LevelingUpdate) error {
	g.out.Broadcast(r.ID, protocol.EventLeveling, protocol.LevelingMessage{
		Type:    protocol.TypeLevelingUpdate,
		Players: []json.RawMessage{e.Payload},
	})
	return nil
}
