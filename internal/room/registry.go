package room

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"digital-world/internal/game"
	"digital-world/internal/gamedata"
	"digital-world/internal/protocol"
	"digital-world/internal/quiz"
)

// Store keeps rooms by id.
type Store interface {
	Get(id string) (*Room, bool)
	Save(r *Room)
	Delete(id string)
	All() []*Room
}

type Options struct {
	Data   *gamedata.Data
	Engine *game.Engine
	Rand   *rand.Rand
	Logger zerolog.Logger
	Tracer trace.Tracer
	// BarrierTimeout bounds how long Sweep lets a barrier wait. Zero
	// disables sweeping.
	BarrierTimeout time.Duration
	Now            func() time.Time
}

// Registry owns every room and serializes all event handling behind one
// lock, so each handler sees and mutates room state atomically.
type Registry struct {
	mu      sync.Mutex
	store   Store
	out     Broadcaster
	members map[string]string

	data    *gamedata.Data
	engine  *game.Engine
	rng     *rand.Rand
	log     zerolog.Logger
	tracer  trace.Tracer
	timeout time.Duration
	now     func() time.Time
}

func NewRegistry(s Store, opts Options) *Registry {
	if opts.Data == nil {
		opts.Data = gamedata.MustLoadAll()
	}
	if opts.Engine == nil {
		opts.Engine = game.NewEngine(opts.Data)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{
		store:   s,
		members: map[string]string{},
		data:    opts.Data,
		engine:  opts.Engine,
		rng:     opts.Rand,
		log:     opts.Logger,
		tracer:  opts.Tracer,
		timeout: opts.BarrierTimeout,
		now:     opts.Now,
	}
}

// SetBroadcaster wires the transport once it exists.
func (g *Registry) SetBroadcaster(b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.out = b
}

// Connect greets a new connection with the open lobbies.
func (g *Registry) Connect(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log.Debug().Str("client_id", clientID).Msg("client connected")
	g.out.Send(clientID, protocol.EventLobbyListing, g.listLobbies())
}

// Disconnect is the implicit leave.
func (g *Registry) Disconnect(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log.Debug().Str("client_id", clientID).Msg("client disconnected")
	g.leave(clientID)
}

// Handle dispatches one decoded event. Events that do not apply are dropped
// and only logged.
func (g *Registry) Handle(ctx context.Context, clientID string, ev protocol.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.dispatch(ctx, clientID, ev); err != nil {
		g.log.Debug().Err(err).
			Str("client_id", clientID).
			Str("room_id", g.members[clientID]).
			Str("event", ev.EventName()).
			Msg("event dropped")
	}
}

func (g *Registry) dispatch(ctx context.Context, clientID string, ev protocol.Event) error {
	// Events valid outside a room.
	switch e := ev.(type) {
	case *protocol.LobbyCreate:
		return g.handleLobbyCreate(clientID, e)
	case *protocol.LobbyJoin:
		g.createOrJoin(e.RoomID, clientID, "")
		return nil
	case *protocol.MessageSend:
		if e.Private {
			g.out.Send(clientID, protocol.EventMessageUpdate, messageFrom(clientID, e))
			return nil
		}
	}

	r, err := g.roomOf(clientID)
	if err != nil {
		return err
	}
	switch e := ev.(type) {
	case *protocol.LobbyUpdate:
		return g.handleLobbyUpdate(r, clientID, e)
	case *protocol.LobbyStartGame:
		return g.handleStartGame(r, clientID)
	case *protocol.MessageSend:
		g.out.Broadcast(r.ID, protocol.EventMessageUpdate, messageFrom(clientID, e))
		return nil
	case *protocol.MouseMove:
		return g.handleMouseMove(r, clientID, e)
	case *protocol.Dialogue:
		return g.handleDialogue(r, clientID, e)
	case *protocol.DialogueEnd:
		return g.handleDialogueEnd(r, e)
	case *protocol.Action:
		return g.handleAction(r, clientID, e)
	case *protocol.ActionReady:
		return g.handleActionReady(r, clientID, e)
	case *protocol.SelectsUpdate:
		return g.handleSelects(r, clientID, e.Select)
	case *protocol.SelectsReset:
		return g.handleSelects(r, clientID, nil)
	case *protocol.GameUpdate:
		return g.handleGameUpdate(r, clientID, e)
	case *protocol.ExplorationInitialize:
		return g.handleExploration(r, e)
	case *protocol.ExplorationForceInitialize:
		return g.handleExplorationForce(r, e)
	case *protocol.BattleInitialize:
		return g.handleBattleInitialize(ctx, r, e)
	case *protocol.BattleUpdate:
		return g.handleBattleUpdate(r, e)
	case *protocol.BattleTurn:
		return g.handleBattleTurn(ctx, r, clientID, e)
	case *protocol.BattleTurnFinished:
		return g.handleBattleTurnFinished(ctx, r, clientID, e)
	case *protocol.LevelingReady:
		return g.handleLevelingReady(r, clientID)
	case *protocol.LevelingUpdate:
		return g.handleLevelingUpdate(r, e)
	case *protocol.TaskInitialize:
		return g.handleTaskInitialize(r, e)
	case *protocol.TaskUpdate:
		return g.handleTaskUpdate(r, e)
	case *protocol.QuizInitialize:
		return g.handleQuizInitialize(r)
	case *protocol.QuizFix:
		return g.handleQuizFix(r)
	case *protocol.QuizUpdate:
		return g.handleQuizUpdate(r, clientID, e)
	}
	return fmt.Errorf("%w: %s", ErrUnhandled, ev.EventName())
}

func (g *Registry) roomOf(clientID string) (*Room, error) {
	id, ok := g.members[clientID]
	if !ok {
		return nil, ErrNotMember
	}
	r, ok := g.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("room %s: %w", id, ErrUnknownRoom)
	}
	return r, nil
}

// CreateOrJoin puts clientID into roomID, creating the room when absent, and
// returns the client's 0-based join index.
func (g *Registry) CreateOrJoin(roomID, clientID, name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createOrJoin(roomID, clientID, name)
}

// Leave removes clientID from its room, reclaiming the room once empty.
func (g *Registry) Leave(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leave(clientID)
}

// ListLobbies returns every room still in the lobby.
func (g *Registry) ListLobbies() []protocol.LobbySummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listLobbies()
}

func (g *Registry) listLobbies() []protocol.LobbySummary {
	out := []protocol.LobbySummary{}
	for _, r := range g.store.All() {
		if r.Status == StatusLobby {
			out = append(out, r.Summary())
		}
	}
	return out
}

// Snapshot returns the JSON form of a room, encoded under the registry lock.
func (g *Registry) Snapshot(roomID string) (json.RawMessage, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.store.Get(roomID)
	if !ok {
		return nil, false
	}
	b, err := json.Marshal(r)
	if err != nil {
		g.log.Error().Err(err).Str("room_id", roomID).Msg("encode room snapshot")
		return nil, false
	}
	return b, true
}

// RoomOf reports which room clientID is in.
func (g *Registry) RoomOf(clientID string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.members[clientID]
	return id, ok
}

// Len is the number of live rooms.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.store.All())
}

// Sweep force-releases battle and leveling barriers that have waited longer
// than the configured timeout.
func (g *Registry) Sweep(now time.Time) {
	if g.timeout <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range g.store.All() {
		s := r.Battle
		if s == nil {
			continue
		}
		if s.Stalled(now, g.timeout) {
			g.log.Warn().Str("room_id", r.ID).Int("turns", s.Turns).Int("ready", s.ReadyCount()).
				Msg("battle barrier stalled, forcing release")
			g.out.Broadcast(r.ID, protocol.EventBattle, protocol.BattleMessage{Type: protocol.TypeBattleTurnFinished, Battle: s})
			g.publishRelease(context.Background(), r, s.ForceRelease())
		}
		if s.LevelingStalled(now, g.timeout) {
			g.log.Warn().Str("room_id", r.ID).Msg("leveling barrier stalled, forcing release")
			g.out.Broadcast(r.ID, protocol.EventLeveling, protocol.LevelingMessage{Type: protocol.TypeLevelingEnd})
		}
	}
}

func (g *Registry) newDeck() *quiz.Deck {
	return quiz.NewDeck(g.data.Quizzes, g.rng)
}
