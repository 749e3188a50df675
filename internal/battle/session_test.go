package battle

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"digital-world/internal/game"
	"digital-world/internal/gamedata"
	"digital-world/internal/shared"
)

var now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newPlayer(id string, hp, ap, spd int) *shared.PlayerRecord {
	return &shared.PlayerRecord{
		ID:          id,
		Name:        id,
		Stats:       &shared.Stats{LEVEL: 1, HP: hp, AP: ap, SPD: spd},
		BattleStats: shared.BattleStats{HP: hp, AP: ap, MAXCHARGE: 3},
		Effects:     []shared.Effect{},
	}
}

func newMonster(id string, hp, ap, spd int) *shared.Monster {
	return &shared.Monster{
		ID:          id,
		Name:        id,
		Stats:       shared.Stats{LEVEL: 1, HP: hp, AP: ap, SPD: spd},
		BattleStats: shared.MonsterBattleStats{HP: hp},
		Effects:     []shared.Effect{},
		Type:        shared.TypeMonster,
	}
}

func newSession(players []*shared.PlayerRecord, monsters []*shared.Monster) *Session {
	participants := func() []string {
		ids := make([]string, 0, len(players))
		for _, p := range players {
			if p.HasStats() {
				ids = append(ids, p.ID)
			}
		}
		return ids
	}
	engine := game.NewEngine(gamedata.MustLoadAll())
	return New(players, monsters, engine, rand.New(rand.NewSource(1)), participants)
}

func singleAttack(target string) (shared.Attack, shared.BattleState) {
	attack := shared.Attack{
		Type:    game.AttackNormal,
		Targets: shared.AttackTargets{Type: "single"},
		Effects: shared.AttackEffects{
			Target:         shared.MustParseEffectSpecs("single-lag"),
			TargetAccuracy: 100,
		},
	}
	state := shared.BattleState{
		Type:     "single-attack",
		Attacker: &shared.ActorRef{ID: "a"},
		Target:   &shared.ActorRef{ID: target},
		Turn:     shared.TypePlayer,
	}
	return attack, state
}

func TestInitializeQueue(t *testing.T) {
	s := newSession(
		[]*shared.PlayerRecord{newPlayer("a", 30, 12, 5), newPlayer("b", 30, 5, 9)},
		[]*shared.Monster{newMonster("m", 10, 3, 5)},
	)

	if s.Queue.Len() != 3 {
		t.Fatalf("Queue.Len() = %d, want 3", s.Queue.Len())
	}
	want := []string{"b", "a", "m"}
	seen := map[string]bool{}
	for i, r := range s.Queue.Refs() {
		if r.ID != want[i] {
			t.Errorf("queue[%d] = %s, want %s", i, r.ID, want[i])
		}
		if seen[r.ID] {
			t.Errorf("duplicate id %s in queue", r.ID)
		}
		seen[r.ID] = true
	}
	if s.Turns != 0 || s.ReadyCount() != 0 || s.Phase != PhaseAwaitAction {
		t.Errorf("fresh session turns=%d ready=%d phase=%s", s.Turns, s.ReadyCount(), s.Phase)
	}
}

func TestSubmitTurnKillsMonster(t *testing.T) {
	m := newMonster("m", 10, 3, 1)
	s := newSession(
		[]*shared.PlayerRecord{newPlayer("a", 30, 12, 9), newPlayer("b", 30, 5, 5)},
		[]*shared.Monster{m},
	)
	attack, state := singleAttack("m")

	res, err := s.SubmitTurn("a", attack, state)
	if err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if res.Attack.Damage[0].Damage != 12 {
		t.Errorf("damage = %d, want 12", res.Attack.Damage[0].Damage)
	}
	if len(res.Attack.Damage) != len(s.Monsters) {
		t.Errorf("len(damage) = %d, want %d", len(res.Attack.Damage), len(s.Monsters))
	}
	if m.BattleStats.HP != -2 {
		t.Errorf("monster HP = %d, want -2", m.BattleStats.HP)
	}
	if s.Queue.Contains("m") {
		t.Error("dead monster still in the turn queue")
	}
	if !shared.HasEffect(m, shared.EffectLag) {
		t.Error("single-lag not applied to the target")
	}
	if len(res.Attack.Effects.Target) != 1 || res.Attack.Effects.TargetAccuracy != 100 {
		t.Errorf("resolved target effects = %+v", res.Attack.Effects)
	}
	if res.Turns != 1 || s.Turns != 1 {
		t.Errorf("turn token = %d/%d, want 1", res.Turns, s.Turns)
	}
	if head, _ := s.Queue.Current(); head.ID != "b" {
		t.Errorf("next actor = %s, want b", head.ID)
	}
	if len(s.Monsters) != 1 {
		t.Error("dead monster removed from the roster")
	}
}

func TestSubmitTurnOutOfTurnDoesNotMutate(t *testing.T) {
	s := newSession(
		[]*shared.PlayerRecord{newPlayer("a", 30, 12, 9), newPlayer("b", 30, 5, 5)},
		[]*shared.Monster{newMonster("m", 50, 3, 1)},
	)
	before, _ := json.Marshal(s)

	for _, id := range []string{"b", "m", "stranger"} {
		attack, state := singleAttack("m")
		if _, err := s.SubmitTurn(id, attack, state); !errors.Is(err, ErrOutOfTurn) {
			t.Errorf("SubmitTurn(%s) error = %v, want ErrOutOfTurn", id, err)
		}
	}

	after, _ := json.Marshal(s)
	if string(before) != string(after) {
		t.Errorf("session mutated by out-of-turn submissions\nbefore %s\nafter  %s", before, after)
	}
}

func TestLaggedAttackerSkipsTurn(t *testing.T) {
	a := newPlayer("a", 30, 12, 9)
	a.Effects = []shared.Effect{{Type: shared.EffectLag, Duration: 1}}
	m := newMonster("m", 50, 3, 1)
	s := newSession([]*shared.PlayerRecord{a}, []*shared.Monster{m})

	attack, state := singleAttack("m")
	res, err := s.SubmitTurn("a", attack, state)
	if err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if m.BattleStats.HP != 50 {
		t.Errorf("monster HP = %d, want 50", m.BattleStats.HP)
	}
	if res.Extra == "" {
		t.Error("no lag notice")
	}
	if len(res.Attack.Effects.Target) != 0 || shared.HasEffect(m, shared.EffectLag) {
		t.Error("effects applied during a lagged turn")
	}
	if shared.HasEffect(a, shared.EffectLag) {
		t.Error("lag did not expire")
	}
}

func TestAllTargetAttackHitsLivingMonsters(t *testing.T) {
	dead := newMonster("dead", 10, 1, 1)
	dead.BattleStats.HP = 0
	m1, m2 := newMonster("m1", 50, 1, 1), newMonster("m2", 50, 1, 1)
	s := newSession([]*shared.PlayerRecord{newPlayer("a", 30, 10, 9)}, []*shared.Monster{dead, m1, m2})

	attack := shared.Attack{Type: game.AttackNormal, Targets: shared.AttackTargets{Type: "all"}}
	res, err := s.SubmitTurn("a", attack, shared.BattleState{Attacker: &shared.ActorRef{ID: "a"}})
	if err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if res.Attack.Damage[0] != shared.NoDamage {
		t.Errorf("dead monster damage = %+v, want zero entry", res.Attack.Damage[0])
	}
	if m1.BattleStats.HP != 40 || m2.BattleStats.HP != 40 {
		t.Errorf("HP = %d/%d, want 40/40", m1.BattleStats.HP, m2.BattleStats.HP)
	}
}

func TestBarrierWaitsForEveryParticipant(t *testing.T) {
	players := []*shared.PlayerRecord{newPlayer("a", 30, 5, 9), newPlayer("b", 30, 5, 8), newPlayer("c", 30, 5, 7)}
	// v has no stats and never counts.
	visitor := shared.NewPlayerRecord("v")
	s := newSession(append(players, visitor), []*shared.Monster{newMonster("m", 50, 1, 1)})

	attack, state := singleAttack("m")
	if _, err := s.SubmitTurn("a", attack, state); err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}

	for _, id := range []string{"a", "a", "b", "v"} {
		rel, err := s.FinishTurn(id, s.Turns, now)
		if err != nil {
			t.Fatalf("FinishTurn(%s) error = %v", id, err)
		}
		if rel.Outcome != OutcomeWaiting {
			t.Fatalf("FinishTurn(%s) released early with %s", id, rel.Outcome)
		}
	}
	rel, err := s.FinishTurn("c", s.Turns, now)
	if err != nil {
		t.Fatalf("FinishTurn(c) error = %v", err)
	}
	if rel.Outcome != OutcomePointer || rel.Next.ID != "b" {
		t.Errorf("release = %s next %s, want pointer to b", rel.Outcome, rel.Next.ID)
	}
	if s.ReadyCount() != 0 {
		t.Errorf("ReadyCount() = %d after release, want 0", s.ReadyCount())
	}
}

func TestFinishTurnDropsStaleToken(t *testing.T) {
	s := newSession([]*shared.PlayerRecord{newPlayer("a", 30, 5, 9)}, []*shared.Monster{newMonster("m", 50, 1, 1)})
	attack, state := singleAttack("m")
	if _, err := s.SubmitTurn("a", attack, state); err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if _, err := s.FinishTurn("a", s.Turns-1, now); !errors.Is(err, ErrStaleAck) {
		t.Errorf("FinishTurn(stale) error = %v, want ErrStaleAck", err)
	}
	if s.ReadyCount() != 0 {
		t.Errorf("stale ack counted: ReadyCount() = %d", s.ReadyCount())
	}
}

func TestWinDistributesExperience(t *testing.T) {
	a, b := newPlayer("a", 30, 12, 9), newPlayer("b", 30, 5, 5)
	b.BattleStats.HP = 0
	b.BattleStats.CHARGE = 2
	s := newSession([]*shared.PlayerRecord{a, b}, []*shared.Monster{newMonster("m", 10, 3, 1)})

	attack, state := singleAttack("m")
	res, err := s.SubmitTurn("a", attack, state)
	if err != nil {
		t.Fatalf("SubmitTurn() error = %v", err)
	}
	if _, err := s.FinishTurn("a", res.Turns, now); err != nil {
		t.Fatalf("FinishTurn(a) error = %v", err)
	}
	rel, err := s.FinishTurn("b", res.Turns, now)
	if err != nil {
		t.Fatalf("FinishTurn(b) error = %v", err)
	}
	if rel.Outcome != OutcomeWin {
		t.Fatalf("outcome = %s, want win", rel.Outcome)
	}

	if !rel.Win.Leveling.Display {
		t.Error("leveling display flag not set")
	}
	got := map[string]int{}
	for _, p := range rel.Win.Players {
		got[p.ID] = p.Exp
	}
	for _, id := range []string{"a", "b"} {
		if got[id] != 8 {
			t.Errorf("exp[%s] = %d, want 8", id, got[id])
		}
	}
	if b.BattleStats.HP != 30 || b.BattleStats.CHARGE != 0 {
		t.Errorf("fallen player HP/CHARGE = %d/%d, want 30/0", b.BattleStats.HP, b.BattleStats.CHARGE)
	}
	if len(s.Monsters) != 0 || s.Turns != 0 || s.Phase != PhaseInit {
		t.Errorf("session not reset: monsters=%d turns=%d phase=%s", len(s.Monsters), s.Turns, s.Phase)
	}
	if _, err := s.FinishTurn("a", 0, now); !errors.Is(err, ErrBattleOver) {
		t.Errorf("FinishTurn after win error = %v, want ErrBattleOver", err)
	}
}

func TestWinLevelsUp(t *testing.T) {
	a := newPlayer("a", 30, 12, 9)
	a.Stats.EXP = 5
	m := newMonster("m", 10, 3, 1)
	m.Stats.LEVEL = 2
	s := newSession([]*shared.PlayerRecord{a}, []*shared.Monster{m})

	attack, state := singleAttack("m")
	res, _ := s.SubmitTurn("a", attack, state)
	rel, err := s.FinishTurn("a", res.Turns, now)
	if err != nil {
		t.Fatalf("FinishTurn() error = %v", err)
	}
	// 5 + 11 = 16 crosses the level 1 cost of 10.
	if rel.Win.Players[0].LevelUp != 1 || a.Stats.LEVEL != 2 || a.Stats.EXP != 6 {
		t.Errorf("levelUp=%d LEVEL=%d EXP=%d, want 1/2/6", rel.Win.Players[0].LevelUp, a.Stats.LEVEL, a.Stats.EXP)
	}
}

// The lose path leaves the encounter in place: monsters and queue keep their
// state until the next battle-initialize. Pending product confirmation.
func TestLoseLeavesSessionStale(t *testing.T) {
	a := newPlayer("a", 31, 1, 1)
	a.BattleStats.HP = 1
	a.BattleStats.CHARGE = 3
	m := newMonster("m", 50, 20, 9)
	s := newSession([]*shared.PlayerRecord{a}, []*shared.Monster{m})

	rel, err := s.FinishTurn("a", 0, now)
	if err != nil {
		t.Fatalf("FinishTurn(0) error = %v", err)
	}
	if rel.Outcome != OutcomeMonsterTurn {
		t.Fatalf("outcome = %s, want monster-turn", rel.Outcome)
	}
	if a.BattleStats.HP != 0 || s.Queue.Contains("a") {
		t.Fatalf("player HP = %d inQueue=%v, want dead and dequeued", a.BattleStats.HP, s.Queue.Contains("a"))
	}

	rel, err = s.FinishTurn("a", rel.Turn.Turns, now)
	if err != nil {
		t.Fatalf("FinishTurn(1) error = %v", err)
	}
	if rel.Outcome != OutcomeLose {
		t.Fatalf("outcome = %s, want lose", rel.Outcome)
	}
	if a.BattleStats.HP != 16 || a.BattleStats.CHARGE != 0 {
		t.Errorf("HP/CHARGE = %d/%d, want 16/0", a.BattleStats.HP, a.BattleStats.CHARGE)
	}
	if len(s.Monsters) != 1 || s.Turns != 1 || !s.Queue.Contains("m") {
		t.Errorf("lose reset the session: monsters=%d turns=%d", len(s.Monsters), s.Turns)
	}
	if _, err := s.FinishTurn("a", s.Turns, now); !errors.Is(err, ErrBattleOver) {
		t.Errorf("FinishTurn after lose error = %v, want ErrBattleOver", err)
	}
}

func TestMonsterTurnZeroFillsDamage(t *testing.T) {
	a, b := newPlayer("a", 40, 5, 1), newPlayer("b", 40, 5, 1)
	m := newMonster("m", 50, 4, 9)
	m.Attacks = []string{"Unconvinced"}
	s := newSession([]*shared.PlayerRecord{a, b}, []*shared.Monster{m})

	s.FinishTurn("a", 0, now)
	rel, err := s.FinishTurn("b", 0, now)
	if err != nil {
		t.Fatalf("FinishTurn() error = %v", err)
	}
	if rel.Outcome != OutcomeMonsterTurn {
		t.Fatalf("outcome = %s, want monster-turn", rel.Outcome)
	}

	dmg := rel.Turn.Attack.Damage
	if len(dmg) != 2 {
		t.Fatalf("len(damage) = %d, want 2", len(dmg))
	}
	hits := 0
	for _, d := range dmg {
		if d.Damage > 0 {
			hits++
		}
	}
	if hits != 1 {
		t.Errorf("monster hit %d players, want 1", hits)
	}
	if !shared.HasEffect(m, shared.EffectDefenceBoost) {
		t.Error("Unconvinced did not boost the acting monster")
	}
	if rel.Turn.State.Attacker != "m" || rel.Turn.Attack.Label != "Unconvinced" {
		t.Errorf("state = %+v label %q", rel.Turn.State, rel.Turn.Attack.Label)
	}
	if rel.Next.ID != "a" {
		t.Errorf("next = %s, want a", rel.Next.ID)
	}
}

func TestForceReleaseAfterStall(t *testing.T) {
	s := newSession(
		[]*shared.PlayerRecord{newPlayer("a", 30, 5, 9), newPlayer("b", 30, 5, 5)},
		[]*shared.Monster{newMonster("m", 50, 1, 1)},
	)
	attack, state := singleAttack("m")
	res, _ := s.SubmitTurn("a", attack, state)
	s.FinishTurn("a", res.Turns, now)

	if s.Stalled(now.Add(time.Second), 5*time.Second) {
		t.Fatal("Stalled() before timeout")
	}
	if !s.Stalled(now.Add(6*time.Second), 5*time.Second) {
		t.Fatal("Stalled() = false after timeout")
	}
	rel := s.ForceRelease()
	if rel.Outcome != OutcomePointer || rel.Next.ID != "b" {
		t.Errorf("ForceRelease() = %s next %s, want pointer to b", rel.Outcome, rel.Next.ID)
	}
}

func TestResyncRebuildsQueue(t *testing.T) {
	a := newPlayer("a", 30, 5, 9)
	s := newSession([]*shared.PlayerRecord{a}, []*shared.Monster{newMonster("m", 50, 1, 1)})
	attack, state := singleAttack("m")
	s.SubmitTurn("a", attack, state)

	s.Resync([]*shared.PlayerRecord{a, newPlayer("b", 30, 5, 1)}, s.Monsters)
	if s.Queue.Len() != 3 || s.Turns != 0 {
		t.Errorf("after Resync len=%d turns=%d, want 3/0", s.Queue.Len(), s.Turns)
	}
}

func TestLevelReady(t *testing.T) {
	s := newSession(
		[]*shared.PlayerRecord{newPlayer("a", 30, 5, 9), newPlayer("b", 30, 5, 5)},
		nil,
	)
	if s.LevelReady("a", now) {
		t.Fatal("released after one of two acks")
	}
	if !s.LevelReady("b", now) {
		t.Fatal("not released after every ack")
	}
	if s.LevelReadyCount() != 0 {
		t.Errorf("LevelReadyCount() = %d after release", s.LevelReadyCount())
	}
}

func TestSettleAfterParticipantLeaves(t *testing.T) {
	a, b := newPlayer("a", 30, 5, 9), newPlayer("b", 30, 5, 5)
	roster := []*shared.PlayerRecord{a, b}
	participants := func() []string {
		ids := []string{}
		for _, p := range roster {
			ids = append(ids, p.ID)
		}
		return ids
	}
	engine := game.NewEngine(gamedata.MustLoadAll())
	s := New([]*shared.PlayerRecord{a, b}, []*shared.Monster{newMonster("m", 50, 1, 1)}, engine, rand.New(rand.NewSource(1)), participants)

	attack, state := singleAttack("m")
	res, _ := s.SubmitTurn("a", attack, state)
	if released, err := s.AckTurn("a", res.Turns, now); err != nil || released {
		t.Fatalf("AckTurn(a) = %v, %v", released, err)
	}
	if _, ok := s.Settle(false); ok {
		t.Fatal("Settle() released with b still present")
	}

	roster = roster[:1]
	if s.RemovePlayer("b") {
		t.Fatal("RemovePlayer(b) reported b as holding the turn")
	}
	rel, ok := s.Settle(false)
	if !ok {
		t.Fatal("Settle() did not release after b left")
	}
	// b's departure leaves m at the head of the queue.
	if rel.Outcome != OutcomeMonsterTurn {
		t.Errorf("outcome = %s, want monster-turn", rel.Outcome)
	}
}

func TestSettleWhenActingPlayerLeaves(t *testing.T) {
	a, b, c := newPlayer("a", 30, 5, 9), newPlayer("b", 30, 5, 5), newPlayer("c", 30, 5, 3)
	s := newSession([]*shared.PlayerRecord{a, b, c}, []*shared.Monster{newMonster("m", 50, 1, 1)})

	attack, state := singleAttack("m")
	res, _ := s.SubmitTurn("a", attack, state)
	for _, id := range []string{"a", "b"} {
		s.FinishTurn(id, res.Turns, now)
	}
	rel, err := s.FinishTurn("c", res.Turns, now)
	if err != nil || rel.Outcome != OutcomePointer || rel.Next.ID != "b" {
		t.Fatalf("release = %+v, %v, want pointer to b", rel, err)
	}

	if s.RemovePlayer("c") {
		t.Fatal("RemovePlayer(c) reported c as holding the turn")
	}
	if _, ok := s.Settle(false); ok {
		t.Fatal("Settle() released while b still holds the turn")
	}

	if !s.RemovePlayer("b") {
		t.Fatal("RemovePlayer(b) did not report b as holding the turn")
	}
	rel, ok := s.Settle(true)
	if !ok {
		t.Fatal("Settle() did not hand over after b left")
	}
	if rel.Outcome != OutcomeMonsterTurn || rel.Turn.State.Attacker != "m" {
		t.Errorf("release = %s, want m to act", rel.Outcome)
	}
}

func TestSettleHandsOverToNextPlayer(t *testing.T) {
	a, b, c := newPlayer("a", 30, 5, 9), newPlayer("b", 30, 5, 5), newPlayer("c", 30, 5, 3)
	s := newSession([]*shared.PlayerRecord{a, b, c}, []*shared.Monster{newMonster("m", 50, 1, 1)})

	attack, state := singleAttack("m")
	res, _ := s.SubmitTurn("a", attack, state)
	for _, id := range []string{"a", "b", "c"} {
		s.FinishTurn(id, res.Turns, now)
	}

	if !s.RemovePlayer("b") {
		t.Fatal("RemovePlayer(b) did not report b as holding the turn")
	}
	rel, ok := s.Settle(true)
	if !ok || rel.Outcome != OutcomePointer || rel.Next.ID != "c" {
		t.Fatalf("Settle() = %+v, %v, want pointer to c", rel, ok)
	}
	if s.Phase != PhaseAwaitAction {
		t.Errorf("phase = %v, want await-action", s.Phase)
	}
}

func TestFinishTurnAfterHandOverIsStale(t *testing.T) {
	s := newSession(
		[]*shared.PlayerRecord{newPlayer("a", 30, 5, 9), newPlayer("b", 30, 5, 5)},
		[]*shared.Monster{newMonster("m", 50, 1, 1)},
	)
	attack, state := singleAttack("m")
	res, _ := s.SubmitTurn("a", attack, state)
	s.FinishTurn("a", res.Turns, now)
	rel, err := s.FinishTurn("b", res.Turns, now)
	if err != nil || rel.Outcome != OutcomePointer {
		t.Fatalf("release = %+v, %v, want pointer", rel, err)
	}

	for _, id := range []string{"a", "b"} {
		if _, err := s.FinishTurn(id, res.Turns, now); !errors.Is(err, ErrStaleAck) {
			t.Errorf("FinishTurn(%s) retry error = %v, want ErrStaleAck", id, err)
		}
	}
	if s.ReadyCount() != 0 {
		t.Errorf("retry counted: ReadyCount() = %d", s.ReadyCount())
	}
	if head, _ := s.Queue.Current(); head.ID != "b" || s.Phase != PhaseAwaitAction {
		t.Errorf("head = %s phase = %v, want b awaiting action", head.ID, s.Phase)
	}
}
