package room

import (
	"encoding/json"

	"digital-world/internal/protocol"
)

func (g *Registry) handleMouseMove(r *Room, clientID string, e *protocol.MouseMove) error {
	r.Cursors[clientID] = protocol.Cursor{ID: clientID, X: e.X, Y: e.Y, Scaling: e.Scaling}
	g.out.Broadcast(r.ID, protocol.EventMouseMove, protocol.Cursors{Cursors: r.Cursors, Type: protocol.EventMouseMove})
	return nil
}

// handleDialogue shows a scenario unless every player already finished it.
func (g *Registry) handleDialogue(r *Room, clientID string, e *protocol.Dialogue) error {
	if r.dialogueCount(e.Scenario) == len(r.RosterIDs()) {
		return nil
	}
	msg := protocol.DialogueTexts{Texts: g.data.Dialogues.Texts(e.Scenario), Scenario: e.Scenario}
	if e.ForceAll {
		g.out.Broadcast(r.ID, protocol.EventDialogue, msg)
	} else {
		g.out.Send(clientID, protocol.EventDialogue, msg)
	}
	return nil
}

func (g *Registry) handleDialogueEnd(r *Room, e *protocol.DialogueEnd) error {
	r.Dialogues = append(r.Dialogues, e.Scenario)
	if r.dialogueCount(e.Scenario) != len(r.RosterIDs()) {
		return nil
	}
	if !g.data.Dialogues.IsSticky(e.Scenario) {
		r.clearDialogue(e.Scenario)
	}
	g.out.Broadcast(r.ID, protocol.EventDialogueEnd, protocol.ScenarioNotice{Scenario: e.Scenario})
	return nil
}

func (g *Registry) handleAction(r *Room, clientID string, e *protocol.Action) error {
	msg := protocol.ScenarioNotice{Scenario: e.Scenario}
	if e.ForceAll {
		g.out.Broadcast(r.ID, protocol.EventAction, msg)
	} else {
		g.out.Send(clientID, protocol.EventAction, msg)
	}
	return nil
}

func (g *Registry) handleActionReady(r *Room, clientID string, e *protocol.ActionReady) error {
	b := r.action(e.Scenario)
	if !e.Ready {
		b.Withdraw(clientID)
		return nil
	}
	if _, released := b.Ack(clientID, struct{}{}, g.now()); released {
		g.out.Broadcast(r.ID, protocol.EventAction, protocol.ScenarioNotice{Scenario: e.Scenario})
	}
	return nil
}

// handleSelects sets the sender's selection; nil clears it.
func (g *Registry) handleSelects(r *Room, clientID string, sel json.RawMessage) error {
	if len(sel) == 0 {
		sel = json.RawMessage("null")
	}
	r.Selects[clientID] = sel
	g.out.Broadcast(r.ID, protocol.EventSelects, protocol.Selects{Selects: r.Selects, Type: protocol.EventSelectsUpdate})
	return nil
}

func (g *Registry) handleGameUpdate(r *Room, clientID string, e *protocol.GameUpdate) error {
	e.Player.ID = clientID
	if e.Player.Customization == nil {
		e.Player.Customization = map[string]any{}
	}
	r.Players[clientID] = e.Player
	if r.Battle != nil {
		r.Battle.ReplacePlayer(e.Player)
	}
	g.out.Broadcast(r.ID, protocol.EventGameUpdate, protocol.Players{Players: r.Players, Type: protocol.EventGameUpdate})
	return nil
}

func (g *Registry) handleTaskInitialize(r *Room, e *protocol.TaskInitialize) error {
	g.out.Broadcast(r.ID, protocol.EventTask, protocol.TaskMessage{Type: protocol.EventTaskInitialize, Tasks: e.Tasks})
	return nil
}

func (g *Registry) handleTaskUpdate(r *Room, e *protocol.TaskUpdate) error {
	g.out.Broadcast(r.ID, protocol.EventTask, protocol.TaskMessage{
		Type:         protocol.EventTaskUpdate,
		OpenTasks:    e.OpenTasks,
		CurrentTasks: e.CurrentTasks,
	})
	return nil
}

// truthy mirrors how clients treat a selection: absent, null, false, zero
// and the empty string mean nothing was selected.
func truthy(sel json.RawMessage) bool {
	switch string(sel) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
