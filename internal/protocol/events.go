// Package protocol defines the websocket wire format: one JSON envelope per
// frame carrying an event name and its payload.
package protocol

// Inbound event names.
const (
	EventLobbyCreate                = "lobby-create"
	EventLobbyJoin                  = "lobby-join"
	EventLobbyUpdate                = "lobby-update"
	EventLobbyStartGame             = "lobby-startgame"
	EventMessageSend                = "message-send"
	EventMouseMove                  = "mouse-move"
	EventDialogue                   = "dialogue"
	EventDialogueEnd                = "dialogue-end"
	EventAction                     = "action"
	EventActionReady                = "action-ready"
	EventSelectsUpdate              = "selects-update"
	EventSelectsReset               = "selects-reset"
	EventGameUpdate                 = "game-update"
	EventExplorationInitialize      = "exploration-initialize"
	EventExplorationForceInitialize = "exploration-force-initialize"
	EventBattleInitialize           = "battle-initialize"
	EventBattleUpdate               = "battle-update"
	EventBattleTurn                 = "battle-turn"
	EventBattleTurnFinished         = "battle-turn-finished"
	EventLevelingReady              = "leveling-ready"
	EventLevelingUpdate             = "leveling-update"
	EventTaskInitialize             = "task-initialize"
	EventTaskUpdate                 = "task-update"
	EventQuizInitialize             = "quiz-initialize"
	EventQuizFix                    = "quiz-fix"
	EventQuizUpdate                 = "quiz-update"
)

// Outbound event names not shared with inbound ones.
const (
	EventLobbyListing  = "lobby-listing"
	EventLobbyJoined   = "lobby-joined"
	EventMessageUpdate = "message-update"
	EventSelects       = "selects"
	EventBattle        = "battle"
	EventLeveling      = "leveling"
	EventTask          = "task"
	EventQuiz          = "quiz"
	EventQuizCorrect   = "quiz-correct"
	EventQuizWrong     = "quiz-wrong"
)

// Values of the "type" field inside battle, leveling and other grouped
// outbound payloads.
const (
	TypeBattleInitialize   = "battle-initialize"
	TypeBattleUpdate       = "battle-update"
	TypeBattleTurn         = "battle-turn"
	TypeBattleTurnFinished = "battle-turn-finished"
	TypeBattleEnd          = "battle-end"
	TypeBattleLose         = "battle-lose"
	TypeBattlePointer      = "battle-pointer"
	TypeLevelingEnd        = "leveling-end"
	TypeLevelingUpdate     = "leveling-update"
)

// SystemSender is the sender shown on server-generated chat lines.
const SystemSender = "[system]"
