package room

import "errors"

var (
	ErrUnknownRoom   = errors.New("unknown room")
	ErrRoomExists    = errors.New("room already exists")
	ErrNotMember     = errors.New("client is not in a room")
	ErrNotHost       = errors.New("only the host can do that")
	ErrNotReady      = errors.New("not every player is ready")
	ErrNoSession     = errors.New("no battle in progress")
	ErrNoQuiz        = errors.New("no quiz drawn")
	ErrUnknownPlayer = errors.New("player does not belong to the room")
	ErrUnhandled     = errors.New("unhandled event")
)
