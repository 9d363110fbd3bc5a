package game

import "errors"

// Join and start errors carry the text shown to players.
var (
	ErrMissingRoomName  = errors.New("Please enter a room name!")
	ErrRoomExists       = errors.New("Room with that name already exists!")
	ErrRoomDoesNotExist = errors.New("No room exists with that name!")
	ErrRoomFull         = errors.New("Cannot join room: Room is full! Retrying...")
	ErrRoomActive       = errors.New("Cannot join room: Game is already in progress! Retrying...")
	ErrUnknownJoinType  = errors.New("Unknown join type!")
	ErrAlreadyInRoom    = errors.New("Already in a room!")
	ErrDuplicateID      = errors.New("Someone with your id is already in that room!")
)

// Word errors are broadcast to the room, the chain is shared state.
var (
	ErrInvalidWord      = errors.New("Not a word!")
	ErrDuplicateWord    = errors.New("Word already used before!")
	ErrInvalidWordStart = errors.New("Word starts with wrong letter!")
)

var (
	ErrRoundActive   = errors.New("round already in progress")
	ErrRoundInactive = errors.New("no round in progress")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotRoomLead   = errors.New("only the room lead can do that")
	ErrCannotStart   = errors.New("round can not start yet")
)
