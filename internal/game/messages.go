package game

// Inbound message types.
const (
	MsgJoin          = "join"
	MsgSubmitWord    = "submit-word"
	MsgTyping        = "typing"
	MsgToggleReady   = "toggle-ready"
	MsgStartGame     = "start-game"
	MsgChangeOptions = "change-options"
	MsgChangeTeam    = "change-team"
	MsgChat          = "chat"
)

// Outbound message types.
const (
	MsgWelcome         = "welcome"
	MsgJoinAccepted    = "join-accepted"
	MsgJoinRejected    = "join-rejected"
	MsgRoomLeadGranted = "room-lead-granted"
	MsgReadyState      = "ready-state"
	MsgStartGate       = "start-gate"
	MsgPlayers         = "players"
	MsgOptions         = "options"
	MsgRoundStarting   = "round-starting"
	MsgActiveTurn      = "active-turn"
	MsgTimerStart      = "timer-start"
	MsgInputPreview    = "turn-input-preview"
	MsgWordAccepted    = "word-accepted"
	MsgWordRejected    = "word-rejected"
	MsgRoundEnded      = "round-ended"
	MsgWinner          = "winner"
	MsgIdleStatus      = "idle-status"
)

const (
	textIdleOnlyOnePlayer = "Waiting for at least one more player to join..."
	textIdleOnlyOneTeam   = `"Team" mode requires at least 2 different teams to start!`
	textIdleAwaitingReady = `Waiting for all players to press "Ready"...`
	textIdleAwaitingStart = "Waiting for %s to start the game..."
	textWinSuffix         = " wins!"
	textNoWinner          = "No one"
	textJoinedRoom        = "%s joined the room!"
	textLeftRoom          = "%s left the room!"
)

// Text returns the idle message for a blocked start. Allowed and active
// rounds have no text of their own.
func (b StartBlock) Text() string {
	switch b {
	case StartBlockedNeedPlayers:
		return textIdleOnlyOnePlayer
	case StartBlockedAwaitingReady:
		return textIdleAwaitingReady
	case StartBlockedNeedTeams:
		return textIdleOnlyOneTeam
	}
	return ""
}

// String names the reason for the start-gate payload.
func (b StartBlock) String() string {
	switch b {
	case StartAllowed:
		return "allowed"
	case StartBlockedActive:
		return "active"
	case StartBlockedNeedPlayers:
		return "need-players"
	case StartBlockedAwaitingReady:
		return "awaiting-ready"
	case StartBlockedNeedTeams:
		return "need-teams"
	}
	return "unknown"
}
