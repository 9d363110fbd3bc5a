package game

import "encoding/json"

// JoinType selects how a room is chosen for a join request.
type JoinType string

const (
	JoinRandom   JoinType = "random"
	JoinSpecific JoinType = "specific"
	JoinNew      JoinType = "new"
)

// JoinRequest is sent by a client that wants to enter a room.
type JoinRequest struct {
	Room    string   `json:"room"`
	Type    JoinType `json:"joinType"`
	Private bool     `json:"private,omitempty"` // only honored for "new"
}

// JoinInfo is the join-accepted payload: layout info the client needs up front.
type JoinInfo struct {
	Room            string `json:"room"`
	MaxPlayers      int    `json:"maxPlayers"`
	RememberedWords int    `json:"rememberedWords"`
	Private         bool   `json:"private"`
}

// WelcomePayload tells a fresh connection which identity it got.
type WelcomePayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReasonPayload carries a human readable reason (join-rejected, word-rejected).
type ReasonPayload struct {
	Reason string `json:"reason"`
}

// ReadyPayload echoes the ready flag to the connection that toggled it.
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

// StartGatePayload is sent to the room lead after every room update.
type StartGatePayload struct {
	CanStart bool   `json:"canStart"`
	Reason   string `json:"reason,omitempty"`
}

// PlayersPayload is the fixed-length, slot ordered player list; empty slots are null.
type PlayersPayload struct {
	Players []*ParticipantView `json:"players"`
}

// OptionsPayload carries the room options. ForceOverride means clients must
// overwrite any local edits in progress.
type OptionsPayload struct {
	Options       GameOptions `json:"options"`
	ForceOverride bool        `json:"forceOverride"`
}

// TurnMember is one participant holding the current turn.
type TurnMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActiveTurnPayload announces who acts next.
type ActiveTurnPayload struct {
	IsTeam  bool         `json:"isTeam"`
	Team    string       `json:"team,omitempty"`
	Players []TurnMember `json:"players"`
}

// TimerPayload starts the client side countdown.
type TimerPayload struct {
	DurationMs int `json:"durationMs"`
}

// PreviewPayload relays what the current player is typing.
type PreviewPayload struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// WordPayload is an accepted word; Opening marks the round's start word.
type WordPayload struct {
	Word    string `json:"word"`
	Opening bool   `json:"opening,omitempty"`
}

// WinnerPayload is the winner announcement, e.g. "Team 2 wins!".
type WinnerPayload struct {
	Text    string   `json:"text"`
	Winners []string `json:"winners"`
}

// TextPayload carries an idle status line or a chat line.
type TextPayload struct {
	Text string `json:"text"`
}

// SubmitPayload is the submit-word and typing request body.
type SubmitPayload struct {
	Text string `json:"text"`
}

// RoomDescription lists a public room in the lobby.
type RoomDescription struct {
	Name       string `json:"name"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Active     bool   `json:"active"`
}

// ChatPayload is a chat line; notices from the server have no sender.
type ChatPayload struct {
	From string `json:"from,omitempty"`
	Text string `json:"text"`
}

// TeamPayload is the change-team request. Non-integers are ignored.
type TeamPayload struct {
	Team json.Number `json:"team"`
}
