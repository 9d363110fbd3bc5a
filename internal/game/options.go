package game

import "time"

// ModeWordChain is the only game mode.
const ModeWordChain = "word-chain"

// MaxTurnTimeMs caps the turn time a room lead can ask for.
const MaxTurnTimeMs = 10 * 60 * 1000

type GameOptions struct {
	TurnTimeMs   int    `json:"turnTimeMs"`
	TeamsEnabled bool   `json:"teamsEnabled"`
	Mode         string `json:"mode"`
}

func (o GameOptions) TurnTime() time.Duration {
	return time.Duration(o.TurnTimeMs) * time.Millisecond
}

// OptionChange is a partial option set; nil fields stay unchanged.
type OptionChange struct {
	TurnTimeMs   *int    `json:"turnTimeMs,omitempty"`
	TeamsEnabled *bool   `json:"teamsEnabled,omitempty"`
	Mode         *string `json:"mode,omitempty"`
}
