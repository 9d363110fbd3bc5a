package game

import (
	"fmt"
	"unicode/utf8"

	"wordchain_backend/internal/utils"
	"wordchain_backend/internal/words"
)

// WordChain is the last-letter rule set: every word must start with the
// last letter of the previous one and may be used once per round.
type WordChain struct {
	source   words.Source
	dict     words.Dictionary
	maxStart int

	used     map[string]bool
	expected rune // utf8.RuneError while no round runs
}

func NewWordChain(source words.Source, dict words.Dictionary, maxStartLen int) *WordChain {
	return &WordChain{
		source:   source,
		dict:     dict,
		maxStart: maxStartLen,
		used:     make(map[string]bool),
		expected: utf8.RuneError,
	}
}

// NewWordChainGame builds the engine for a room running the word chain mode.
func NewWordChainGame(state *RoomState, chain *WordChain, cfg EngineConfig) *Engine {
	if cfg.Options.Mode == "" {
		cfg.Options.Mode = ModeWordChain
	}
	return NewEngine(state, chain, cfg)
}

func (w *WordChain) ExpectedStart() rune { return w.expected }
func (w *WordChain) UsedCount() int      { return len(w.used) }

func (w *WordChain) BeginRound(out Emitter) error {
	start, err := w.source.Random(w.maxStart)
	if err != nil {
		return fmt.Errorf("generate start word: %w", err)
	}
	start = utils.NormalizeString(start)
	if start == "" {
		return fmt.Errorf("generate start word: %w", words.ErrNoWords)
	}
	w.accept(start)
	out.Broadcast(MsgWordAccepted, WordPayload{Word: start, Opening: true})
	return nil
}

func (w *WordChain) EndRound() {
	w.used = make(map[string]bool)
	w.expected = utf8.RuneError
}

// Evaluate rejects a word by broadcasting why; the round state is untouched
// in that case.
func (w *WordChain) Evaluate(input string, out Emitter) error {
	word := utils.NormalizeString(input)
	if err := w.validate(word); err != nil {
		out.Broadcast(MsgWordRejected, ReasonPayload{Reason: err.Error()})
		return err
	}
	w.accept(word)
	out.Broadcast(MsgWordAccepted, WordPayload{Word: word})
	return nil
}

func (w *WordChain) validate(word string) error {
	if word == "" || utils.FirstRune(word) != w.expected {
		return ErrInvalidWordStart
	}
	if w.used[word] {
		return ErrDuplicateWord
	}
	if !w.dict.Contains(word) {
		return ErrInvalidWord
	}
	return nil
}

func (w *WordChain) accept(word string) {
	w.used[word] = true
	w.expected = utils.LastRune(word)
}
