package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Emitter broadcasts a message to every connection of one room.
type Emitter interface {
	Broadcast(msgType string, payload any)
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

// Mode plugs game rules into the Engine.
type Mode interface {
	// BeginRound runs when a round starts, before the first turn.
	BeginRound(out Emitter) error
	// EndRound discards all round scoped state.
	EndRound()
	// Evaluate checks input from a turn holder. A nil error is a turn success.
	Evaluate(input string, out Emitter) error
}

// EngineConfig wires an Engine to its room.
type EngineConfig struct {
	Options   GameOptions
	Scheduler Scheduler
	// Locker guards the room; timeout callbacks take it before touching state.
	Locker sync.Locker
	Out    Emitter
	// OnUpdate republishes the room view after state changes.
	OnUpdate func()
	// OnRoundEnd runs after the room went back to idle.
	OnRoundEnd func()
}

// Engine is a timed, cancellable turn rotation over a RoomState. Except for
// timeout callbacks, every method expects the caller to hold the room lock.
type Engine struct {
	state *RoomState
	mode  Mode
	opts  GameOptions

	sched      Scheduler
	locker     sync.Locker
	out        Emitter
	onUpdate   func()
	onRoundEnd func()

	// generation invalidates every timeout scheduled before the last
	// state transition.
	generation uint64
	pending    Timer
	turn       []string // ids holding the current turn
}

func NewEngine(state *RoomState, mode Mode, cfg EngineConfig) *Engine {
	e := &Engine{
		state:      state,
		mode:       mode,
		opts:       cfg.Options,
		sched:      cfg.Scheduler,
		locker:     cfg.Locker,
		out:        cfg.Out,
		onUpdate:   cfg.OnUpdate,
		onRoundEnd: cfg.OnRoundEnd,
	}
	if e.sched == nil {
		e.sched = RealScheduler
	}
	if e.locker == nil {
		e.locker = &sync.Mutex{}
	}
	return e
}

func (e *Engine) Options() GameOptions { return e.opts }
func (e *Engine) Generation() uint64   { return e.generation }

// CurrentTurn returns the ids allowed to act right now.
func (e *Engine) CurrentTurn() []string {
	return append([]string(nil), e.turn...)
}

func (e *Engine) IsTurnHolder(id string) bool {
	for _, t := range e.turn {
		if t == id {
			return true
		}
	}
	return false
}

// AssignTeam gives a newly joined participant its team id.
func (e *Engine) AssignTeam(p *Participant) {
	if e.opts.TeamsEnabled {
		p.Team = e.state.FreeTeamID()
		return
	}
	p.Team = e.state.SlotOf(p.ID) + 1
}

// ApplyOptions merges a partial option change. The teams flag is applied
// first so that slot based team ids come from the current roster.
func (e *Engine) ApplyOptions(change OptionChange) error {
	if e.state.IsActive() {
		return ErrRoundActive
	}
	if change.TeamsEnabled != nil {
		wasEnabled := e.opts.TeamsEnabled
		e.opts.TeamsEnabled = *change.TeamsEnabled
		if wasEnabled && !e.opts.TeamsEnabled {
			e.state.AssignSlotTeams()
		}
	}
	if change.TurnTimeMs != nil && *change.TurnTimeMs > 0 {
		e.opts.TurnTimeMs = min(*change.TurnTimeMs, MaxTurnTimeMs)
	}
	if change.Mode != nil && *change.Mode == ModeWordChain {
		e.opts.Mode = *change.Mode
	}
	return nil
}

// Start begins a round and moves straight to the first turn.
func (e *Engine) Start() error {
	if e.state.IsActive() {
		return ErrRoundActive
	}
	e.state.SetActive()
	if e.opts.TeamsEnabled {
		e.state.EstablishTeamOrder()
	}
	if err := e.mode.BeginRound(e.out); err != nil {
		e.mode.EndRound()
		e.state.AbortRound()
		e.update()
		return fmt.Errorf("begin round: %w", err)
	}
	log.Info().Str("room", e.state.Name).Bool("teams", e.opts.TeamsEnabled).Msg("round started")
	e.step()
	return nil
}

// Submit forwards input from a turn holder to the mode. A valid input ends
// the turn at once instead of waiting for the timeout.
func (e *Engine) Submit(id, input string) error {
	if !e.state.IsActive() {
		return ErrRoundInactive
	}
	if !e.IsTurnHolder(id) {
		return ErrNotYourTurn
	}
	if err := e.mode.Evaluate(input, e.out); err != nil {
		return err
	}
	e.step()
	return nil
}

// Preview relays the raw typing buffer of a turn holder. It never changes state.
func (e *Engine) Preview(id, text string) {
	if !e.state.IsActive() || !e.IsTurnHolder(id) {
		return
	}
	p := e.state.Get(id)
	if p == nil {
		return
	}
	e.out.Broadcast(MsgInputPreview, PreviewPayload{Name: p.ShownName, Text: text})
}

// ParticipantLeft reacts to p having been removed from the room mid-round.
// A departed turn holder is skipped right away; a round that can no longer
// continue ends right away.
func (e *Engine) ParticipantLeft(p *Participant) {
	if !e.state.IsActive() || p == nil {
		return
	}
	if e.IsTurnHolder(p.ID) {
		remaining := e.turn[:0]
		for _, id := range e.turn {
			if id != p.ID {
				remaining = append(remaining, id)
			}
		}
		e.turn = remaining
		if len(e.turn) == 0 {
			log.Debug().Str("room", e.state.Name).Str("player", p.ID).Msg("turn holder left, skipping turn")
			e.step()
			return
		}
	}
	if !e.canContinue() {
		e.finish()
	}
}

// Shutdown invalidates pending timeouts of a room being destroyed.
func (e *Engine) Shutdown() {
	e.invalidate()
	if e.state.IsActive() {
		e.mode.EndRound()
	}
	e.turn = nil
}

// invalidate bumps the generation and makes a best effort to stop the timer.
func (e *Engine) invalidate() {
	e.generation++
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

func (e *Engine) canContinue() bool {
	if e.opts.TeamsEnabled {
		return e.state.AliveTeamCount() >= 2
	}
	return e.state.AliveCount() >= 2
}

func (e *Engine) step() {
	e.invalidate()
	if !e.canContinue() {
		e.finish()
		return
	}

	var (
		next []*Participant
		team int
	)
	if e.opts.TeamsEnabled {
		team, next = e.state.AdvanceTeam()
	} else if p := e.state.AdvancePlayer(); p != nil {
		next = []*Participant{p}
	}
	if len(next) == 0 {
		e.finish()
		return
	}
	e.beginTurn(team, next)
}

func (e *Engine) beginTurn(team int, next []*Participant) {
	ids := make([]string, 0, len(next))
	members := make([]TurnMember, 0, len(next))
	for _, p := range next {
		ids = append(ids, p.ID)
		members = append(members, TurnMember{ID: p.ID, Name: p.ShownName})
	}
	e.turn = ids
	e.state.SetCurrent(ids)
	e.update()

	turn := ActiveTurnPayload{IsTeam: e.opts.TeamsEnabled, Players: members}
	if e.opts.TeamsEnabled {
		turn.Team = teamName(team)
	}
	e.out.Broadcast(MsgActiveTurn, turn)
	e.out.Broadcast(MsgTimerStart, TimerPayload{DurationMs: e.opts.TurnTimeMs})

	gen := e.generation
	e.pending = e.sched.AfterFunc(e.opts.TurnTime(), func() { e.expire(gen) })
}

// expire runs on the scheduler's goroutine.
func (e *Engine) expire(gen uint64) {
	e.locker.Lock()
	defer e.locker.Unlock()

	if gen != e.generation || !e.state.IsActive() {
		return
	}
	e.pending = nil
	for _, id := range e.turn {
		e.state.SetDefeated(id)
	}
	log.Debug().Str("room", e.state.Name).Strs("players", e.turn).Msg("turn timed out")
	e.update()
	e.step()
}

func (e *Engine) finish() {
	e.invalidate()
	e.mode.EndRound()

	winners := e.winners()
	names := make([]string, 0, len(winners))
	for _, w := range winners {
		w.Wins++
		names = append(names, w.ShownName)
	}
	text := e.winnerName(winners) + textWinSuffix
	e.out.Broadcast(MsgRoundEnded, nil)
	e.out.Broadcast(MsgWinner, WinnerPayload{Text: text, Winners: names})
	log.Info().Str("room", e.state.Name).Strs("winners", names).Msg("round ended")

	e.turn = nil
	e.state.SetInactive()
	e.update()
	if e.onRoundEnd != nil {
		e.onRoundEnd()
	}
}

func (e *Engine) winners() []*Participant {
	first := e.state.FirstAlive()
	if first == nil {
		return nil
	}
	if e.opts.TeamsEnabled {
		return e.state.MembersOf(first.Team)
	}
	return []*Participant{first}
}

func (e *Engine) winnerName(winners []*Participant) string {
	if len(winners) == 0 {
		return textNoWinner
	}
	if e.opts.TeamsEnabled {
		return teamName(winners[0].Team)
	}
	return winners[0].ShownName
}

func (e *Engine) update() {
	if e.onUpdate != nil {
		e.onUpdate()
	}
}

func teamName(team int) string {
	return fmt.Sprintf("Team %d", team)
}
