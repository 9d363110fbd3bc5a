package game

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wordchain_backend/internal/words"
)

// NameSource generates player and room names.
type NameSource interface {
	Player() string
	Room() string
}

// Settings are the per deployment room parameters.
type Settings struct {
	MaxPlayers      int
	RememberedWords int
	TurnTime        time.Duration
	MaxStartWordLen int
}

// Hub is the registry of rooms. It creates a room with its engine on the
// first join and destroys both when the last player leaves.
type Hub struct {
	mu    sync.Mutex // guards rooms; taken before any Room.mu
	rooms map[string]*Room

	settings Settings
	source   words.Source
	dict     words.Dictionary
	names    NameSource
	sched    Scheduler
}

// Room pairs the RoomState and engine of one room with its connections.
type Room struct {
	mu      sync.Mutex
	name    string
	state   *RoomState
	game    *Engine
	members map[string]*Client
	closed  bool
}

type HubConfig struct {
	Settings   Settings
	Source     words.Source
	Dictionary words.Dictionary
	Names      NameSource
	Scheduler  Scheduler // nil means RealScheduler
}

func NewHub(cfg HubConfig) *Hub {
	sched := cfg.Scheduler
	if sched == nil {
		sched = RealScheduler
	}
	return &Hub{
		rooms:    make(map[string]*Room),
		settings: cfg.Settings,
		source:   cfg.Source,
		dict:     cfg.Dictionary,
		names:    cfg.Names,
		sched:    sched,
	}
}

func (h *Hub) newRoom(name string, private bool) *Room {
	r := &Room{
		name:    name,
		state:   NewRoomState(name, h.settings.MaxPlayers, private),
		members: make(map[string]*Client),
	}
	chain := NewWordChain(h.source, h.dict, h.settings.MaxStartWordLen)
	r.game = NewWordChainGame(r.state, chain, EngineConfig{
		Options: GameOptions{
			TurnTimeMs: int(h.settings.TurnTime / time.Millisecond),
			Mode:       ModeWordChain,
		},
		Scheduler:  h.sched,
		Locker:     &r.mu,
		Out:        r,
		OnUpdate:   r.update,
		OnRoundEnd: func() { r.emitOptions(true) },
	})
	log.Info().Str("room", name).Bool("private", private).Msg("room created")
	return r
}

// HandleJoin places c into a room according to req. Rejections are reported
// to c and returned.
func (h *Hub) HandleJoin(c *Client, req JoinRequest) (JoinInfo, error) {
	info, err := h.join(c, req)
	if err != nil {
		log.Debug().Str("player", c.id).Str("room", req.Room).Err(err).Msg("join rejected")
		c.send(MsgJoinRejected, ReasonPayload{Reason: err.Error()})
	}
	return info, err
}

func (h *Hub) join(c *Client, req JoinRequest) (JoinInfo, error) {
	if c.room != "" {
		return JoinInfo{}, ErrAlreadyInRoom
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	name := strings.TrimSpace(req.Room)
	private := false
	switch req.Type {
	case JoinRandom:
		name = h.findOpenRoom()
		if name == "" {
			name = h.freshRoomName()
		}
	case JoinSpecific:
		if name == "" {
			return JoinInfo{}, ErrMissingRoomName
		}
		if _, ok := h.rooms[name]; !ok {
			return JoinInfo{}, ErrRoomDoesNotExist
		}
	case JoinNew:
		if name == "" {
			return JoinInfo{}, ErrMissingRoomName
		}
		if _, ok := h.rooms[name]; ok {
			return JoinInfo{}, ErrRoomExists
		}
		private = req.Private
	default:
		return JoinInfo{}, ErrUnknownJoinType
	}

	r, exists := h.rooms[name]
	if !exists {
		r = h.newRoom(name, private)
		h.rooms[name] = r
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if exists {
		if r.state.Get(c.id) != nil {
			return JoinInfo{}, ErrDuplicateID
		}
		if r.state.IsActive() {
			return JoinInfo{}, ErrRoomActive
		}
		if r.state.IsFull() {
			return JoinInfo{}, ErrRoomFull
		}
	}

	p := &Participant{ID: c.id, Name: c.name, Alive: true}
	r.state.Add(p)
	r.game.AssignTeam(p)
	r.members[c.id] = c
	c.room = name

	info := JoinInfo{
		Room:            name,
		MaxPlayers:      r.state.Capacity(),
		RememberedWords: h.settings.RememberedWords,
		Private:         r.state.Private,
	}
	c.send(MsgJoinAccepted, info)
	if !exists {
		r.grantLead(p)
	}
	r.emitOptions(true)
	r.update()
	r.Broadcast(MsgChat, ChatPayload{Text: fmt.Sprintf(textJoinedRoom, p.ShownName)})
	log.Info().Str("room", name).Str("player", p.ID).Int("players", r.state.Occupied()).Msg("player joined")
	return info, nil
}

// findOpenRoom returns a public, idle room with a free slot. h.mu must be held.
func (h *Hub) findOpenRoom() string {
	for _, name := range slices.Sorted(maps.Keys(h.rooms)) {
		r := h.rooms[name]
		r.mu.Lock()
		open := !r.state.Private && !r.state.IsActive() && !r.state.IsFull()
		r.mu.Unlock()
		if open {
			return name
		}
	}
	return ""
}

func (h *Hub) freshRoomName() string {
	for i := 0; i < 10; i++ {
		if name := h.names.Room(); name != "" && h.rooms[name] == nil {
			return name
		}
	}
	return fmt.Sprintf("%s-%s", h.names.Room(), uuid.NewString()[:8])
}

// HandleDisconnect removes c from its room, destroying the room once empty.
func (h *Hub) HandleDisconnect(c *Client) {
	if c.room == "" {
		return
	}

	h.mu.Lock()
	r := h.rooms[c.room]
	c.room = ""
	if r == nil {
		h.mu.Unlock()
		return
	}

	r.mu.Lock()
	p := r.state.Remove(c.id)
	delete(r.members, c.id)
	if r.state.IsEmpty() {
		r.game.Shutdown()
		r.closed = true
		delete(h.rooms, r.name)
		r.mu.Unlock()
		h.mu.Unlock()
		log.Info().Str("room", r.name).Msg("room destroyed")
		return
	}
	h.mu.Unlock()
	defer r.mu.Unlock()

	if p == nil {
		return
	}
	log.Info().Str("room", r.name).Str("player", p.ID).Int("players", r.state.Occupied()).Msg("player left")
	r.Broadcast(MsgChat, ChatPayload{Text: fmt.Sprintf(textLeftRoom, p.ShownName)})
	if p.IsRoomLead {
		r.grantLead(r.state.FirstOccupant())
		r.emitOptions(true)
	}
	r.game.ParticipantLeft(p)
	r.update()
}

// withRoom runs fn under the lock of c's room. Events for a room that is
// gone are dropped.
func (h *Hub) withRoom(c *Client, fn func(r *Room, p *Participant)) {
	if c.room == "" {
		return
	}
	h.mu.Lock()
	r := h.rooms[c.room]
	h.mu.Unlock()
	if r == nil {
		log.Debug().Str("room", c.room).Str("player", c.id).Msg("event for a room that no longer exists")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	p := r.state.Get(c.id)
	if p == nil {
		return
	}
	fn(r, p)
}

func (h *Hub) HandleReadyToggle(c *Client) {
	h.withRoom(c, func(r *Room, p *Participant) {
		p.Ready = !p.Ready
		c.send(MsgReadyState, ReadyPayload{Ready: p.Ready})
		r.update()
	})
}

// HandleStart starts a round when the room lead asks and the room allows it.
func (h *Hub) HandleStart(c *Client) error {
	err := ErrRoomDoesNotExist
	h.withRoom(c, func(r *Room, p *Participant) {
		if !p.IsRoomLead {
			err = ErrNotRoomLead
			return
		}
		check := r.state.CanStart(r.game.Options().TeamsEnabled)
		if !check.CanStart {
			log.Debug().Str("room", r.name).Stringer("reason", check.Reason).Msg("start refused")
			c.send(MsgStartGate, StartGatePayload{CanStart: false, Reason: check.Reason.Text()})
			err = ErrCannotStart
			return
		}
		r.Broadcast(MsgRoundStarting, nil)
		if err = r.game.Start(); err != nil {
			log.Error().Err(err).Str("room", r.name).Msg("could not start round")
		}
	})
	return err
}

// HandleOptionChange applies a partial option set from the room lead while
// no round runs.
func (h *Hub) HandleOptionChange(c *Client, change OptionChange) error {
	err := ErrRoomDoesNotExist
	h.withRoom(c, func(r *Room, p *Participant) {
		if !p.IsRoomLead {
			err = ErrNotRoomLead
			return
		}
		if err = r.game.ApplyOptions(change); err != nil {
			return
		}
		r.emitOptions(false)
		r.update()
	})
	return err
}

// HandleTeamChange moves c to team. Anything but a positive id is ignored.
func (h *Hub) HandleTeamChange(c *Client, team int) {
	if team < 1 {
		return
	}
	h.withRoom(c, func(r *Room, p *Participant) {
		if r.state.IsActive() || !r.game.Options().TeamsEnabled {
			return
		}
		p.Team = team
		r.update()
	})
}

func (h *Hub) HandleSubmit(c *Client, word string) error {
	err := ErrRoomDoesNotExist
	h.withRoom(c, func(r *Room, p *Participant) {
		err = r.game.Submit(p.ID, word)
	})
	return err
}

func (h *Hub) HandleTyping(c *Client, text string) {
	h.withRoom(c, func(r *Room, p *Participant) {
		r.game.Preview(p.ID, text)
	})
}

// HandleChat relays plain chat; command parsing lives outside the server.
func (h *Hub) HandleChat(c *Client, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	h.withRoom(c, func(r *Room, p *Participant) {
		r.Broadcast(MsgChat, ChatPayload{From: p.ShownName, Text: text})
	})
}

// PublicRooms describes every non-private room, sorted by name.
func (h *Hub) PublicRooms() []RoomDescription {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]RoomDescription, 0, len(h.rooms))
	for _, name := range slices.Sorted(maps.Keys(h.rooms)) {
		r := h.rooms[name]
		r.mu.Lock()
		if !r.state.Private {
			out = append(out, RoomDescription{
				Name:       name,
				Players:    r.state.Occupied(),
				MaxPlayers: r.state.Capacity(),
				Active:     r.state.IsActive(),
			})
		}
		r.mu.Unlock()
	}
	return out
}

// Broadcast sends a message to every connection in the room. r.mu must be held.
func (r *Room) Broadcast(msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("could not encode message")
		return
	}
	for _, c := range r.members {
		c.deliver(data)
	}
}

func (r *Room) grantLead(p *Participant) {
	if p == nil {
		return
	}
	p.IsRoomLead = true
	p.Ready = true
	if c := r.members[p.ID]; c != nil {
		c.send(MsgRoomLeadGranted, nil)
	}
}

func (r *Room) emitOptions(force bool) {
	r.Broadcast(MsgOptions, OptionsPayload{Options: r.game.Options(), ForceOverride: force})
}

// update republishes the start gate, the player list and the idle line.
func (r *Room) update() {
	check := r.state.CanStart(r.game.Options().TeamsEnabled)
	if lead := r.state.Lead(); lead != nil {
		if c := r.members[lead.ID]; c != nil {
			c.send(MsgStartGate, StartGatePayload{CanStart: check.CanStart, Reason: check.Reason.Text()})
		}
	}
	r.Broadcast(MsgPlayers, PlayersPayload{Players: r.state.Snapshot()})
	if r.state.IsActive() {
		return
	}
	text := check.Reason.Text()
	if check.CanStart {
		if lead := r.state.Lead(); lead != nil {
			text = fmt.Sprintf(textIdleAwaitingStart, lead.ShownName)
		}
	}
	r.Broadcast(MsgIdleStatus, TextPayload{Text: text})
}
