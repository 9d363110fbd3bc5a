package game

import "fmt"

// noCursor marks a turn cursor before the first turn of a round.
const noCursor = -1

// Participant is one occupied slot of a room.
type Participant struct {
	ID            string
	Name          string
	ShownName     string // Name plus a "#n" suffix while duplicates coexist
	IsRoomLead    bool
	Ready         bool
	Alive         bool
	IsCurrentTurn bool
	Wins          int
	Team          int // 0 until assigned
}

// ParticipantView is the client facing form of a Participant.
type ParticipantView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsCurrentTurn bool   `json:"isCurrentTurn"`
	IsRoomLead    bool   `json:"isRoomLead"`
	Ready         bool   `json:"ready"`
	Alive         bool   `json:"alive"`
	Wins          int    `json:"wins"`
	Team          int    `json:"team"`
}

// StartBlock tells why a round can not start.
type StartBlock int

const (
	StartAllowed StartBlock = iota
	StartBlockedActive
	StartBlockedNeedPlayers
	StartBlockedAwaitingReady
	StartBlockedNeedTeams
)

// StartCheck is the result of RoomState.CanStart.
type StartCheck struct {
	CanStart bool
	Reason   StartBlock
}

// RoomState owns the fixed slot array of one room. It knows nothing about
// game rules or timers.
type RoomState struct {
	Name    string
	Private bool

	active     bool
	slots      []*Participant
	occupied   int
	teamOrder  []int // filled on round start in team mode
	slotCursor int
	teamCursor int
}

func NewRoomState(name string, maxSlots int, private bool) *RoomState {
	return &RoomState{
		Name:       name,
		Private:    private,
		slots:      make([]*Participant, maxSlots),
		slotCursor: noCursor,
		teamCursor: noCursor,
	}
}

func (s *RoomState) Capacity() int { return len(s.slots) }
func (s *RoomState) Occupied() int { return s.occupied }
func (s *RoomState) IsEmpty() bool { return s.occupied == 0 }
func (s *RoomState) IsFull() bool  { return s.occupied >= len(s.slots) }
func (s *RoomState) IsActive() bool {
	return s.active
}

func (s *RoomState) SetActive() {
	s.active = true
}

// SetInactive ends a round: players are revived, non-leads lose their ready
// flag and both cursors reset.
func (s *RoomState) SetInactive() {
	s.active = false
	s.each(func(_ int, p *Participant) {
		p.Alive = true
		p.IsCurrentTurn = false
		if !p.IsRoomLead {
			p.Ready = false
		}
	})
	s.slotCursor = noCursor
	s.teamCursor = noCursor
	s.teamOrder = nil
}

// AbortRound undoes SetActive for a round that never got its first turn.
// Ready flags are kept.
func (s *RoomState) AbortRound() {
	s.active = false
	s.each(func(_ int, p *Participant) { p.IsCurrentTurn = false })
	s.slotCursor = noCursor
	s.teamCursor = noCursor
	s.teamOrder = nil
}

// Add writes p into the lowest free slot. It returns false if the room is full.
func (s *RoomState) Add(p *Participant) bool {
	if s.IsFull() {
		return false
	}
	for i, slot := range s.slots {
		if slot == nil {
			s.slots[i] = p
			s.occupied++
			s.ComputeShownNames()
			return true
		}
	}
	return false
}

// Remove clears the slot of id and returns the removed participant. Leadership
// and turn cursors are left untouched.
func (s *RoomState) Remove(id string) *Participant {
	for i, p := range s.slots {
		if p != nil && p.ID == id {
			s.slots[i] = nil
			s.occupied--
			s.ComputeShownNames()
			return p
		}
	}
	return nil
}

func (s *RoomState) Get(id string) *Participant {
	if i := s.SlotOf(id); i >= 0 {
		return s.slots[i]
	}
	return nil
}

// SlotOf returns the slot index of id, or -1.
func (s *RoomState) SlotOf(id string) int {
	for i, p := range s.slots {
		if p != nil && p.ID == id {
			return i
		}
	}
	return -1
}

// Participants returns the occupants in slot order.
func (s *RoomState) Participants() []*Participant {
	out := make([]*Participant, 0, s.occupied)
	s.each(func(_ int, p *Participant) { out = append(out, p) })
	return out
}

func (s *RoomState) each(fn func(slot int, p *Participant)) {
	for i, p := range s.slots {
		if p != nil {
			fn(i, p)
		}
	}
}

// FirstOccupant returns the lowest index participant.
func (s *RoomState) FirstOccupant() *Participant {
	for _, p := range s.slots {
		if p != nil {
			return p
		}
	}
	return nil
}

func (s *RoomState) Lead() *Participant {
	for _, p := range s.slots {
		if p != nil && p.IsRoomLead {
			return p
		}
	}
	return nil
}

// FirstAlive can be nil if the last live players left the room.
func (s *RoomState) FirstAlive() *Participant {
	for _, p := range s.slots {
		if p != nil && p.Alive {
			return p
		}
	}
	return nil
}

func (s *RoomState) MembersOf(team int) []*Participant {
	var out []*Participant
	s.each(func(_ int, p *Participant) {
		if p.Team == team {
			out = append(out, p)
		}
	})
	return out
}

// FreeTeamID returns the smallest positive team id nobody holds.
func (s *RoomState) FreeTeamID() int {
	taken := make(map[int]bool)
	s.each(func(_ int, p *Participant) {
		if p.Team > 0 {
			taken[p.Team] = true
		}
	})
	next := 1
	for taken[next] {
		next++
	}
	return next
}

// AssignSlotTeams gives every occupant its own team: slot index + 1.
func (s *RoomState) AssignSlotTeams() {
	s.each(func(i int, p *Participant) { p.Team = i + 1 })
}

func (s *RoomState) CanStart(teams bool) StartCheck {
	blocked := func(reason StartBlock) StartCheck { return StartCheck{Reason: reason} }
	if s.active {
		return blocked(StartBlockedActive)
	}
	if s.occupied < 2 {
		return blocked(StartBlockedNeedPlayers)
	}
	for _, p := range s.slots {
		if p != nil && !p.Ready {
			return blocked(StartBlockedAwaitingReady)
		}
	}
	if teams && s.countTeams(false) < 2 {
		return blocked(StartBlockedNeedTeams)
	}
	return StartCheck{CanStart: true, Reason: StartAllowed}
}

func (s *RoomState) AliveCount() int {
	n := 0
	s.each(func(_ int, p *Participant) {
		if p.Alive {
			n++
		}
	})
	return n
}

// AliveTeamCount counts distinct teams with at least one live member.
func (s *RoomState) AliveTeamCount() int {
	return s.countTeams(true)
}

func (s *RoomState) countTeams(aliveOnly bool) int {
	seen := make(map[int]bool)
	s.each(func(_ int, p *Participant) {
		if !aliveOnly || p.Alive {
			seen[p.Team] = true
		}
	})
	return len(seen)
}

func (s *RoomState) IsTeamAlive(team int) bool {
	for _, p := range s.slots {
		if p != nil && p.Team == team && p.Alive {
			return true
		}
	}
	return false
}

// EstablishTeamOrder fixes the team rotation for a round: the order in which
// team ids first appear scanning occupied slots.
func (s *RoomState) EstablishTeamOrder() {
	s.teamOrder = nil
	seen := make(map[int]bool)
	s.each(func(_ int, p *Participant) {
		if !seen[p.Team] {
			seen[p.Team] = true
			s.teamOrder = append(s.teamOrder, p.Team)
		}
	})
}

func (s *RoomState) TeamOrder() []int {
	return s.teamOrder
}

// NextAliveSlot scans circularly from from+1 (slot 0 when from is noCursor)
// for the next occupied live slot. It returns -1 if a full cycle finds none.
func (s *RoomState) NextAliveSlot(from int) int {
	n := len(s.slots)
	start := 0
	if from != noCursor {
		start = (from + 1) % n
	}
	for step := 0; step < n; step++ {
		i := (start + step) % n
		if p := s.slots[i]; p != nil && p.Alive {
			return i
		}
	}
	return -1
}

// NextAliveTeam is NextAliveSlot over the team order. It returns an index
// into TeamOrder, or -1.
func (s *RoomState) NextAliveTeam(from int) int {
	n := len(s.teamOrder)
	if n == 0 {
		return -1
	}
	start := 0
	if from != noCursor {
		start = (from + 1) % n
	}
	for step := 0; step < n; step++ {
		i := (start + step) % n
		if s.IsTeamAlive(s.teamOrder[i]) {
			return i
		}
	}
	return -1
}

// AdvancePlayer moves the solo cursor and returns the next participant.
func (s *RoomState) AdvancePlayer() *Participant {
	i := s.NextAliveSlot(s.slotCursor)
	if i < 0 {
		return nil
	}
	s.slotCursor = i
	return s.slots[i]
}

// AdvanceTeam moves the team cursor and returns the team id with its members.
func (s *RoomState) AdvanceTeam() (int, []*Participant) {
	i := s.NextAliveTeam(s.teamCursor)
	if i < 0 {
		return 0, nil
	}
	s.teamCursor = i
	team := s.teamOrder[i]
	return team, s.MembersOf(team)
}

// SetCurrent flags exactly the given ids as holding the turn.
func (s *RoomState) SetCurrent(ids []string) {
	current := make(map[string]bool, len(ids))
	for _, id := range ids {
		current[id] = true
	}
	s.each(func(_ int, p *Participant) { p.IsCurrentTurn = current[p.ID] })
}

func (s *RoomState) SetDefeated(id string) {
	if p := s.Get(id); p != nil {
		p.Alive = false
	}
}

// ComputeShownNames numbers duplicate names by slot order: Name#1, Name#2...
func (s *RoomState) ComputeShownNames() {
	count := make(map[string]int)
	s.each(func(_ int, p *Participant) { count[p.Name]++ })

	next := make(map[string]int)
	s.each(func(_ int, p *Participant) {
		if count[p.Name] < 2 {
			p.ShownName = p.Name
			return
		}
		next[p.Name]++
		p.ShownName = fmt.Sprintf("%s#%d", p.Name, next[p.Name])
	})
}

// Snapshot returns one entry per slot; empty slots are nil.
func (s *RoomState) Snapshot() []*ParticipantView {
	out := make([]*ParticipantView, len(s.slots))
	s.each(func(i int, p *Participant) {
		out[i] = &ParticipantView{
			ID:            p.ID,
			Name:          p.ShownName,
			IsCurrentTurn: p.IsCurrentTurn,
			IsRoomLead:    p.IsRoomLead,
			Ready:         p.Ready,
			Alive:         p.Alive,
			Wins:          p.Wins,
			Team:          p.Team,
		}
	})
	return out
}
