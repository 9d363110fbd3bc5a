package game

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Scheduler ---

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// Fire runs the callback even if the timer was stopped, like a timer that
// already fired when Stop was called.
func (t *fakeTimer) Fire() {
	t.f()
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Last(t *testing.T) *fakeTimer {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.timers, "no timer scheduled")
	return s.timers[len(s.timers)-1]
}

func (s *fakeScheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// --- Emitter ---

type emitted struct {
	Type    string
	Payload any
}

type recordingEmitter struct {
	events []emitted
}

func (r *recordingEmitter) Broadcast(msgType string, payload any) {
	r.events = append(r.events, emitted{Type: msgType, Payload: payload})
}

func (r *recordingEmitter) OfType(msgType string) []any {
	var out []any
	for _, e := range r.events {
		if e.Type == msgType {
			out = append(out, e.Payload)
		}
	}
	return out
}

func (r *recordingEmitter) Reset() {
	r.events = nil
}

// --- words.Source / words.Dictionary ---

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Random(maxLen int) (string, error) {
	args := m.Called(maxLen)
	return args.String(0), args.Error(1)
}

type MockDictionary struct {
	mock.Mock
}

func (m *MockDictionary) Contains(word string) bool {
	args := m.Called(word)
	return args.Bool(0)
}

// --- NameSource ---

type fixedNames struct {
	player string
	rooms  []string
	next   int
}

func (n *fixedNames) Player() string { return n.player }

func (n *fixedNames) Room() string {
	if len(n.rooms) == 0 {
		return "Room"
	}
	name := n.rooms[n.next%len(n.rooms)]
	n.next++
	return name
}

// --- client messages ---

func drain(c *Client) []Message {
	var out []Message
	for {
		select {
		case data := <-c.Send:
			var m Message
			if err := json.Unmarshal(data, &m); err == nil {
				out = append(out, m)
			}
		default:
			return out
		}
	}
}

func ofType(msgs []Message, msgType string) []Message {
	var out []Message
	for _, m := range msgs {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func lastPayload[T any](t *testing.T, msgs []Message, msgType string) T {
	t.Helper()
	matching := ofType(msgs, msgType)
	require.NotEmpty(t, matching, "no %q message", msgType)
	var v T
	require.NoError(t, json.Unmarshal(matching[len(matching)-1].Payload, &v))
	return v
}
