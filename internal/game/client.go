package game

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096

	sendBufferSize = 256
)

// Message defines the structure of messages exchanged via WebSocket.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Client represents a single connected WebSocket client.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte // Channel to Send messages to the client.

	id   string
	name string
	// room is only touched from the client's read goroutine.
	room string

	closeOnce sync.Once
}

// Connect registers a new connection. A missing id or name is generated and
// announced to the client in a welcome message.
func (h *Hub) Connect(conn *websocket.Conn, id, name string) *Client {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" {
		name = h.names.Player()
	}
	c := &Client{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, sendBufferSize),
		id:   id,
		name: name,
	}
	c.send(MsgWelcome, WelcomePayload{ID: id, Name: name})
	return c
}

func (c *Client) ID() string   { return c.id }
func (c *Client) Name() string { return c.name }
func (c *Client) Room() string { return c.room }

func encode(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: raw})
}

func (c *Client) send(msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("could not encode message")
		return
	}
	c.deliver(data)
}

// deliver never blocks; a client that does not drain its buffer loses messages.
func (c *Client) deliver(data []byte) {
	select {
	case c.Send <- data:
	default:
		log.Warn().Str("player", c.id).Msg("send buffer full, dropping message")
	}
}

// Close stops the write pump. Only call it once the client left its room.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// ReadPump pumps messages from the WebSocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.HandleDisconnect(c)
		c.Close()
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, rawMessage, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("player", c.id).Msg("websocket read error")
			}
			break
		}
		c.handleMessage(rawMessage)
	}
}

// handleMessage decodes one client message and routes it to the hub.
// Malformed messages are logged and dropped.
func (c *Client) handleMessage(rawMessage []byte) {
	var msg Message
	if err := json.Unmarshal(rawMessage, &msg); err != nil {
		log.Debug().Err(err).Str("player", c.id).Msg("invalid message")
		return
	}

	switch msg.Type {
	case MsgJoin:
		var req JoinRequest
		if !c.decode(msg, &req) {
			return
		}
		c.Hub.HandleJoin(c, req)

	case MsgSubmitWord:
		var payload SubmitPayload
		if !c.decode(msg, &payload) {
			return
		}
		c.Hub.HandleSubmit(c, payload.Text)

	case MsgTyping:
		var payload SubmitPayload
		if !c.decode(msg, &payload) {
			return
		}
		c.Hub.HandleTyping(c, payload.Text)

	case MsgToggleReady:
		c.Hub.HandleReadyToggle(c)

	case MsgStartGame:
		c.Hub.HandleStart(c)

	case MsgChangeOptions:
		var change OptionChange
		if !c.decode(msg, &change) {
			return
		}
		c.Hub.HandleOptionChange(c, change)

	case MsgChangeTeam:
		var payload TeamPayload
		if !c.decode(msg, &payload) {
			return
		}
		team, err := strconv.Atoi(payload.Team.String())
		if err != nil {
			return
		}
		c.Hub.HandleTeamChange(c, team)

	case MsgChat:
		var payload SubmitPayload
		if !c.decode(msg, &payload) {
			return
		}
		c.Hub.HandleChat(c, payload.Text)

	default:
		log.Debug().Str("player", c.id).Str("type", msg.Type).Msg("unknown message type")
	}
}

func (c *Client) decode(msg Message, v any) bool {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		log.Debug().Err(err).Str("player", c.id).Str("type", msg.Type).Msg("invalid payload")
		return false
	}
	return true
}

// WritePump pumps messages from the hub to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("player", c.id).Msg("websocket write error")
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
