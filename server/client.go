package main

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 120
	maxNameLen        = 16

	binaryInputLen    = 6
	binaryInputMarker = 0x01
	binaryInputScale  = 100.0
)

// Client is one websocket: a view (renders and steers) or a paired controller
type Client struct {
	id           string
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	remoteAddr   string
	isController bool
	viewID       string // view this controller is paired with
	msgCount     int
	msgResetAt   time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		id:         GenerateID(8),
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("ws read failed", "addr", c.remoteAddr, "err", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Warn("rate limit exceeded, disconnecting", "addr", c.remoteAddr)
			break
		}

		if msgType == websocket.BinaryMessage && len(message) == binaryInputLen && message[0] == binaryInputMarker {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix marks binary frames, see SendBinary
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("marshal failed", "err", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF so WritePump can tell it from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// welcome greets a fresh connection with its id, the presets and the profile
func (c *Client) welcome() {
	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		ClientID: c.id,
		Modes:    ModeList(),
		Stats:    c.hub.arena.Stats(),
	}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Debug("bad message", "addr", c.remoteAddr, "err", err)
		return
	}

	switch env.T {
	case MsgInput:
		c.handleInput(env.D)
	case MsgStart:
		c.handleStart(env.D)
	case MsgHunt:
		c.handleHunt(env.D)
	case MsgControl:
		c.handleControl(env.D)
	}
}

// handleBinaryInput decodes [0x01, x_hi, x_lo, y_hi, y_lo, flags].
// x and y are int16 scaled by 100; flags bit 0 is boost, bit 1 pointer mode.
func (c *Client) handleBinaryInput(msg []byte) {
	x := float64(int16(uint16(msg[1])<<8|uint16(msg[2]))) / binaryInputScale
	y := float64(int16(uint16(msg[3])<<8|uint16(msg[4]))) / binaryInputScale
	flags := msg[5]
	c.hub.arena.HandleInput(PlayerInput{
		X:     x,
		Y:     y,
		Boost: flags&0x01 != 0,
		Point: flags&0x02 != 0,
	})
}

func (c *Client) handleInput(data json.RawMessage) {
	var in ClientInput
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	c.hub.arena.HandleInput(PlayerInput{X: in.X, Y: in.Y, Point: in.Point, Boost: in.Boost})
}

func (c *Client) handleStart(data json.RawMessage) {
	if c.isController {
		return
	}
	var msg StartMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("bad start message")
			return
		}
	}
	mode := GameMode(msg.Mode)
	if mode < 0 || mode >= NumGameModes {
		mode = ModeQuickPlay
	}

	prefs := c.hub.arena.Prefs()
	if name := trimName(msg.Name); name != "" {
		if err := prefs.SetString(PrefPlayerName, name); err != nil {
			log.Warn("could not save player name", "err", err)
		}
	}
	if msg.Skin != nil && *msg.Skin >= 0 && *msg.Skin < NumSkins {
		if err := prefs.SetInt(PrefSelectedSkinID, *msg.Skin); err != nil {
			log.Warn("could not save skin", "err", err)
		}
	}
	if err := prefs.SetInt(PrefGameModeID, int(mode)); err != nil {
		log.Warn("could not save game mode", "err", err)
	}
	c.hub.arena.StartMode(mode)
}

func (c *Client) handleHunt(data json.RawMessage) {
	var msg HuntMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if !c.hub.arena.StartHunt(msg.BotID) {
		c.sendError("no such bot")
	}
}

func (c *Client) handleControl(data json.RawMessage) {
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	viewID, err := c.hub.tickets.Validate(msg.Token)
	if err != nil {
		log.Debug("controller ticket rejected", "addr", c.remoteAddr, "err", err)
		c.sendError("invalid ticket")
		return
	}
	if !c.hub.hasView(viewID) {
		c.sendError("view not connected")
		return
	}

	c.hub.pair(c, viewID)
	c.hub.notifyView(viewID, Envelope{T: MsgCtrlOn})
	c.SendJSON(Envelope{T: MsgControlOK, Data: map[string]string{"view": viewID}})
	log.Info("controller paired", "view", viewID, "addr", c.remoteAddr)
}

// trimName strips spaces and cuts the nickname to maxNameLen runes
func trimName(name string) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > maxNameLen {
		name = strings.TrimSpace(string(r[:maxNameLen]))
	}
	return name
}
