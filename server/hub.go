package main

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 64
)

// Hub tracks connected UI clients and fans arena output out to them
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	arena   *Arena
	tickets *Tickets
}

// NewHub creates a Hub driving the given arena
func NewHub(arena *Arena, tickets *Tickets) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		ipConns:    make(map[string]int),
		arena:      arena,
		tickets:    tickets,
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events until done is closed
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Debug("client connected", "id", client.id, "addr", client.remoteAddr)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if client.isController {
				h.notifyView(client.viewID, Envelope{T: MsgCtrlOff})
			}
			log.Debug("client disconnected", "id", client.id, "controller", client.isController)

		case <-done:
			return
		}
	}
}

// BroadcastBinary sends a msgpack snapshot to every view client
func (h *Hub) BroadcastBinary(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.isController {
			c.SendBinary(data)
		}
	}
}

// BroadcastJSON sends a JSON message to every client
func (h *Hub) BroadcastJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("broadcast marshal failed", "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendRaw(data)
	}
}

// Notify forwards simulation events to the views for audio and effects
func (h *Hub) Notify(ev Event) {
	if ev.Kind == EventSpawn {
		return
	}
	h.BroadcastJSON(Envelope{T: MsgEvent, Data: ev})
}

func (h *Hub) notifyView(viewID string, msg Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.id == viewID {
			c.SendJSON(msg)
			return
		}
	}
}

// pair marks c as the controller of viewID. Broadcasts read the flag under mu.
func (h *Hub) pair(c *Client, viewID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.isController = true
	c.viewID = viewID
}

// hasView reports whether a view client with id is connected
func (h *Hub) hasView(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.id == id && !c.isController {
			return true
		}
	}
	return false
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
