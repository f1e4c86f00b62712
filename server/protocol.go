package main

import "encoding/json"

// Client -> Server message types
const (
	MsgInput   = "input"
	MsgStart   = "start"   // start or restart a match
	MsgHunt    = "hunt"    // send a bot after the player
	MsgControl = "control" // phone controller attach
)

// Server -> Client message types
const (
	MsgState     = "state"
	MsgWelcome   = "welcome"
	MsgEvent     = "event"
	MsgGameOver  = "gameover"
	MsgError     = "error"
	MsgControlOK = "control_ok" // controller attach confirmed
	MsgCtrlOn    = "ctrl_on"    // notify desktop: controller attached
	MsgCtrlOff   = "ctrl_off"   // notify desktop: controller detached
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is sent by the view or the controller on every input change
type ClientInput struct {
	X     float64 `json:"x"`     // direction, or world position with pt
	Y     float64 `json:"y"`
	Point bool    `json:"pt"`    // x,y is a pointer position in world coords
	Boost bool    `json:"boost"`
}

// StartMsg asks for a new match
type StartMsg struct {
	Mode int    `json:"mode"`
	Name string `json:"name,omitempty"`
	Skin *int   `json:"skin,omitempty"`
}

// HuntMsg names the bot to send after the player
type HuntMsg struct {
	BotID int `json:"id"`
}

// ControlMsg attaches a controller using a pairing ticket
type ControlMsg struct {
	Token string `json:"token"`
}

// ErrorMsg reports a rejected request
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// ControllerInfo answers /api/controller
type ControllerInfo struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// WelcomeMsg is the first message on every connection
type WelcomeMsg struct {
	ClientID string        `json:"id"`
	Modes    []ModeInfo    `json:"modes"`
	Stats    LifetimeStats `json:"stats"`
}

// ModeInfo describes a preset to the menu
type ModeInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ActorState is one snake in a snapshot
type ActorState struct {
	ID    int       `msgpack:"id"`
	Bot   bool      `msgpack:"bot"`
	Name  string    `msgpack:"n"`
	Skin  int       `msgpack:"sk"`
	X     float64   `msgpack:"x"`
	Y     float64   `msgpack:"y"`
	R     float64   `msgpack:"r"` // heading radians
	Scale float64   `msgpack:"sc"`
	Score int       `msgpack:"s"`
	Boost bool      `msgpack:"b,omitempty"`
	Segs  []float32 `msgpack:"sg"` // x0,y0,x1,y1,...
}

// FoodState is one visible food item
type FoodState struct {
	ID    int     `msgpack:"id"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	Ghost bool    `msgpack:"g,omitempty"`
}

// PickupState is one visible booster pickup
type PickupState struct {
	ID   int     `msgpack:"id"`
	Kind int     `msgpack:"k"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
}

// Snapshot is the full state broadcast as msgpack
type Snapshot struct {
	Tick        uint64                   `msgpack:"t"`
	Phase       int                      `msgpack:"ph"`
	Mode        int                      `msgpack:"m"`
	Time        float64                  `msgpack:"tm"` // seconds left, or elapsed in count-up modes
	Enemies     int                      `msgpack:"en"`
	PlayerID    int                      `msgpack:"pid"`
	Rank        int                      `msgpack:"rk"`
	MinBodies   int                      `msgpack:"mb"`
	Boosters    [NumBoosterKinds]float64 `msgpack:"bo"` // remaining fraction per kind
	Unzoom      bool                     `msgpack:"uz,omitempty"`
	Actors      []ActorState             `msgpack:"a"`
	Food        []FoodState              `msgpack:"f"`
	Pickups     []PickupState            `msgpack:"p"`
	Leaderboard []LeaderboardRow         `msgpack:"lb"`
}

// ModeList returns every preset for the menu
func ModeList() []ModeInfo {
	modes := make([]ModeInfo, 0, NumGameModes)
	for m := GameMode(0); m < NumGameModes; m++ {
		modes = append(modes, ModeInfo{ID: int(m), Name: DefaultConfig(m).Name})
	}
	return modes
}
