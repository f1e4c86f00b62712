package main

import "github.com/charmbracelet/log"

// EventKind names a fire-and-forget notification for audio/VFX and UI layers
type EventKind string

const (
	EventFoodPickup   EventKind = "food"
	EventGhostPickup  EventKind = "ghost"
	EventGrow         EventKind = "grow"
	EventKill         EventKind = "kill"
	EventDeath        EventKind = "death"
	EventSpawn        EventKind = "spawn"
	EventBooster      EventKind = "booster"
	EventTimerWarning EventKind = "timer"
	EventHunt         EventKind = "hunt"
	EventMatchStart   EventKind = "match_start"
	EventGameOver     EventKind = "gameover"
)

// Event is one notification. Fields unused by a kind stay zero.
type Event struct {
	Kind    EventKind `json:"k" msgpack:"k"`
	Match   string    `json:"m,omitempty" msgpack:"m,omitempty"`
	ActorID int       `json:"a,omitempty" msgpack:"a,omitempty"`
	OtherID int       `json:"o,omitempty" msgpack:"o,omitempty"`
	X       float64   `json:"x,omitempty" msgpack:"x,omitempty"`
	Y       float64   `json:"y,omitempty" msgpack:"y,omitempty"`
	Value   int       `json:"v,omitempty" msgpack:"v,omitempty"`
	Player  bool      `json:"p,omitempty" msgpack:"p,omitempty"`
}

// EventSink receives events. Notify must not block the tick.
type EventSink interface {
	Notify(ev Event)
}

// LogSink writes every event at debug level
type LogSink struct{}

func (LogSink) Notify(ev Event) {
	log.Debug("event", "kind", ev.Kind, "actor", ev.ActorID, "other", ev.OtherID, "value", ev.Value)
}
