package main

const (
	PlayerStartX      = 0.0
	PlayerStartY      = 0.0
	PointerDeadZoneSq = 0.25 // pointer closer than 0.5 units to the head holds heading
	DefaultPlayerName = "Player"
	NumSkins          = 24
)

// PlayerInput is one sample from the input layer. With Point set, (X, Y) is a
// world position to steer toward; otherwise it is a direction vector.
type PlayerInput struct {
	X, Y  float64
	Point bool
	Boost bool
}

// PlayerControl drives an actor from the latest input sample
type PlayerControl struct {
	dir   Vec2
	boost bool
}

// NewPlayerControl creates an idle input strategy
func NewPlayerControl() *PlayerControl {
	return &PlayerControl{}
}

// Set stores a new input sample. head is the actor position used to turn
// pointer positions into directions.
func (p *PlayerControl) Set(in PlayerInput, head Vec2) {
	p.boost = in.Boost
	if !in.Point {
		p.dir = Vec2{in.X, in.Y}
		return
	}
	d := Vec2{in.X, in.Y}.Sub(head)
	if d.LenSq() > PointerDeadZoneSq {
		p.dir = d
	} else {
		p.dir = Vec2{}
	}
}

// Decide returns the stored direction. Boost is only granted while the body
// is above the floor.
func (p *PlayerControl) Decide(a *Actor, w *Arena, dt float64) Intent {
	return Intent{
		Direction: p.dir,
		Boost:     p.boost && a.Body.Len() > a.Body.MinLen(),
	}
}

// Cancel clears any held input
func (p *PlayerControl) Cancel() {
	p.dir = Vec2{}
	p.boost = false
}
