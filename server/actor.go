package main

import "math"

// ActorKind separates the human-driven snake from bots
type ActorKind int

const (
	ActorPlayer ActorKind = iota
	ActorBot
)

func (k ActorKind) String() string {
	if k == ActorPlayer {
		return "player"
	}
	return "bot"
}

// Intent is what a controller wants an actor to do this tick
type Intent struct {
	Direction Vec2
	Boost     bool
}

// Controller supplies the per-tick desired direction of an actor
type Controller interface {
	Decide(a *Actor, w *Arena, dt float64) Intent
	// Cancel drops every pending timer. Called before the actor is torn down.
	Cancel()
}

// Actor is a snake: a moving head plus its segmented body
type Actor struct {
	ID      int
	Kind    ActorKind
	Name    string
	SkinID  int
	Pos     Vec2
	Heading float64 // radians

	BaseSpeed       float64
	SpeedMultiplier float64
	RotationPenalty float64
	FollowDelay     float64
	Boosting        bool
	Alive           bool
	collidable      bool

	Body        *SegmentedBody
	FoodCounter int // food units eaten, every K-th grows the body
	Kills       int
	boostTicks  int

	control Controller
	rules   *Rules
}

// NewActor creates a live actor with an empty body
func NewActor(id int, kind ActorKind, name string, skin int, pos Vec2, heading float64, rules *Rules, control Controller) *Actor {
	a := &Actor{
		ID:         id,
		Kind:       kind,
		Name:       name,
		SkinID:     skin,
		Pos:        pos,
		Heading:    heading,
		Alive:      true,
		collidable: true,
		Body:       NewSegmentedBody(rules.MinimumBodyparts, rules.MaxSnakeSizeForScale, rules.ScaleUpStepsRatio),
		control:    control,
		rules:      rules,
	}
	a.SetBoost(false)
	a.updateSize()
	return a
}

// Score is the body part count
func (a *Actor) Score() int { return a.Body.Len() }

// Scale returns the uniform scale of head and segments
func (a *Actor) Scale() float64 { return a.Body.Scale() }

// HeadRadius returns the scaled head collider radius
func (a *Actor) HeadRadius() float64 { return HeadRadius * a.Scale() }

// Control returns the direction strategy driving this actor
func (a *Actor) Control() Controller { return a.control }

// Grow appends n segments
func (a *Actor) Grow(n int) {
	for i := 0; i < n; i++ {
		a.Body.Append(a.Pos, a.Heading)
	}
	if n > 0 {
		a.updateSize()
	}
}

// Shrink removes the tail segment unless the body is at its floor
func (a *Actor) Shrink() bool {
	if !a.Body.RemoveTail() {
		return false
	}
	a.updateSize()
	return true
}

func (a *Actor) updateSize() {
	n := a.Body.Len()
	a.Body.Rescale(n)
	a.BaseSpeed = math.Max(MinMoveSpeed, a.rules.MoveSpeedMax-float64(n)*a.rules.SizeBasedSpeedPenalty)
}

// SetBoost switches the speed burst on or off. Every boosted tick counts
// toward losing a segment.
func (a *Actor) SetBoost(on bool) {
	if on {
		a.Boosting = true
		a.SpeedMultiplier = a.rules.BoostSpeedMultiplier
		a.RotationPenalty = a.rules.RotationBoostPenalty
		a.FollowDelay = a.rules.FollowDelayBoost
		a.boostTicks++
		if a.boostTicks >= a.rules.FramesNeededForBodyReduce {
			a.boostTicks = 0
			a.Shrink()
		}
		return
	}
	a.Boosting = false
	a.SpeedMultiplier = 1
	a.RotationPenalty = 1
	a.FollowDelay = a.rules.FollowDelayNormal
}

// Tick turns toward dir and moves forward. A zero dir keeps the heading.
func (a *Actor) Tick(dt float64, dir Vec2, extSpeed float64) {
	if !a.Alive {
		return
	}
	if n, ok := dir.Normalized(); ok {
		target := math.Atan2(n.Y, n.X)
		a.Heading = LerpAngle(a.Heading, target, a.rules.RotationSpeed*a.RotationPenalty*dt)
	}
	step := a.BaseSpeed * a.SpeedMultiplier * extSpeed * dt
	a.Pos = a.Pos.Add(Forward(a.Heading).Scale(step))
}

// FollowBody lets the segments chase the head for one tick
func (a *Actor) FollowBody(dt float64) {
	a.Body.Follow(a.Pos, a.Heading, a.FollowDelay, dt)
}

// Eat adds units to the food counter and grows one segment on every
// multiple of perSegment. Returns the segments grown.
func (a *Actor) Eat(units, perSegment int) int {
	if perSegment < 1 {
		perSegment = 1
	}
	grown := 0
	for i := 0; i < units; i++ {
		a.FoodCounter++
		if a.FoodCounter%perSegment == 0 {
			grown++
		}
	}
	a.Grow(grown)
	return grown
}

// OnCollision applies the outcome of this actor's head touching c
func (a *Actor) OnCollision(c Collider, w *Arena) Outcome {
	if !a.collidable {
		return OutcomeNone
	}
	if c.Owner != nil && (c.Owner == a || !c.Owner.collidable) {
		return OutcomeNone
	}
	out := OutcomeFor(c.Kind)
	switch out {
	case OutcomeEatFood, OutcomeEatGhost:
		if c.Food == nil || !w.food.Absorb(c.Food, a) {
			return OutcomeNone
		}
		w.feed(a, c.Food)
	case OutcomeBooster:
		if a.Kind != ActorPlayer || c.Pickup == nil || !c.Pickup.Active {
			return OutcomeNone
		}
		w.collectBooster(c.Pickup)
	case OutcomeKilledBy:
		a.Die(w, c.Owner)
	case OutcomeHeadOn:
		a.Die(w, nil)
		c.Owner.Die(w, nil)
	case OutcomeDie:
		a.Die(w, nil)
	}
	return out
}

// Die takes the actor out of play. The collider goes first so nothing
// else can touch it during the teardown.
func (a *Actor) Die(w *Arena, killer *Actor) {
	if !a.Alive {
		return
	}
	a.collidable = false
	a.control.Cancel()
	a.Alive = false
	a.SetBoost(false)

	if w.rules.GhostFoodFromDead {
		for i, s := range a.Body.Segments() {
			if i%2 == 0 {
				w.food.SpawnGhost(s.Pos)
			}
		}
	}

	if killer != nil && !killer.Alive {
		killer = nil
	}
	if killer != nil {
		prize := KillPrize(a.Body.Len())
		killer.Grow(prize)
		killer.Kills++
		w.emit(Event{Kind: EventKill, ActorID: killer.ID, OtherID: a.ID, X: a.Pos.X, Y: a.Pos.Y, Value: prize, Player: killer.Kind == ActorPlayer})
	}
	w.onActorDied(a, killer)
	a.Body.Release()
}

// ToState converts to the snapshot form
func (a *Actor) ToState() ActorState {
	segs := a.Body.Segments()
	st := ActorState{
		ID:    a.ID,
		Bot:   a.Kind == ActorBot,
		Name:  a.Name,
		Skin:  a.SkinID,
		X:     round1(a.Pos.X),
		Y:     round1(a.Pos.Y),
		R:     round2(a.Heading),
		Scale: round2(a.Scale()),
		Score: a.Score(),
		Boost: a.Boosting,
		Segs:  make([]float32, 0, 2*len(segs)),
	}
	for _, s := range segs {
		st.Segs = append(st.Segs, float32(s.Pos.X), float32(s.Pos.Y))
	}
	return st
}
