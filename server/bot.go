package main

import (
	"math"
	"math/rand"
)

const (
	BotSearchRadius    = 5.0
	BotArriveDistance  = 2.0
	BotHuntDuration    = 15.0 // s
	BotManeuverFactor  = 2.5
	BotSensorDistance  = 3.0 // lookahead, multiplied by scale
	BotSensorRadius    = 1.5
	BotSensorCooldown  = 1.0 // s
	BotBoostIntervalLo = 2.0 // s between bursts
	BotBoostIntervalHi = 8.0
	BotBoostDurationLo = 1.0 // s per burst
	BotBoostDurationHi = 4.0
)

// botNames is the nickname pool for bots
var botNames = []string{
	"Viper", "Cobra", "Mamba", "Python", "Anaconda", "Sidewinder",
	"Boa", "Taipan", "Krait", "Adder", "Asp", "Rattler",
	"Noodle", "Slinky", "Zigzag", "Sssam", "Hissy Fit", "Lord Coil",
	"Danger Noodle", "Nagini", "Kaa", "Jormungandr", "Ouroboros", "Basilisk",
}

// RandomBotName picks a nickname
func RandomBotName(rng *rand.Rand) string {
	return botNames[rng.Intn(len(botNames))]
}

// seekCooldown draws the pause before the next target search. Most bots
// wait 10-30 s, a few are restless.
func seekCooldown(rng *rand.Rand) float64 {
	lo := 10.0
	if rng.Float64() > 0.8 {
		lo = 2
	}
	hi := 30.0
	if rng.Float64() > 0.8 {
		hi = 20
	}
	return lo + rng.Float64()*(hi-lo)
}

func randRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

type boostPhase int

const (
	boostCooling boostPhase = iota
	boostActive
)

// BotBrain is the decision strategy of a bot: target search and speed bursts
// on two independent timers, plus the hunt and maneuver overrides.
type BotBrain struct {
	Target    Vec2
	hasTarget bool
	seekLeft  float64

	boost     boostPhase
	boostLeft float64

	hunting    bool
	huntLeft   float64
	huntTarget *Actor

	sensorLeft float64
	cancelled  bool
}

// NewBotBrain creates a brain that searches on its first tick
func NewBotBrain(rng *rand.Rand) *BotBrain {
	return &BotBrain{
		boost:     boostCooling,
		boostLeft: randRange(rng, BotBoostIntervalLo, BotBoostIntervalHi),
	}
}

// Decide advances the timers in fixed order (hunt, seek, boost, sensor) and
// returns the steering intent
func (b *BotBrain) Decide(a *Actor, w *Arena, dt float64) Intent {
	if b.cancelled || !a.Alive {
		return Intent{}
	}

	if b.hunting {
		b.huntLeft -= dt
		if b.huntTarget == nil || !b.huntTarget.Alive || b.huntLeft <= 0 {
			b.StopHunt()
		} else {
			b.Target = b.huntTarget.Pos
			b.hasTarget = true
			return Intent{Direction: b.Target.Sub(a.Pos), Boost: true}
		}
	}

	b.seekLeft -= dt
	if !b.hasTarget || b.seekLeft <= 0 || a.Pos.DistSq(b.Target) < BotArriveDistance*BotArriveDistance {
		b.Seek(a, w)
	}

	b.boostLeft -= dt
	if b.boostLeft <= 0 {
		if b.boost == boostCooling {
			b.boost = boostActive
			b.boostLeft = randRange(w.rng, BotBoostDurationLo, BotBoostDurationHi)
		} else {
			b.boost = boostCooling
			b.boostLeft = randRange(w.rng, BotBoostIntervalLo, BotBoostIntervalHi)
		}
	}

	b.sensorLeft -= dt
	if b.sensorLeft <= 0 {
		if obstacle, ok := w.senseObstacle(a); ok {
			b.Maneuver(a, obstacle, w.rng)
			b.sensorLeft = BotSensorCooldown
		}
	}

	return Intent{Direction: b.Target.Sub(a.Pos), Boost: b.boost == boostActive}
}

// Seek picks a new target now and restarts the search cooldown
func (b *BotBrain) Seek(a *Actor, w *Arena) {
	b.Target = w.pickBotTarget(a)
	b.hasTarget = true
	b.seekLeft = seekCooldown(w.rng)
}

// StartHunt pins the target to prey for BotHuntDuration, boosting all the way
func (b *BotBrain) StartHunt(prey *Actor) {
	if b.cancelled || prey == nil || !prey.Alive {
		return
	}
	b.hunting = true
	b.huntLeft = BotHuntDuration
	b.huntTarget = prey
}

// StopHunt leaves hunt mode
func (b *BotBrain) StopHunt() {
	b.hunting = false
	b.huntTarget = nil
	b.huntLeft = 0
}

// Hunting reports whether the hunt override is active
func (b *BotBrain) Hunting() bool { return b.hunting }

// Maneuver retargets away from an obstacle and drops any running burst
func (b *BotBrain) Maneuver(a *Actor, obstacle Vec2, rng *rand.Rand) {
	t := a.Pos.Add(a.Pos.Sub(obstacle).Scale(BotManeuverFactor))
	b.Target = Vec2{Clamp(t.X, FieldMin, FieldMax), Clamp(t.Y, FieldMin, FieldMax)}
	b.hasTarget = true
	b.boost = boostCooling
	b.boostLeft = randRange(rng, BotBoostIntervalLo, BotBoostIntervalHi)
}

// Cancel stops every timer; the brain never acts again
func (b *BotBrain) Cancel() {
	b.cancelled = true
	b.StopHunt()
	b.boost = boostCooling
}

// pickBotTarget looks around the bot: any rival snake nearby sends it to a
// random point, otherwise it goes for the nearest food, otherwise random.
func (w *Arena) pickBotTarget(a *Actor) Vec2 {
	w.queryBuf = w.grid.Overlap(a.Pos, BotSearchRadius, MaskSnake|MaskFood, w.queryBuf[:0])
	best := Vec2{}
	bestD := math.MaxFloat64
	found := false
	for i := range w.queryBuf {
		c := &w.queryBuf[i]
		if MaskSnake.Has(c.Kind) {
			if c.Owner != a && c.Owner.Alive {
				return w.randomFieldPoint()
			}
			continue
		}
		if c.Food == nil || c.Food.Phase != FoodActive {
			continue
		}
		if d := a.Pos.DistSq(c.Pos); d < bestD {
			best, bestD, found = c.Pos, d, true
		}
	}
	if found {
		return best
	}
	return w.randomFieldPoint()
}

// senseObstacle probes ahead of a bot for rival geometry or the field edge
func (w *Arena) senseObstacle(a *Actor) (Vec2, bool) {
	probe := a.Pos.Add(Forward(a.Heading).Scale(BotSensorDistance * a.Scale()))
	if probe.X < FieldMin || probe.X > FieldMax || probe.Y < FieldMin || probe.Y > FieldMax {
		return probe, true
	}
	w.queryBuf = w.grid.Overlap(probe, BotSensorRadius, MaskSnake, w.queryBuf[:0])
	for i := range w.queryBuf {
		c := &w.queryBuf[i]
		if c.Owner != a && c.Owner.Alive {
			return c.Pos, true
		}
	}
	return Vec2{}, false
}
