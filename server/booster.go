package main

const (
	BoosterDuration        = 10.0 // s, refreshed on re-pickup
	BoosterRepositionDelay = 5.0  // s a pickup stays hidden after use
	BoosterPickupRadius    = 1.0
	MagnetRadius           = 3.5 // player food pickup radius with magnet on
	ScoreMultiplierValue   = 2
	ExtraSpeedValue        = 1.5
)

// BoosterKind is one of the temporary global modifiers
type BoosterKind int

const (
	BoosterUnzoom BoosterKind = iota
	BoosterMagnet
	BoosterScoreMultiplier
	BoosterExtraSpeed
	NumBoosterKinds
)

var boosterNames = [NumBoosterKinds]string{"unzoom", "magnet", "score_multiplier", "extra_speed"}

func (k BoosterKind) String() string {
	if k < 0 || k >= NumBoosterKinds {
		return "unknown"
	}
	return boosterNames[k]
}

// BoosterState holds one countdown per kind. At most one instance of each
// kind is active; activating again refreshes it to the full duration.
type BoosterState struct {
	remaining [NumBoosterKinds]float64
	duration  float64
}

// NewBoosterState creates a state with every booster off
func NewBoosterState() *BoosterState {
	return &BoosterState{duration: BoosterDuration}
}

// Activate turns kind on. Returns true when it was already running.
func (b *BoosterState) Activate(k BoosterKind) bool {
	refreshed := b.remaining[k] > 0
	b.remaining[k] = b.duration
	return refreshed
}

// Tick counts every active booster down
func (b *BoosterState) Tick(dt float64) {
	for k := range b.remaining {
		if b.remaining[k] > 0 {
			b.remaining[k] -= dt
			if b.remaining[k] < 0 {
				b.remaining[k] = 0
			}
		}
	}
}

// Enabled reports whether kind is running
func (b *BoosterState) Enabled(k BoosterKind) bool { return b.remaining[k] > 0 }

// Remaining returns seconds left for kind
func (b *BoosterState) Remaining(k BoosterKind) float64 { return b.remaining[k] }

// Fractions returns remaining/duration for every kind, for UI fill bars
func (b *BoosterState) Fractions() [NumBoosterKinds]float64 {
	var f [NumBoosterKinds]float64
	for k, r := range b.remaining {
		f[k] = r / b.duration
	}
	return f
}

// Reset turns every booster off
func (b *BoosterState) Reset() {
	b.remaining = [NumBoosterKinds]float64{}
}

// ScoreMultiplier returns the food multiplier for the player
func (b *BoosterState) ScoreMultiplier() int {
	if b.Enabled(BoosterScoreMultiplier) {
		return ScoreMultiplierValue
	}
	return 1
}

// ExtraSpeed returns the external speed modifier for the player
func (b *BoosterState) ExtraSpeed() float64 {
	if b.Enabled(BoosterExtraSpeed) {
		return ExtraSpeedValue
	}
	return 1
}

// MagnetRadius returns the widened food pickup radius, or 0 when off
func (b *BoosterState) MagnetRadius() float64 {
	if b.Enabled(BoosterMagnet) {
		return MagnetRadius
	}
	return 0
}

// BoosterPickup is a collectible in the arena that activates a booster
type BoosterPickup struct {
	ID     int
	Kind   BoosterKind
	Pos    Vec2
	Active bool
	hidden float64
}

// Reposition hides the pickup and moves it; it comes back after the delay
func (p *BoosterPickup) Reposition(pos Vec2) {
	p.Active = false
	p.Pos = pos
	p.hidden = BoosterRepositionDelay
}

// Tick counts down the hidden period
func (p *BoosterPickup) Tick(dt float64) {
	if p.Active {
		return
	}
	p.hidden -= dt
	if p.hidden <= 0 {
		p.Active = true
	}
}
