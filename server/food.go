package main

// FoodKind separates pooled food from ghost food dropped by the dead
type FoodKind int

const (
	FoodNormal FoodKind = iota
	FoodGhost
)

// FoodPhase is where an item is in its absorb cycle
type FoodPhase int

const (
	FoodActive    FoodPhase = iota
	FoodAbsorbing           // collider off, flying into the consumer
	FoodCooling             // hidden, waiting to reappear
	FoodGone                // removed from the pool at the end of the tick
)

// FoodItem is one consumable
type FoodItem struct {
	ID    int
	Kind  FoodKind
	Pos   Vec2
	Phase FoodPhase

	from     Vec2
	consumer *Actor
	progress float64
	timer    float64
	ttl      float64
}

// Consumed reports whether the item was absorbed and not yet back in play
func (f *FoodItem) Consumed() bool { return f.Phase != FoodActive }

// Radius returns the collider radius
func (f *FoodItem) Radius() float64 {
	if f.Kind == FoodGhost {
		return GhostFoodRadius
	}
	return FoodRadius
}

// FoodPool holds a fixed number of normal items plus any live ghost food
type FoodPool struct {
	items      []*FoodItem
	capacity   int
	regenerate bool
	nextID     int
	normal     int
}

// NewFoodPool creates an empty pool
func NewFoodPool(capacity int, regenerate bool) *FoodPool {
	return &FoodPool{capacity: capacity, regenerate: regenerate}
}

// Prefill creates normal items up to capacity at positions from place
func (p *FoodPool) Prefill(place func() Vec2) {
	for p.normal < p.capacity {
		p.nextID++
		p.items = append(p.items, &FoodItem{ID: p.nextID, Kind: FoodNormal, Pos: place()})
		p.normal++
	}
}

// SpawnGhost drops a ghost food item with a fresh time-to-live
func (p *FoodPool) SpawnGhost(pos Vec2) *FoodItem {
	p.nextID++
	f := &FoodItem{ID: p.nextID, Kind: FoodGhost, Pos: pos, ttl: GhostFoodTTL}
	p.items = append(p.items, f)
	return f
}

// Absorb starts the absorb sequence. It returns false if the item is
// already on its way into someone.
func (p *FoodPool) Absorb(f *FoodItem, consumer *Actor) bool {
	if f.Phase != FoodActive {
		return false
	}
	f.Phase = FoodAbsorbing
	f.from = f.Pos
	f.consumer = consumer
	f.progress = 0
	f.timer = FoodAbsorbDuration
	return true
}

// Tick runs absorb animations, respawn cooldowns and ghost expiry, then
// drops removed items
func (p *FoodPool) Tick(dt float64, place func() Vec2) {
	for _, f := range p.items {
		if f.Kind == FoodGhost {
			f.ttl -= dt
			if f.ttl <= 0 {
				f.Phase = FoodGone
				continue
			}
		}
		switch f.Phase {
		case FoodAbsorbing:
			speed := FoodAbsorbSpeed
			if f.Kind == FoodGhost {
				speed = GhostAbsorbSpeed
			}
			f.progress += dt * speed
			if f.consumer != nil && f.consumer.Alive {
				to := f.consumer.Pos
				f.Pos = Vec2{SmoothStep(f.from.X, to.X, f.progress), SmoothStep(f.from.Y, to.Y, f.progress)}
			}
			f.timer -= dt
			if f.timer > 0 {
				continue
			}
			f.consumer = nil
			if f.Kind == FoodGhost || !p.regenerate {
				f.Phase = FoodGone
			} else {
				f.Phase = FoodCooling
				f.timer = FoodRespawnDelay
			}
		case FoodCooling:
			f.timer -= dt
			if f.timer <= 0 {
				f.Pos = place()
				f.Phase = FoodActive
			}
		}
	}

	kept := p.items[:0]
	for _, f := range p.items {
		if f.Phase == FoodGone {
			if f.Kind == FoodNormal {
				p.normal--
			}
			continue
		}
		kept = append(kept, f)
	}
	for i := len(kept); i < len(p.items); i++ {
		p.items[i] = nil
	}
	p.items = kept
}

// Items returns every item still in the pool
func (p *FoodPool) Items() []*FoodItem { return p.items }

// NormalCount returns the number of pooled normal items
func (p *FoodPool) NormalCount() int { return p.normal }

// GhostCount returns the number of live ghost items
func (p *FoodPool) GhostCount() int { return len(p.items) - p.normal }
