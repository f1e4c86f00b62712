package main

// CheckCollision checks if two circles overlap
func CheckCollision(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	dist2 := dx*dx + dy*dy
	radSum := r1 + r2
	return dist2 <= radSum*radSum
}

// ColliderKind tags what a head ran into
type ColliderKind byte

const (
	KindPlayerHead ColliderKind = iota
	KindPlayerBody
	KindBotHead
	KindBotBody
	KindFood
	KindGhostFood
	KindBooster
	KindBorder
	numColliderKinds
)

var colliderKindNames = [numColliderKinds]string{
	"player_head", "player_body", "bot_head", "bot_body",
	"food", "ghost_food", "booster", "border",
}

func (k ColliderKind) String() string {
	if k >= numColliderKinds {
		return "unknown"
	}
	return colliderKindNames[k]
}

// IsHead reports whether k is any actor's head
func (k ColliderKind) IsHead() bool { return k == KindPlayerHead || k == KindBotHead }

// KindMask is a set of collider kinds
type KindMask uint16

// MaskOf builds a mask from kinds
func MaskOf(kinds ...ColliderKind) KindMask {
	var m KindMask
	for _, k := range kinds {
		m |= 1 << k
	}
	return m
}

// Has reports whether k is in the mask
func (m KindMask) Has(k ColliderKind) bool { return m&(1<<k) != 0 }

var (
	MaskSnake = MaskOf(KindPlayerHead, KindPlayerBody, KindBotHead, KindBotBody)
	MaskFood  = MaskOf(KindFood, KindGhostFood)
	MaskHit   = MaskSnake | MaskFood | MaskOf(KindBooster)
)

// Outcome is the result of a head touching something
type Outcome int

const (
	OutcomeNone       Outcome = iota
	OutcomeEatFood            // counter toward growth, food absorbed
	OutcomeEatGhost           // same with ghost rate
	OutcomeBooster            // booster activated, pickup repositioned
	OutcomeKilledBy           // this actor dies, body owner gets the prize
	OutcomeHeadOn             // both actors die
	OutcomeDie                // this actor dies
)

// collisionOutcomes maps what the head touched to what happens
var collisionOutcomes = [numColliderKinds]Outcome{
	KindPlayerHead: OutcomeHeadOn,
	KindPlayerBody: OutcomeKilledBy,
	KindBotHead:    OutcomeHeadOn,
	KindBotBody:    OutcomeKilledBy,
	KindFood:       OutcomeEatFood,
	KindGhostFood:  OutcomeEatGhost,
	KindBooster:    OutcomeBooster,
	KindBorder:     OutcomeDie,
}

// OutcomeFor looks up the rule for a head touching k
func OutcomeFor(k ColliderKind) Outcome {
	if k >= numColliderKinds {
		return OutcomeNone
	}
	return collisionOutcomes[k]
}
