package main

import (
	"math"
	"math/rand"
	"testing"
)

func newTestActor(kind ActorKind, segments int, rules *Rules) *Actor {
	var ctl Controller = NewPlayerControl()
	if kind == ActorBot {
		ctl = NewBotBrain(rand.New(rand.NewSource(1)))
	}
	a := NewActor(1, kind, "test", 0, Vec2{}, 0, rules, ctl)
	a.Grow(segments)
	return a
}

func TestActorZeroDirectionHoldsHeading(t *testing.T) {
	rules := DefaultRules()
	a := newTestActor(ActorBot, 5, &rules)
	a.Heading = 0.5

	a.Tick(1.0/60, Vec2{}, 1)

	if a.Heading != 0.5 {
		t.Errorf("zero direction should hold heading, got %f", a.Heading)
	}
	want := Forward(0.5).Scale(a.BaseSpeed / 60)
	if math.Abs(a.Pos.X-want.X) > 1e-9 || math.Abs(a.Pos.Y-want.Y) > 1e-9 {
		t.Errorf("expected to move along heading to %v, got %v", want, a.Pos)
	}
}

func TestActorTurnsTowardDirection(t *testing.T) {
	rules := DefaultRules()
	a := newTestActor(ActorBot, 5, &rules)

	dt := 1.0 / 60
	a.Tick(dt, Vec2{0, 10}, 1)

	want := math.Pi / 2 * RotationSpeed * dt
	if math.Abs(a.Heading-want) > 1e-9 {
		t.Errorf("expected heading %f, got %f", want, a.Heading)
	}
}

func TestActorBoostTurnsSlower(t *testing.T) {
	rules := DefaultRules()
	a := newTestActor(ActorBot, 50, &rules)
	a.SetBoost(true)

	dt := 1.0 / 60
	a.Tick(dt, Vec2{0, 1}, 1)

	want := math.Pi / 2 * RotationSpeed * RotationBoostPenalty * dt
	if math.Abs(a.Heading-want) > 1e-9 {
		t.Errorf("expected boosted heading %f, got %f", want, a.Heading)
	}
	if a.SpeedMultiplier != BoostSpeedMultiplier {
		t.Errorf("expected speed multiplier %f, got %f", BoostSpeedMultiplier, a.SpeedMultiplier)
	}
	if a.FollowDelay != FollowDelayBoost {
		t.Errorf("expected follow delay %f, got %f", FollowDelayBoost, a.FollowDelay)
	}
}

func TestActorExternalSpeed(t *testing.T) {
	rules := DefaultRules()
	a := newTestActor(ActorPlayer, 5, &rules)
	a.Tick(1, Vec2{}, ExtraSpeedValue)
	if want := a.BaseSpeed * ExtraSpeedValue; math.Abs(a.Pos.X-want) > 1e-9 {
		t.Errorf("expected to travel %f, got %f", want, a.Pos.X)
	}
}

func TestActorBaseSpeedShrinksWithSize(t *testing.T) {
	rules := DefaultRules()
	small := newTestActor(ActorBot, 0, &rules)
	if small.BaseSpeed != MoveSpeedMax {
		t.Errorf("expected %f for an empty body, got %f", MoveSpeedMax, small.BaseSpeed)
	}
	big := newTestActor(ActorBot, 1000, &rules)
	if math.Abs(big.BaseSpeed-6.5) > 1e-9 {
		t.Errorf("expected 6.5 at 1000 segments, got %f", big.BaseSpeed)
	}
	huge := newTestActor(ActorBot, 10000, &rules)
	if huge.BaseSpeed != MinMoveSpeed {
		t.Errorf("expected speed floor %f, got %f", MinMoveSpeed, huge.BaseSpeed)
	}
}

func TestActorBoostAtFloorKeepsSize(t *testing.T) {
	rules := DefaultRules()
	a := newTestActor(ActorBot, MinimumBodyparts, &rules)

	for i := 0; i < 3*FramesNeededForBodyReduce; i++ {
		a.SetBoost(true)
	}
	if a.Score() != MinimumBodyparts {
		t.Errorf("boosting at the floor should not shrink, got %d", a.Score())
	}
}

func TestActorBoostConsumesSegments(t *testing.T) {
	rules := DefaultRules()
	a := newTestActor(ActorBot, 10, &rules)

	for i := 0; i < FramesNeededForBodyReduce-1; i++ {
		a.SetBoost(true)
	}
	if a.Score() != 10 {
		t.Errorf("expected no loss before %d boosted ticks, got %d", FramesNeededForBodyReduce, a.Score())
	}
	a.SetBoost(true)
	if a.Score() != 9 {
		t.Errorf("expected one segment lost, got %d", a.Score())
	}
	for i := 0; i < 20*FramesNeededForBodyReduce; i++ {
		a.SetBoost(true)
	}
	if a.Score() != MinimumBodyparts {
		t.Errorf("expected to bottom out at %d, got %d", MinimumBodyparts, a.Score())
	}
}

func TestActorEatGrowsEveryKth(t *testing.T) {
	rules := DefaultRules()
	a := newTestActor(ActorPlayer, 5, &rules)

	for i := 1; i <= 9; i++ {
		grown := a.Eat(1, FoodIntoBodypart)
		want := 0
		if i%FoodIntoBodypart == 0 {
			want = 1
		}
		if grown != want {
			t.Errorf("pickup %d: expected %d segments, got %d", i, want, grown)
		}
	}
	if a.Score() != 8 {
		t.Errorf("expected 8 segments after 9 pickups, got %d", a.Score())
	}
	if a.FoodCounter != 9 {
		t.Errorf("expected food counter 9, got %d", a.FoodCounter)
	}
}

func TestKillPrize(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 1}, {5, 1}, {10, 1}, {19, 1}, {20, 2}, {50, 5}, {80, 8}, {999, 99},
	}
	for _, tt := range tests {
		if got := KillPrize(tt.n); got != tt.want {
			t.Errorf("KillPrize(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestActorKilledByBodyGrantsPrize(t *testing.T) {
	w, rec := newTestArena(t, quietConfig(ModeQuickPlay))
	a := w.SpawnBot(Vec2{50, 50}, 50)
	b := w.SpawnBot(Vec2{-50, -50}, 80)

	out := a.OnCollision(Collider{Kind: KindBotBody, Owner: b, Index: 10}, w)

	if out != OutcomeKilledBy {
		t.Errorf("expected killed-by outcome, got %d", out)
	}
	if a.Alive {
		t.Error("a should be dead")
	}
	if b.Score() != 85 {
		t.Errorf("expected b to gain 50/10 segments (85), got %d", b.Score())
	}
	if b.Kills != 1 {
		t.Errorf("expected 1 kill, got %d", b.Kills)
	}
	kills := rec.ofKind(EventKill)
	if len(kills) != 1 || kills[0].ActorID != b.ID || kills[0].OtherID != a.ID || kills[0].Value != 5 {
		t.Errorf("unexpected kill events: %+v", kills)
	}
}

func TestActorHeadOnBothDie(t *testing.T) {
	w, rec := newTestArena(t, quietConfig(ModeQuickPlay))
	a := w.SpawnBot(Vec2{50, 50}, 20)
	b := w.SpawnBot(Vec2{-50, -50}, 30)

	out := a.OnCollision(Collider{Kind: KindBotHead, Owner: b, Index: -1}, w)

	if out != OutcomeHeadOn {
		t.Errorf("expected head-on outcome, got %d", out)
	}
	if a.Alive || b.Alive {
		t.Error("both actors should die")
	}
	if len(rec.ofKind(EventKill)) != 0 {
		t.Error("head-on should grant no prize")
	}
	if len(rec.ofKind(EventDeath)) != 2 {
		t.Errorf("expected 2 deaths, got %d", len(rec.ofKind(EventDeath)))
	}
}

func TestActorHeadOnInArena(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))
	a := w.SpawnBot(Vec2{40, 40}, 5)
	b := w.SpawnBot(Vec2{40.3, 40}, 5)

	w.rebuildGrid()
	w.resolveCollisions()

	if a.Alive || b.Alive {
		t.Error("overlapping heads should both die in one resolution pass")
	}
}

func TestActorHeadOnBeatsRivalBody(t *testing.T) {
	w, rec := newTestArena(t, quietConfig(ModeQuickPlay))
	a := w.SpawnBot(Vec2{-0.6, 50}, 5)
	b := w.SpawnBot(Vec2{0.3, 50}, 5)
	// b's body sits in the grid cell before its head, so the grid lists it first
	segs := b.Body.Segments()
	for i := range segs {
		segs[i].Pos = Vec2{-0.2, 50}
	}

	w.rebuildGrid()
	w.resolveCollisions()

	if a.Alive || b.Alive {
		t.Errorf("touching heads should kill both, got a=%v b=%v", a.Alive, b.Alive)
	}
	if len(rec.ofKind(EventKill)) != 0 {
		t.Error("head-on should grant no prize")
	}
}

func TestActorBorderDeath(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))
	a := w.SpawnBot(Vec2{50, 50}, 10)
	a.Pos = Vec2{FieldMax + BorderMargin + 1, 0}

	w.Step(1.0 / TickRate)

	if a.Alive {
		t.Error("actor beyond the border should die")
	}
}

func TestActorDeathDropsGhostFood(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))
	a := w.SpawnBot(Vec2{50, 50}, 10)

	a.Die(w, nil)

	if got := w.food.GhostCount(); got != 5 {
		t.Errorf("expected ghost food from every other segment (5), got %d", got)
	}
	if a.Body.Len() != 0 {
		t.Error("body should be released")
	}

	w, _ = newTestArena(t, quietConfig(ModeGhetto))
	a = w.SpawnBot(Vec2{50, 50}, 10)
	a.Die(w, nil)
	if got := w.food.GhostCount(); got != 0 {
		t.Errorf("ghetto mode drops no ghost food, got %d", got)
	}
}

func TestActorDeathCancelsController(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))
	a := w.SpawnBot(Vec2{50, 50}, 10)
	brain := a.Control().(*BotBrain)
	brain.StartHunt(w.player)

	a.Die(w, nil)

	if brain.Hunting() {
		t.Error("death should stop the hunt")
	}
	if in := brain.Decide(a, w, 1); in != (Intent{}) {
		t.Errorf("cancelled brain should do nothing, got %+v", in)
	}
}

func TestActorIgnoresOwnAndDeadColliders(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))
	a := w.SpawnBot(Vec2{50, 50}, 10)
	b := w.SpawnBot(Vec2{-50, -50}, 10)

	if out := a.OnCollision(Collider{Kind: KindBotBody, Owner: a, Index: 3}, w); out != OutcomeNone {
		t.Errorf("own body should be ignored, got %d", out)
	}

	b.Die(w, nil)
	if out := a.OnCollision(Collider{Kind: KindBotBody, Owner: b, Index: 3}, w); out != OutcomeNone {
		t.Errorf("dead owner should be ignored, got %d", out)
	}
	if !a.Alive {
		t.Error("a should still be alive")
	}

	a.Die(w, nil)
	if out := a.OnCollision(Collider{Kind: KindBorder}, w); out != OutcomeNone {
		t.Errorf("dead actor should not collide, got %d", out)
	}
}

func TestActorFoodAbsorbedOnce(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))
	f := w.food.SpawnGhost(Vec2{1, 1})
	c := Collider{Kind: KindGhostFood, Pos: f.Pos, Radius: f.Radius(), Food: f}

	if out := w.player.OnCollision(c, w); out != OutcomeEatGhost {
		t.Errorf("expected eat ghost, got %d", out)
	}
	if out := w.player.OnCollision(c, w); out != OutcomeNone {
		t.Errorf("second touch in the same tick should do nothing, got %d", out)
	}
	if w.player.FoodCounter != 1 {
		t.Errorf("expected one unit eaten, got %d", w.player.FoodCounter)
	}
	if w.player.Score() != 6 {
		t.Errorf("ghost food grows every unit, expected 6 segments, got %d", w.player.Score())
	}
}

func TestActorToState(t *testing.T) {
	rules := DefaultRules()
	a := newTestActor(ActorBot, 4, &rules)
	a.Pos = Vec2{1.234, -5.678}

	st := a.ToState()
	if !st.Bot || st.Score != 4 || len(st.Segs) != 8 {
		t.Errorf("unexpected state: %+v", st)
	}
	if st.X != 1.2 || st.Y != -5.7 {
		t.Errorf("expected rounded position, got %f,%f", st.X, st.Y)
	}
}
