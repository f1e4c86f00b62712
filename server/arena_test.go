package main

import (
	"sync"
	"testing"
)

// eventRecorder captures emitted events for assertions
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) ofKind(k EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == k {
			out = append(out, ev)
		}
	}
	return out
}

// quietConfig is a preset with nothing spawned, so tests place what they need
func quietConfig(mode GameMode) MatchConfig {
	cfg := DefaultConfig(mode)
	cfg.BotCount = 0
	cfg.MaxFoods = 0
	cfg.BoosterPickups = false
	cfg.HuntInterval = 0
	return cfg
}

func newTestArena(t *testing.T, cfg MatchConfig) (*Arena, *eventRecorder) {
	t.Helper()
	rec := &eventRecorder{}
	w := NewArena(ArenaOptions{Seed: 1, Sinks: []EventSink{rec}})
	w.StartMatch(cfg)
	return w, rec
}

func stepFor(w *Arena, seconds float64) {
	dt := 1.0 / float64(TickRate)
	for i := 0; i < int(seconds*TickRate); i++ {
		w.Step(dt)
	}
}

func TestArenaStartMatch(t *testing.T) {
	w, rec := newTestArena(t, quietConfig(ModeQuickPlay))

	if w.Phase() != PhaseRunning {
		t.Fatalf("expected running, got %d", w.Phase())
	}
	if w.player == nil || !w.player.Alive {
		t.Fatal("expected a live player")
	}
	if w.player.Score() != 5 {
		t.Errorf("expected player to start with 5 segments, got %d", w.player.Score())
	}
	if len(rec.ofKind(EventMatchStart)) != 1 {
		t.Error("expected one match_start event")
	}
	if got := w.Prefs().GetInt(PrefGamesPlayed, 0); got != 1 {
		t.Errorf("expected 1 game played, got %d", got)
	}
	if w.PlayerRank() != 1 {
		t.Errorf("expected the lone player to rank 1, got %d", w.PlayerRank())
	}
}

func TestArenaStartMatchPrefill(t *testing.T) {
	cfg := quietConfig(ModeQuickPlay)
	cfg.MaxFoods = 40
	cfg.BoosterPickups = true
	w, _ := newTestArena(t, cfg)

	if w.food.NormalCount() != 40 {
		t.Errorf("expected 40 food items, got %d", w.food.NormalCount())
	}
	if len(w.pickups) != int(NumBoosterKinds) {
		t.Errorf("expected one pickup per booster kind, got %d", len(w.pickups))
	}
	for _, p := range w.pickups {
		if p.Active {
			t.Error("pickups should start hidden")
		}
	}
}

func TestArenaSpawnsRequestedBots(t *testing.T) {
	cfg := quietConfig(ModeQuickPlay)
	cfg.BotCount = 3
	w, rec := newTestArena(t, cfg)

	stepFor(w, 1)
	if w.spawner.Spawned != 3 || w.spawner.Pending() != 0 {
		t.Errorf("expected 3 bots spawned after 1s, got %d (%d pending)", w.spawner.Spawned, w.spawner.Pending())
	}
	if len(rec.ofKind(EventSpawn)) != 3 {
		t.Errorf("expected 3 spawn events, got %d", len(rec.ofKind(EventSpawn)))
	}
	for _, a := range w.actors {
		if a.Kind == ActorBot && a.Score() < w.rules.InitialBodyparts+1 {
			t.Errorf("bot %d spawned with %d segments", a.ID, a.Score())
		}
	}
}

func TestArenaBotDeathRequestsRespawn(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))
	bot := w.SpawnBot(Vec2{50, 50}, 10)

	bot.Die(w, nil)
	if w.spawner.Pending() != 1 {
		t.Errorf("expected a respawn request, got %d pending", w.spawner.Pending())
	}

	cfg := quietConfig(ModeElimination)
	w, _ = newTestArena(t, cfg)
	bot = w.SpawnBot(Vec2{50, 50}, 10)
	bot.Die(w, nil)
	if w.spawner.Pending() != 0 {
		t.Errorf("elimination should not respawn bots, got %d pending", w.spawner.Pending())
	}
}

func TestArenaPruneDead(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))
	a := w.SpawnBot(Vec2{50, 50}, 10)
	w.SpawnBot(Vec2{-50, -50}, 10)

	a.Die(w, nil)
	w.Step(1.0 / TickRate)

	if len(w.actors) != 2 {
		t.Errorf("expected player and one bot left, got %d actors", len(w.actors))
	}
	for _, x := range w.actors {
		if x == a {
			t.Error("dead actor still in the update list")
		}
	}
}

func TestArenaPlayerDeathFinishes(t *testing.T) {
	w, rec := newTestArena(t, quietConfig(ModeInfinity))
	w.player.Eat(9, 3)

	w.player.Die(w, nil)

	if w.Phase() != PhaseFinished {
		t.Fatalf("expected finished, got %d", w.Phase())
	}
	res, ok := w.Result()
	if !ok {
		t.Fatal("expected a result")
	}
	if res.Reason != EndPlayerDied {
		t.Errorf("expected player_died, got %s", res.Reason)
	}
	if res.Score != 8 {
		t.Errorf("expected final score 8, got %d", res.Score)
	}
	if res.Rank != 1 {
		t.Errorf("expected rank 1, got %d", res.Rank)
	}
	if len(rec.ofKind(EventGameOver)) != 1 {
		t.Error("expected one gameover event")
	}
	if got := w.Prefs().GetInt(PrefCollectedFood, 0); got != 9 {
		t.Errorf("expected 9 collected food, got %d", got)
	}

	// a finished arena stops advancing
	tick := w.tick
	w.Step(1.0 / TickRate)
	if w.player.Alive || w.tick != tick+1 {
		t.Error("finished arena should only count ticks")
	}
}

func TestArenaHandleInputSteers(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))

	w.HandleInput(PlayerInput{X: 0, Y: 1})
	stepFor(w, 1)

	if w.player.Heading <= 0 {
		t.Errorf("expected heading to turn toward +Y, got %f", w.player.Heading)
	}
	if w.player.Pos.Y <= 0 {
		t.Errorf("expected player to move toward +Y, got %f", w.player.Pos.Y)
	}
}

func TestArenaStartHunt(t *testing.T) {
	w, rec := newTestArena(t, quietConfig(ModeQuickPlay))
	bot := w.SpawnBot(Vec2{50, 50}, 10)

	if w.StartHunt(999) {
		t.Error("hunt with unknown bot should fail")
	}
	if w.StartHunt(w.player.ID) {
		t.Error("the player cannot be sent hunting")
	}
	if !w.StartHunt(bot.ID) {
		t.Fatal("expected hunt to start")
	}
	if !bot.control.(*BotBrain).Hunting() {
		t.Error("bot should be hunting")
	}
	if len(rec.ofKind(EventHunt)) != 1 {
		t.Error("expected a hunt event")
	}
}

func TestArenaSnapshot(t *testing.T) {
	cfg := quietConfig(ModeQuickPlay)
	cfg.MaxFoods = 10
	w, _ := newTestArena(t, cfg)
	w.SpawnBot(Vec2{50, 50}, 10)
	w.Step(1.0 / TickRate)

	s := w.Snapshot()
	if s.PlayerID != w.player.ID {
		t.Errorf("expected player id %d, got %d", w.player.ID, s.PlayerID)
	}
	if len(s.Actors) != 2 {
		t.Errorf("expected 2 actors, got %d", len(s.Actors))
	}
	if len(s.Food) != 10 {
		t.Errorf("expected 10 food, got %d", len(s.Food))
	}
	if s.Enemies != 1 {
		t.Errorf("expected 1 enemy, got %d", s.Enemies)
	}
	if len(s.Leaderboard) != 2 {
		t.Errorf("expected 2 leaderboard rows, got %d", len(s.Leaderboard))
	}
	if s.Rank != 2 {
		t.Errorf("expected player rank 2 behind the bigger bot, got %d", s.Rank)
	}
	for _, a := range s.Actors {
		if len(a.Segs) != 2*a.Score {
			t.Errorf("actor %d: expected %d segment coords, got %d", a.ID, 2*a.Score, len(a.Segs))
		}
	}
}

func TestArenaDeterministicWithSeed(t *testing.T) {
	run := func() Vec2 {
		cfg := quietConfig(ModeQuickPlay)
		cfg.BotCount = 4
		cfg.MaxFoods = 50
		w, _ := newTestArena(t, cfg)
		stepFor(w, 3)
		var sum Vec2
		for _, a := range w.actors {
			sum = sum.Add(a.Pos)
		}
		return sum
	}
	a, b := run(), run()
	if a != b {
		t.Errorf("same seed gave different outcomes: %v vs %v", a, b)
	}
}
