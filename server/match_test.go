package main

import "testing"

func TestModePresets(t *testing.T) {
	tests := []struct {
		mode      GameMode
		timer     TimerKind
		body      int
		food      int
		bots      int
		ghost     bool
		regen     bool
		respawn   bool
		lastStand bool
	}{
		{ModeQuickPlay, TimerCountdown, 5, 600, 25, true, true, true, false},
		{ModeInfinity, TimerCountUp, 5, 600, 25, true, true, true, false},
		{ModeBossHunt, TimerCountdown, 100, 0, 25, false, false, true, false},
		{ModeGhetto, TimerCountdown, 5, 300, 25, false, false, true, false},
		{ModeElimination, TimerCountUp, 5, 500, 80, true, false, false, true},
	}
	for _, tt := range tests {
		cfg := DefaultConfig(tt.mode)
		if cfg.Mode != tt.mode || cfg.Timer != tt.timer || cfg.InitialBodyparts != tt.body ||
			cfg.MaxFoods != tt.food || cfg.BotCount != tt.bots || cfg.GhostFoodFromDead != tt.ghost ||
			cfg.RegenerateFood != tt.regen || cfg.RespawnDeadBots != tt.respawn || cfg.LastSnakeStanding != tt.lastStand {
			t.Errorf("mode %d: unexpected preset %+v", tt.mode, cfg)
		}
		if cfg.TimeLimit != MatchTimeLimit {
			t.Errorf("mode %d: expected %fs timer, got %f", tt.mode, MatchTimeLimit, cfg.TimeLimit)
		}
		r := cfg.Rules()
		if r.InitialBodyparts != tt.body || r.GhostFoodFromDead != tt.ghost || r.RegenerateFood != tt.regen {
			t.Errorf("mode %d: rules do not follow the preset", tt.mode)
		}
	}
	if DefaultConfig(ModeBossHunt).HuntInterval != 30 {
		t.Error("boss hunt should schedule hunts every 30s")
	}
	if DefaultConfig(GameMode(42)).Mode != ModeQuickPlay {
		t.Error("unknown mode should fall back to quick play")
	}
	if len(ModeList()) != NumGameModes {
		t.Errorf("expected %d modes listed", NumGameModes)
	}
}

func TestCountdownEndsMatch(t *testing.T) {
	cfg := quietConfig(ModeQuickPlay)
	cfg.TimeLimit = 2
	w, rec := newTestArena(t, cfg)

	stepFor(w, 2.1)

	if w.Phase() != PhaseFinished {
		t.Fatalf("expected finished, got %d", w.Phase())
	}
	res, _ := w.Result()
	if res.Reason != EndTimeUp {
		t.Errorf("expected time_up, got %s", res.Reason)
	}
	if w.match.Remaining != 0 {
		t.Errorf("remaining should clamp at 0, got %f", w.match.Remaining)
	}
	if len(rec.ofKind(EventGameOver)) != 1 {
		t.Error("expected one gameover event")
	}
}

func TestCountdownWarnings(t *testing.T) {
	cfg := quietConfig(ModeQuickPlay)
	cfg.TimeLimit = 11
	w, rec := newTestArena(t, cfg)

	stepFor(w, 11.5)

	got := rec.ofKind(EventTimerWarning)
	want := []int{10, 3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d warnings, got %d", len(want), len(got))
	}
	for i, ev := range got {
		if ev.Value != want[i] {
			t.Errorf("warning %d: expected %d, got %d", i, want[i], ev.Value)
		}
	}
}

func TestCountUpWarnings(t *testing.T) {
	w, rec := newTestArena(t, quietConfig(ModeInfinity))
	w.match.Elapsed = 59.99

	stepFor(w, 0.1)
	if got := rec.ofKind(EventTimerWarning); len(got) != 1 || got[0].Value != 60 {
		t.Errorf("expected one warning at 60s, got %+v", got)
	}
	stepFor(w, 0.1)
	if len(rec.ofKind(EventTimerWarning)) != 1 {
		t.Error("warnings should fire once")
	}
	if w.Phase() != PhaseRunning {
		t.Error("count-up matches have no time out")
	}
}

func TestLastSnakeStanding(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeElimination))
	bot := w.SpawnBot(Vec2{50, 50}, 5)

	w.Step(1.0 / TickRate)
	if w.Phase() != PhaseRunning {
		t.Fatal("match should run while a bot lives")
	}

	bot.Die(w, nil)
	w.Step(1.0 / TickRate)
	if w.Phase() != PhaseRunning {
		t.Fatal("match should not end inside the grace period")
	}

	w.match.Elapsed = EliminationGrace + 1
	w.Step(1.0 / TickRate)
	if w.Phase() != PhaseFinished {
		t.Fatal("match should end once the last bot is gone")
	}
	if res, _ := w.Result(); res.Reason != EndLastStanding || res.Rank != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestLastSnakeStandingWaitsForQueuedSpawns(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeElimination))
	w.match.Elapsed = EliminationGrace + 1
	w.spawner.MaxRetries = 1
	w.spawner.pollLeft = 100
	for _, p := range w.spawner.Points() {
		w.spawner.SetFree(p.ID, false)
	}
	w.spawner.Request(1)

	w.Step(1.0 / TickRate)
	if w.Phase() != PhaseRunning {
		t.Fatal("match should wait for the queued bot")
	}

	stepFor(w, 0.1)
	if w.spawner.Dropped != 1 {
		t.Fatalf("expected the spawn to be dropped, got %d", w.spawner.Dropped)
	}
	if w.Phase() != PhaseFinished {
		t.Error("match should end once the queue is empty")
	}
}

func TestEliminationRankCountsLiveBots(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeElimination))
	w.SpawnBot(Vec2{50, 50}, 1)
	w.SpawnBot(Vec2{-50, -50}, 1)
	w.board.Refresh(w.actors)

	w.player.Die(w, nil)

	res, ok := w.Result()
	if !ok {
		t.Fatal("expected a result")
	}
	if res.Reason != EndPlayerDied || res.Rank != 3 {
		t.Errorf("expected rank 3 behind two live bots, got %+v", res)
	}
}

func TestMinimumBodypartsFollowsTopScore(t *testing.T) {
	w, _ := newTestArena(t, quietConfig(ModeQuickPlay))
	w.SpawnBot(Vec2{50, 50}, 150)

	stepFor(w, MinBodypartsInterval+0.1)

	if w.match.MinimumSnakeBodyparts != 10 {
		t.Errorf("expected 150/15 = 10, got %d", w.match.MinimumSnakeBodyparts)
	}
	want := w.rules.InitialBodyparts + 10 + 1
	if got := w.botSegmentsAtSpawn(); got < want {
		t.Errorf("new bots should start with at least %d segments, got %d", want, got)
	}
}

func TestHuntScheduling(t *testing.T) {
	cfg := quietConfig(ModeBossHunt)
	cfg.HuntInterval = 1
	cfg.InitialBodyparts = 5
	w, rec := newTestArena(t, cfg)
	far := w.SpawnBot(Vec2{80, 80}, 5)
	near := w.SpawnBot(Vec2{20, 20}, 5)

	stepFor(w, 1.05)

	if !near.control.(*BotBrain).Hunting() {
		t.Error("the bot nearest to the player should be hunting")
	}
	if far.control.(*BotBrain).Hunting() {
		t.Error("only one bot should be sent per interval")
	}
	if len(rec.ofKind(EventHunt)) != 1 {
		t.Errorf("expected one hunt event, got %d", len(rec.ofKind(EventHunt)))
	}
}

func TestRestartStopsRunningMatch(t *testing.T) {
	w, rec := newTestArena(t, quietConfig(ModeQuickPlay))
	first := w.match.ID

	w.StartMatch(quietConfig(ModeInfinity))

	if w.match.ID == first {
		t.Error("restart should create a new match id")
	}
	over := rec.ofKind(EventGameOver)
	if len(over) != 1 || over[0].Match != first {
		t.Errorf("the first match should be finished, got %+v", over)
	}
	if got := w.Prefs().GetInt(PrefGamesPlayed, 0); got != 2 {
		t.Errorf("expected 2 games played, got %d", got)
	}
	if w.Snapshot().Mode != int(ModeInfinity) {
		t.Error("snapshot should report the new mode")
	}
}
