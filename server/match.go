package main

// MatchPhase represents the lifecycle of a match
type MatchPhase int

const (
	PhaseNotStarted MatchPhase = 0
	PhaseRunning    MatchPhase = 1
	PhaseFinished   MatchPhase = 2
)

// GameMode selects a preset
type GameMode int

const (
	ModeQuickPlay   GameMode = 0
	ModeInfinity    GameMode = 1
	ModeBossHunt    GameMode = 2
	ModeGhetto      GameMode = 3
	ModeElimination GameMode = 4
	NumGameModes             = 5
)

// TimerKind is how the match clock runs
type TimerKind int

const (
	TimerCountdown TimerKind = 0 // ends the match at zero
	TimerCountUp   TimerKind = 1 // no forced end
)

// EndReason says why a match finished
type EndReason string

const (
	EndTimeUp       EndReason = "time_up"
	EndPlayerDied   EndReason = "player_died"
	EndLastStanding EndReason = "last_standing"
	EndStopped      EndReason = "stopped"
)

const (
	MatchTimeLimit          = 120.0 // s
	EliminationGrace        = 5.0   // s before last-standing can end a match
	MinBodypartsInterval    = 1.0   // s
	MinBodypartsScoreFactor = 15    // top score per extra spawn segment
)

var (
	countdownWarnings = [4]float64{10, 3, 2, 1}
	countUpWarnings   = [4]float64{60, 120, 180, 240}
)

// MatchConfig holds the parameters a preset controls
type MatchConfig struct {
	Mode              GameMode
	Name              string
	Timer             TimerKind
	TimeLimit         float64 // seconds
	InitialBodyparts  int
	MaxFoods          int
	BotCount          int
	GhostFoodFromDead bool
	RegenerateFood    bool
	RespawnDeadBots   bool
	LastSnakeStanding bool
	HuntInterval      float64 // s between scheduled hunts, 0 = none
	BoosterPickups    bool
}

var modePresets = [NumGameModes]MatchConfig{
	ModeQuickPlay: {
		Mode: ModeQuickPlay, Name: "Quick Play", Timer: TimerCountdown, TimeLimit: MatchTimeLimit,
		InitialBodyparts: 5, MaxFoods: 600, BotCount: 25,
		GhostFoodFromDead: true, RegenerateFood: true, RespawnDeadBots: true, BoosterPickups: true,
	},
	ModeInfinity: {
		Mode: ModeInfinity, Name: "Infinity", Timer: TimerCountUp, TimeLimit: MatchTimeLimit,
		InitialBodyparts: 5, MaxFoods: 600, BotCount: 25,
		GhostFoodFromDead: true, RegenerateFood: true, RespawnDeadBots: true, BoosterPickups: true,
	},
	ModeBossHunt: {
		Mode: ModeBossHunt, Name: "Boss Hunt", Timer: TimerCountdown, TimeLimit: MatchTimeLimit,
		InitialBodyparts: 100, MaxFoods: 0, BotCount: 25,
		RespawnDeadBots: true, HuntInterval: 30, BoosterPickups: true,
	},
	ModeGhetto: {
		Mode: ModeGhetto, Name: "Ghetto", Timer: TimerCountdown, TimeLimit: MatchTimeLimit,
		InitialBodyparts: 5, MaxFoods: 300, BotCount: 25,
		RespawnDeadBots: true, BoosterPickups: true,
	},
	ModeElimination: {
		Mode: ModeElimination, Name: "Elimination", Timer: TimerCountUp, TimeLimit: MatchTimeLimit,
		InitialBodyparts: 5, MaxFoods: 500, BotCount: 80,
		GhostFoodFromDead: true, LastSnakeStanding: true, BoosterPickups: true,
	},
}

// DefaultConfig returns the preset for mode. Unknown ids fall back to Quick Play.
func DefaultConfig(mode GameMode) MatchConfig {
	if mode < 0 || mode >= NumGameModes {
		return modePresets[ModeQuickPlay]
	}
	return modePresets[mode]
}

// Rules derives the per-match tunables from the preset
func (c MatchConfig) Rules() Rules {
	r := DefaultRules()
	r.InitialBodyparts = c.InitialBodyparts
	r.GhostFoodFromDead = c.GhostFoodFromDead
	r.RegenerateFood = c.RegenerateFood
	r.RespawnDeadBots = c.RespawnDeadBots
	return r
}

// MatchDirector is the match clock and win/loss bookkeeping
type MatchDirector struct {
	ID        string
	Phase     MatchPhase
	Config    MatchConfig
	Elapsed   float64
	Remaining float64 // countdown: seconds left; count-up: mirrors Elapsed

	// MinimumSnakeBodyparts grows with the top score and pads new bots
	MinimumSnakeBodyparts int

	minBodyLeft float64
	huntLeft    float64
	warned      [4]bool
	Result      *MatchResult
}

// NewMatchDirector creates a director waiting for its first match
func NewMatchDirector() *MatchDirector {
	return &MatchDirector{Phase: PhaseNotStarted}
}

// Start enters Running with a fresh clock
func (m *MatchDirector) Start(cfg MatchConfig) {
	*m = MatchDirector{
		ID:          GenerateUUID(),
		Phase:       PhaseRunning,
		Config:      cfg,
		minBodyLeft: MinBodypartsInterval,
		huntLeft:    cfg.HuntInterval,
	}
	if cfg.Timer == TimerCountdown {
		m.Remaining = cfg.TimeLimit
	}
}

// Running reports whether the match is in play
func (m *MatchDirector) Running() bool { return m.Phase == PhaseRunning }

// Advance runs the clock for one tick: timer warnings, the minimum body
// size refresh and hunt scheduling. It finishes the match on time-out.
func (m *MatchDirector) Advance(dt float64, w *Arena) {
	if m.Phase != PhaseRunning {
		return
	}
	m.Elapsed += dt

	if m.Config.Timer == TimerCountdown {
		m.Remaining -= dt
		for i, th := range countdownWarnings {
			if !m.warned[i] && m.Remaining <= th && m.Remaining > 0 {
				m.warned[i] = true
				w.emit(Event{Kind: EventTimerWarning, Value: int(th)})
			}
		}
		if m.Remaining <= 0 {
			m.Remaining = 0
			w.finish(EndTimeUp)
			return
		}
	} else {
		m.Remaining = m.Elapsed
		for i, th := range countUpWarnings {
			if !m.warned[i] && m.Elapsed >= th {
				m.warned[i] = true
				w.emit(Event{Kind: EventTimerWarning, Value: int(th)})
			}
		}
	}

	m.minBodyLeft -= dt
	if m.minBodyLeft <= 0 {
		m.minBodyLeft = MinBodypartsInterval
		if top, ok := w.board.Top(); ok {
			m.MinimumSnakeBodyparts = top.Score() / MinBodypartsScoreFactor
		}
	}

	if m.Config.HuntInterval > 0 {
		m.huntLeft -= dt
		if m.huntLeft <= 0 {
			m.huntLeft = m.Config.HuntInterval
			w.scheduleHunt()
		}
	}
}

// CheckLastStanding ends an elimination match once every bot is gone and
// none is still queued to spawn
func (m *MatchDirector) CheckLastStanding(w *Arena) {
	if m.Phase != PhaseRunning || !m.Config.LastSnakeStanding {
		return
	}
	if m.Elapsed > EliminationGrace && w.LiveBots() == 0 && w.spawner.Pending() == 0 {
		w.finish(EndLastStanding)
	}
}
