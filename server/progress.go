package main

import (
	"math"

	"github.com/charmbracelet/log"
)

const (
	CoinsPerScore  = 1.7
	BaseXPReward   = 50
	XPPerRankAbove = 10
	MaxPlayerLevel = 10
)

// xpThresholds[i] is the total XP needed to leave level i+1
var xpThresholds = []int{200, 500, 1100, 2300, 4700, 9500, 19100, 38300, 76700}

// LevelForXP returns the level (1..MaxPlayerLevel) for a total XP amount
func LevelForXP(xp int) int {
	for i, th := range xpThresholds {
		if xp < th {
			return i + 1
		}
	}
	return MaxPlayerLevel
}

// XPToNextLevel returns the XP still missing for the next level, 0 at max
func XPToNextLevel(xp int) int {
	lvl := LevelForXP(xp)
	if lvl >= MaxPlayerLevel {
		return 0
	}
	return xpThresholds[lvl-1] - xp
}

// PrizeCoins is the coin reward for a final score and rank
func PrizeCoins(score, rank int) int {
	return int(float64(score) * CoinsPerScore * math.Max(1, float64(4-rank)))
}

// XPReward is the experience granted for a final rank
func XPReward(rank int) int {
	if rank < 10 {
		return BaseXPReward
	}
	return BaseXPReward + max(1, 11-rank)*XPPerRankAbove
}

// MatchResult is the summary handed to the game-over screen and history
type MatchResult struct {
	MatchID   string    `json:"id"`
	Mode      GameMode  `json:"mode"`
	Reason    EndReason `json:"reason"`
	Duration  float64   `json:"duration"`
	Score     int       `json:"score"`
	Rank      int       `json:"rank"`
	Kills     int       `json:"kills"`
	Coins     int       `json:"coins"`
	XPEarned  int       `json:"xp"`
	TotalXP   int       `json:"total_xp"`
	Level     int       `json:"level"`
	BestScore int       `json:"best"`
	NewBest   bool      `json:"new_best"`
}

// MatchRecorder keeps a history of finished matches
type MatchRecorder interface {
	RecordMatch(r MatchResult) error
}

// Progress writes lifetime stats and rewards to the preference store
type Progress struct {
	prefs   PrefStore
	history MatchRecorder
}

// NewProgress creates a tracker. history may be nil.
func NewProgress(prefs PrefStore, history MatchRecorder) *Progress {
	return &Progress{prefs: prefs, history: history}
}

func (p *Progress) add(key string, delta int) {
	if err := AddInt(p.prefs, key, delta); err != nil {
		log.Error("stat update failed", "key", key, "err", err)
	}
}

// MatchStarted counts a played game and remembers the mode
func (p *Progress) MatchStarted(mode GameMode) {
	p.add(PrefGamesPlayed, 1)
	if err := p.prefs.SetInt(PrefGameModeID, int(mode)); err != nil {
		log.Error("stat update failed", "key", PrefGameModeID, "err", err)
	}
}

// KillScored counts a rival killed by the player
func (p *Progress) KillScored() { p.add(PrefTotalKills, 1) }

// FoodCollected adds eaten food units
func (p *Progress) FoodCollected(n int) {
	if n > 0 {
		p.add(PrefCollectedFood, n)
	}
}

// Finish applies the game-over rewards to r and persists them
func (p *Progress) Finish(r *MatchResult) {
	p.add(PrefTotalPlayTime, int(r.Duration))

	best := p.prefs.GetInt(PrefSavedBestScore, 0)
	if r.Score > best {
		best = r.Score
		r.NewBest = true
		if err := p.prefs.SetInt(PrefSavedBestScore, best); err != nil {
			log.Error("stat update failed", "key", PrefSavedBestScore, "err", err)
		}
	}
	r.BestScore = best

	r.Coins = PrizeCoins(r.Score, r.Rank)
	p.add(PrefPlayerCoins, r.Coins)

	r.XPEarned = XPReward(r.Rank)
	r.TotalXP = p.prefs.GetInt(PrefPlayerCurrentXP, 0) + r.XPEarned
	if err := p.prefs.SetInt(PrefPlayerCurrentXP, r.TotalXP); err != nil {
		log.Error("stat update failed", "key", PrefPlayerCurrentXP, "err", err)
	}
	r.Level = LevelForXP(r.TotalXP)

	if p.history != nil {
		if err := p.history.RecordMatch(*r); err != nil {
			log.Error("match history write failed", "match", r.MatchID, "err", err)
		}
	}
}

// LifetimeStats is the persisted profile shown by the UI
type LifetimeStats struct {
	Name        string `json:"name"`
	SkinID      int    `json:"skin"`
	GameMode    int    `json:"mode"`
	GamesPlayed int    `json:"games"`
	TotalKills  int    `json:"kills"`
	PlayTime    int    `json:"play_time"`
	BestScore   int    `json:"best"`
	Food        int    `json:"food"`
	Coins       int    `json:"coins"`
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
	XPToNext    int    `json:"xp_to_next"`
}

// Stats reads the lifetime profile
func (p *Progress) Stats() LifetimeStats {
	xp := p.prefs.GetInt(PrefPlayerCurrentXP, 0)
	return LifetimeStats{
		Name:        p.prefs.GetString(PrefPlayerName, DefaultPlayerName),
		SkinID:      p.prefs.GetInt(PrefSelectedSkinID, 0),
		GameMode:    p.prefs.GetInt(PrefGameModeID, int(ModeQuickPlay)),
		GamesPlayed: p.prefs.GetInt(PrefGamesPlayed, 0),
		TotalKills:  p.prefs.GetInt(PrefTotalKills, 0),
		PlayTime:    p.prefs.GetInt(PrefTotalPlayTime, 0),
		BestScore:   p.prefs.GetInt(PrefSavedBestScore, 0),
		Food:        p.prefs.GetInt(PrefCollectedFood, 0),
		Coins:       p.prefs.GetInt(PrefPlayerCoins, 0),
		XP:          xp,
		Level:       LevelForXP(xp),
		XPToNext:    XPToNextLevel(xp),
	}
}
