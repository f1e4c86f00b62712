package main

import "sort"

const (
	LeaderboardMaxRows  = 10
	LeaderboardInterval = 1.0 // s between refreshes
)

// Row colors
const (
	ColorGold    = "#FFD700"
	ColorSilver  = "#C0C0C0"
	ColorBronze  = "#CD7F32"
	ColorDefault = "#FFFFFF"
	ColorPlayer  = "#00FF00"
)

var tierColors = [3]string{ColorGold, ColorSilver, ColorBronze}

// LeaderboardEntry is one actor's score at snapshot time
type LeaderboardEntry struct {
	Actor *Actor
	Score int
}

// LeaderboardRow is what the UI draws
type LeaderboardRow struct {
	Rank   int    `json:"r" msgpack:"r"`
	ID     int    `json:"id" msgpack:"id"`
	Name   string `json:"n" msgpack:"n"`
	Score  int    `json:"s" msgpack:"s"`
	Color  string `json:"c" msgpack:"c"`
	Player bool   `json:"p,omitempty" msgpack:"p,omitempty"`
}

// Leaderboard ranks live actors by size
type Leaderboard struct {
	entries []LeaderboardEntry
	ready   bool
	dirty   bool
	left    float64
}

// NewLeaderboard creates an empty board; it is not ready until the first refresh
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{}
}

// MarkDirty forces a refresh on the next tick
func (l *Leaderboard) MarkDirty() { l.dirty = true }

// Reset empties the board
func (l *Leaderboard) Reset() {
	l.entries = l.entries[:0]
	l.ready, l.dirty, l.left = false, false, 0
}

// Tick refreshes on the interval or when marked dirty
func (l *Leaderboard) Tick(dt float64, actors []*Actor) {
	l.left -= dt
	if l.left <= 0 || l.dirty {
		l.Refresh(actors)
	}
}

// Refresh snapshots every live actor and sorts by score, highest first.
// Equal scores keep the order of actors, which is spawn order.
func (l *Leaderboard) Refresh(actors []*Actor) {
	l.entries = l.entries[:0]
	for _, a := range actors {
		if a.Alive {
			l.entries = append(l.entries, LeaderboardEntry{Actor: a, Score: a.Score()})
		}
	}
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Score > l.entries[j].Score
	})
	l.ready = true
	l.dirty = false
	l.left = LeaderboardInterval
}

// Ready reports whether a snapshot exists
func (l *Leaderboard) Ready() bool { return l.ready }

// Entries returns the current snapshot
func (l *Leaderboard) Entries() []LeaderboardEntry { return l.entries }

// Rank returns the 1-based rank of a, or 0 if a is not on the board
func (l *Leaderboard) Rank(a *Actor) int {
	for i, e := range l.entries {
		if e.Actor == a {
			return i + 1
		}
	}
	return 0
}

// RankFor returns a's rank, or where score would place it if a is no
// longer on the board
func (l *Leaderboard) RankFor(a *Actor, score int) int {
	if r := l.Rank(a); r > 0 {
		return r
	}
	rank := 1
	for _, e := range l.entries {
		if e.Score > score {
			rank++
		}
	}
	return rank
}

// Top returns the highest ranked actor
func (l *Leaderboard) Top() (*Actor, bool) {
	if len(l.entries) == 0 {
		return nil, false
	}
	return l.entries[0].Actor, true
}

// Rows builds the UI rows. The player always shows: if it ranks below
// the visible rows it replaces the last one.
func (l *Leaderboard) Rows(player *Actor) ([]LeaderboardRow, bool) {
	if !l.ready {
		return nil, false
	}
	n := len(l.entries)
	if n > LeaderboardMaxRows {
		n = LeaderboardMaxRows
	}
	rows := make([]LeaderboardRow, 0, n)
	shown := false
	for i := 0; i < n; i++ {
		e := l.entries[i]
		isPlayer := e.Actor == player
		shown = shown || isPlayer
		rows = append(rows, makeRow(i+1, e, isPlayer))
	}
	if !shown && player != nil && n == LeaderboardMaxRows {
		if r := l.Rank(player); r > 0 {
			rows[n-1] = makeRow(r, l.entries[r-1], true)
		}
	}
	return rows, true
}

func makeRow(rank int, e LeaderboardEntry, isPlayer bool) LeaderboardRow {
	color := ColorDefault
	if rank <= len(tierColors) {
		color = tierColors[rank-1]
	}
	if isPlayer {
		color = ColorPlayer
	}
	return LeaderboardRow{Rank: rank, ID: e.Actor.ID, Name: e.Actor.Name, Score: e.Score, Color: color, Player: isPlayer}
}
