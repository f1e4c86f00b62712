package main

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
)

const (
	SpawnGridSize     = 8
	SpawnGridSpacing  = 22.0
	SpawnGridOffset   = 15.0 // from the field's min corner
	SpawnCheckRadius  = 8.5
	SpawnPollInterval = 0.5  // s between freeness refreshes
	SpawnDelay        = 0.05 // s before each attempt
	SpawnMaxBackoff   = 1.0  // s
	MaxSpawnRetries   = 50
)

// SpawnPoint is a fixed candidate location for new bots
type SpawnPoint struct {
	ID   int
	Pos  Vec2
	Free bool
}

type spawnRequest struct {
	wait     float64
	attempts int
}

// SpawnCoordinator owns the spawn grid and a serial queue of bot spawns
type SpawnCoordinator struct {
	points     []SpawnPoint
	pollLeft   float64
	queue      []spawnRequest
	MaxRetries int // <= 0 retries forever
	Spawned    int
	Dropped    int
}

// NewSpawnCoordinator lays out the 8x8 grid over the field. Points start
// free until the first poll.
func NewSpawnCoordinator() *SpawnCoordinator {
	s := &SpawnCoordinator{MaxRetries: MaxSpawnRetries}
	for i := 0; i < SpawnGridSize; i++ {
		for j := 0; j < SpawnGridSize; j++ {
			s.points = append(s.points, SpawnPoint{
				ID:   len(s.points),
				Pos:  Vec2{FieldMin + SpawnGridSpacing*float64(j) + SpawnGridOffset, FieldMin + SpawnGridSpacing*float64(i) + SpawnGridOffset},
				Free: true,
			})
		}
	}
	return s
}

// Points returns the grid
func (s *SpawnCoordinator) Points() []SpawnPoint { return s.points }

// Refresh recomputes every point's freeness: no snake collider within the
// check radius
func (s *SpawnCoordinator) Refresh(g *SpatialGrid) {
	for i := range s.points {
		s.points[i].Free = !g.Any(s.points[i].Pos, SpawnCheckRadius, MaskSnake, nil)
	}
}

// SetFree overrides one point's flag until the next refresh
func (s *SpawnCoordinator) SetFree(id int, free bool) {
	if id >= 0 && id < len(s.points) {
		s.points[id].Free = free
	}
}

// GetFreeSpawnPoint samples one point uniformly. ok is false when the
// sampled point is occupied; the caller retries later.
func (s *SpawnCoordinator) GetFreeSpawnPoint(rng *rand.Rand) (SpawnPoint, bool) {
	p := s.points[rng.Intn(len(s.points))]
	if !p.Free {
		return SpawnPoint{}, false
	}
	return p, true
}

// Request queues n bot spawns
func (s *SpawnCoordinator) Request(n int) {
	for i := 0; i < n; i++ {
		s.queue = append(s.queue, spawnRequest{wait: SpawnDelay})
	}
}

// Pending returns the number of queued spawns
func (s *SpawnCoordinator) Pending() int { return len(s.queue) }

// Reset drops the queue and marks every point free
func (s *SpawnCoordinator) Reset() {
	s.queue = s.queue[:0]
	s.pollLeft = 0
	s.Spawned, s.Dropped = 0, 0
	for i := range s.points {
		s.points[i].Free = true
	}
}

// Tick polls freeness and works the head of the queue. A failed attempt
// goes to the back with exponential backoff so it does not block others.
func (s *SpawnCoordinator) Tick(dt float64, w *Arena) {
	s.pollLeft -= dt
	if s.pollLeft <= 0 {
		s.Refresh(w.grid)
		s.pollLeft = SpawnPollInterval
	}
	if len(s.queue) == 0 {
		return
	}
	req := &s.queue[0]
	req.wait -= dt
	if req.wait > 0 {
		return
	}
	r := *req
	s.queue = s.queue[1:]

	p, ok := s.GetFreeSpawnPoint(w.rng)
	if ok {
		s.points[p.ID].Free = false
		w.SpawnBot(p.Pos, w.botSegmentsAtSpawn())
		s.Spawned++
		return
	}
	r.attempts++
	if s.MaxRetries > 0 && r.attempts >= s.MaxRetries {
		s.Dropped++
		log.Warn("giving up on bot spawn", "attempts", r.attempts)
		return
	}
	r.wait = math.Min(SpawnMaxBackoff, SpawnDelay*math.Pow(2, float64(r.attempts)))
	s.queue = append(s.queue, r)
}
