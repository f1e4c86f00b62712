package main

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // simulation ticks per second
	BroadcastRate  = 30 // snapshots per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

// Broadcaster pushes encoded messages to every connected UI client
type Broadcaster interface {
	BroadcastBinary(data []byte)
	BroadcastJSON(msg interface{})
}

// ArenaOptions wires an arena to its collaborators
type ArenaOptions struct {
	Seed    int64 // 0 picks a time-based seed
	Prefs   PrefStore
	History MatchRecorder
	Sinks   []EventSink
}

// Arena is one local match: the player, the bots and everything they eat.
// The simulation is single-threaded; mu only guards against the HTTP side.
type Arena struct {
	mu    sync.Mutex
	rng   *rand.Rand
	rules Rules
	tick  uint64

	grid      *SpatialGrid
	actors    []*Actor // spawn order, which is also update order
	player    *Actor
	playerCtl *PlayerControl
	food      *FoodPool
	boosters  *BoosterState
	pickups   []*BoosterPickup
	spawner   *SpawnCoordinator
	match     *MatchDirector
	board     *Leaderboard
	progress  *Progress
	prefs     PrefStore

	sinks       []EventSink
	out         Broadcaster
	nextID      int
	playerFinal int
	hitBuf      []Collider
	queryBuf    []Collider
}

// NewArena creates an idle arena; call StartMatch to play
func NewArena(opts ArenaOptions) *Arena {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	prefs := opts.Prefs
	if prefs == nil {
		prefs = NewMemoryPrefs()
	}
	return &Arena{
		rng:      rand.New(rand.NewSource(seed)),
		rules:    DefaultRules(),
		grid:     NewSpatialGrid(),
		food:     NewFoodPool(0, false),
		boosters: NewBoosterState(),
		spawner:  NewSpawnCoordinator(),
		match:    NewMatchDirector(),
		board:    NewLeaderboard(),
		progress: NewProgress(prefs, opts.History),
		prefs:    prefs,
		sinks:    opts.Sinks,
	}
}

// SetBroadcaster attaches the UI fan-out
func (w *Arena) SetBroadcaster(b Broadcaster) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.out = b
}

// AddSink registers an event listener
func (w *Arena) AddSink(s EventSink) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sinks = append(w.sinks, s)
}

// Run drives the fixed timestep until ctx is done
func (w *Arena) Run(ctx context.Context) {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.update()
		case <-ctx.Done():
			return
		}
	}
}

func (w *Arena) update() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.step(1.0 / float64(TickRate))
	if w.out != nil && w.tick%BroadcastEvery == 0 {
		w.broadcastState()
	}
}

// Step advances the simulation by dt seconds
func (w *Arena) Step(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step(dt)
}

// StartMatch resets the arena and starts a match with cfg
func (w *Arena) StartMatch(cfg MatchConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.startMatch(cfg)
}

// StartMode starts a match from a preset id
func (w *Arena) StartMode(mode GameMode) {
	w.StartMatch(DefaultConfig(mode))
}

// HandleInput feeds one input sample to the player
func (w *Arena) HandleInput(in PlayerInput) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.player == nil || !w.player.Alive {
		return
	}
	w.playerCtl.Set(in, w.player.Pos)
}

// StartHunt sends a bot after the player. Returns false if there is no such
// live bot or no live player.
func (w *Arena) StartHunt(botID int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := w.actorByID(botID)
	if a == nil || a.Kind != ActorBot || w.player == nil || !w.player.Alive {
		return false
	}
	w.huntWith(a)
	return true
}

// Result returns the last finished match summary
func (w *Arena) Result() (MatchResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.match.Result == nil {
		return MatchResult{}, false
	}
	return *w.match.Result, true
}

// Phase returns the match phase
func (w *Arena) Phase() MatchPhase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.match.Phase
}

// Stats returns the persisted lifetime profile
func (w *Arena) Stats() LifetimeStats {
	return w.progress.Stats()
}

// PlayerRank returns the player's place on the leaderboard, 0 when absent
func (w *Arena) PlayerRank() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.player == nil {
		return 0
	}
	return w.board.Rank(w.player)
}

// Prefs returns the preference store; it does its own locking
func (w *Arena) Prefs() PrefStore {
	return w.prefs
}

func (w *Arena) startMatch(cfg MatchConfig) {
	if w.match.Running() {
		w.finish(EndStopped)
	}
	w.rules = cfg.Rules()
	w.tick = 0
	w.nextID = 0
	w.playerFinal = 0
	w.actors = w.actors[:0]
	w.grid.Clear()
	w.food = NewFoodPool(cfg.MaxFoods, cfg.RegenerateFood)
	w.food.Prefill(w.randomFieldPoint)
	w.boosters.Reset()
	w.pickups = w.pickups[:0]
	if cfg.BoosterPickups {
		for k := BoosterKind(0); k < NumBoosterKinds; k++ {
			p := &BoosterPickup{ID: int(k) + 1, Kind: k}
			p.Reposition(w.randomFieldPoint())
			w.pickups = append(w.pickups, p)
		}
	}
	w.spawner.Reset()
	w.board.Reset()
	w.match.Start(cfg)

	w.playerCtl = NewPlayerControl()
	name := w.prefs.GetString(PrefPlayerName, DefaultPlayerName)
	skin := w.prefs.GetInt(PrefSelectedSkinID, 0)
	w.player = NewActor(w.nextActorID(), ActorPlayer, name, skin, Vec2{PlayerStartX, PlayerStartY}, 0, &w.rules, w.playerCtl)
	w.player.Grow(w.rules.InitialBodyparts)
	w.actors = append(w.actors, w.player)

	w.spawner.Request(cfg.BotCount)
	w.board.Refresh(w.actors)
	w.progress.MatchStarted(cfg.Mode)
	w.emit(Event{Kind: EventMatchStart, Value: int(cfg.Mode)})
	log.Info("match started", "id", w.match.ID, "mode", cfg.Name, "bots", cfg.BotCount, "food", cfg.MaxFoods)
}

// step runs one tick. Order: clock, boosters, spawns, actors (spawn order,
// decide then move), collisions, food, leaderboard.
func (w *Arena) step(dt float64) {
	w.tick++
	if !w.match.Running() {
		return
	}
	w.match.Advance(dt, w)
	if !w.match.Running() {
		return
	}

	w.boosters.Tick(dt)
	for _, p := range w.pickups {
		p.Tick(dt)
	}
	w.spawner.Tick(dt, w)

	for _, a := range w.actors {
		if !a.Alive {
			continue
		}
		in := a.control.Decide(a, w, dt)
		a.SetBoost(in.Boost)
		ext := 1.0
		if a.Kind == ActorPlayer {
			ext = w.boosters.ExtraSpeed()
		}
		a.Tick(dt, in.Direction, ext)
		a.FollowBody(dt)
	}

	w.rebuildGrid()
	w.resolveCollisions()
	w.food.Tick(dt, w.randomFieldPoint)
	w.board.Tick(dt, w.actors)
	w.pruneDead()
	w.match.CheckLastStanding(w)
}

func (w *Arena) rebuildGrid() {
	g := w.grid
	g.Clear()
	for _, f := range w.food.Items() {
		if f.Phase != FoodActive {
			continue
		}
		kind := KindFood
		if f.Kind == FoodGhost {
			kind = KindGhostFood
		}
		g.Insert(Collider{Kind: kind, Pos: f.Pos, Radius: f.Radius(), Food: f})
	}
	for _, p := range w.pickups {
		if p.Active {
			g.Insert(Collider{Kind: KindBooster, Pos: p.Pos, Radius: BoosterPickupRadius, Pickup: p})
		}
	}
	for _, a := range w.actors {
		if !a.Alive {
			continue
		}
		head, body := KindBotHead, KindBotBody
		if a.Kind == ActorPlayer {
			head, body = KindPlayerHead, KindPlayerBody
		}
		g.Insert(Collider{Kind: head, Pos: a.Pos, Radius: a.HeadRadius(), Owner: a, Index: -1})
		r := SegmentRadius * a.Scale()
		for i, s := range a.Body.Segments() {
			g.Insert(Collider{Kind: body, Pos: s.Pos, Radius: r, Owner: a, Index: i})
		}
	}
}

// resolveCollisions checks every live head once, in actor order
func (w *Arena) resolveCollisions() {
	for _, a := range w.actors {
		if !a.Alive {
			continue
		}
		if !InBorder(a.Pos) {
			a.OnCollision(Collider{Kind: KindBorder, Pos: a.Pos}, w)
			continue
		}
		w.hitBuf = w.grid.Overlap(a.Pos, a.HeadRadius(), MaskHit, w.hitBuf[:0])
		if a.Kind == ActorPlayer {
			if r := w.boosters.MagnetRadius(); r > 0 {
				w.hitBuf = w.grid.Overlap(a.Pos, r, MaskFood, w.hitBuf)
			}
		}
		if c, ok := rivalHead(a, w.hitBuf); ok {
			a.OnCollision(c, w)
			continue
		}
		for _, c := range w.hitBuf {
			if !a.Alive {
				break
			}
			a.OnCollision(c, w)
		}
	}
}

// rivalHead finds a live rival head among hits. Head-on wins over touching
// the same rival's body, whatever order the grid returned them in.
func rivalHead(a *Actor, hits []Collider) (Collider, bool) {
	for _, c := range hits {
		if c.Kind.IsHead() && c.Owner != nil && c.Owner != a && c.Owner.collidable {
			return c, true
		}
	}
	return Collider{}, false
}

func (w *Arena) pruneDead() {
	kept := w.actors[:0]
	for _, a := range w.actors {
		if a.Alive {
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(w.actors); i++ {
		w.actors[i] = nil
	}
	w.actors = kept
}

// SpawnBot places a bot with the given body size
func (w *Arena) SpawnBot(pos Vec2, segments int) *Actor {
	brain := NewBotBrain(w.rng)
	heading := w.rng.Float64()*2*math.Pi - math.Pi
	a := NewActor(w.nextActorID(), ActorBot, RandomBotName(w.rng), w.rng.Intn(NumSkins), pos, heading, &w.rules, brain)
	a.Grow(segments)
	w.actors = append(w.actors, a)
	w.board.MarkDirty()
	w.emit(Event{Kind: EventSpawn, ActorID: a.ID, X: pos.X, Y: pos.Y, Value: segments})
	return a
}

// botSegmentsAtSpawn is the starting size of a new bot: the preset size,
// the match-wide minimum and a random extra, rarely a big one
func (w *Arena) botSegmentsAtSpawn() int {
	extra := 1 + w.rng.Intn(11)
	if w.rng.Float64() > 0.98 {
		extra = 30 + w.rng.Intn(50)
	}
	return w.rules.InitialBodyparts + w.match.MinimumSnakeBodyparts + extra
}

func (w *Arena) nextActorID() int {
	w.nextID++
	return w.nextID
}

func (w *Arena) actorByID(id int) *Actor {
	for _, a := range w.actors {
		if a.ID == id && a.Alive {
			return a
		}
	}
	return nil
}

// LiveBots counts bots still in play
func (w *Arena) LiveBots() int {
	n := 0
	for _, a := range w.actors {
		if a.Alive && a.Kind == ActorBot {
			n++
		}
	}
	return n
}

func (w *Arena) randomFieldPoint() Vec2 {
	return Vec2{
		FieldMin + w.rng.Float64()*(FieldMax-FieldMin),
		FieldMin + w.rng.Float64()*(FieldMax-FieldMin),
	}
}

// feed credits a food pickup to a
func (w *Arena) feed(a *Actor, f *FoodItem) {
	units, per, kind := w.rules.FoodScore, w.rules.FoodIntoBodypart, EventFoodPickup
	if f.Kind == FoodGhost {
		units, per, kind = w.rules.GhostFoodScore, w.rules.GhostFoodIntoBodypart, EventGhostPickup
	}
	if a.Kind == ActorPlayer {
		units *= w.boosters.ScoreMultiplier()
	}
	grown := a.Eat(units, per)
	if a.Kind == ActorPlayer {
		w.emit(Event{Kind: kind, ActorID: a.ID, X: f.Pos.X, Y: f.Pos.Y, Value: grown, Player: true})
		if grown > 0 {
			w.emit(Event{Kind: EventGrow, ActorID: a.ID, X: a.Pos.X, Y: a.Pos.Y, Value: a.Score(), Player: true})
		}
	}
}

func (w *Arena) collectBooster(p *BoosterPickup) {
	refreshed := w.boosters.Activate(p.Kind)
	at := p.Pos
	p.Reposition(w.randomFieldPoint())
	w.emit(Event{Kind: EventBooster, ActorID: w.player.ID, X: at.X, Y: at.Y, Value: int(p.Kind), Player: true})
	log.Debug("booster collected", "kind", p.Kind, "refreshed", refreshed)
}

// onActorDied runs the match-level side of a death. killer is nil unless
// it was alive to take the prize.
func (w *Arena) onActorDied(a *Actor, killer *Actor) {
	w.board.MarkDirty()
	ev := Event{Kind: EventDeath, ActorID: a.ID, X: a.Pos.X, Y: a.Pos.Y, Value: a.Score(), Player: a.Kind == ActorPlayer}
	if killer != nil {
		ev.OtherID = killer.ID
		if killer.Kind == ActorPlayer {
			w.progress.KillScored()
		}
	}
	w.emit(ev)

	switch a.Kind {
	case ActorPlayer:
		w.playerFinal = a.Score()
		w.finish(EndPlayerDied)
	case ActorBot:
		if w.rules.RespawnDeadBots && w.match.Running() {
			w.spawner.Request(1)
		}
	}
}

// scheduleHunt sends the bot closest to the player into hunt mode
func (w *Arena) scheduleHunt() {
	if w.player == nil || !w.player.Alive {
		return
	}
	var best *Actor
	bestD := math.MaxFloat64
	for _, a := range w.actors {
		if !a.Alive || a.Kind != ActorBot {
			continue
		}
		if b, ok := a.control.(*BotBrain); ok && b.Hunting() {
			continue
		}
		if d := a.Pos.DistSq(w.player.Pos); d < bestD {
			best, bestD = a, d
		}
	}
	if best != nil {
		w.huntWith(best)
	}
}

func (w *Arena) huntWith(a *Actor) {
	b, ok := a.control.(*BotBrain)
	if !ok {
		return
	}
	b.StartHunt(w.player)
	w.emit(Event{Kind: EventHunt, ActorID: a.ID, OtherID: w.player.ID})
}

// finish ends the running match. Only a real game over pays out; a
// stopped match is closed without rewards or a history row.
func (w *Arena) finish(reason EndReason) {
	m := w.match
	if m.Phase != PhaseRunning {
		return
	}
	m.Phase = PhaseFinished

	p := w.player
	score := w.playerFinal
	if p.Alive {
		score = p.Score()
	}
	res := &MatchResult{
		MatchID:  m.ID,
		Mode:     m.Config.Mode,
		Reason:   reason,
		Duration: m.Elapsed,
		Score:    score,
		Rank:     w.finalRank(p, score),
		Kills:    p.Kills,
	}
	if reason == EndStopped {
		m.Result = res
		w.emit(Event{Kind: EventGameOver, ActorID: p.ID, Value: score, Player: true})
		log.Info("match stopped", "id", m.ID, "score", score)
		return
	}
	w.progress.FoodCollected(p.FoodCounter)
	w.progress.Finish(res)
	m.Result = res

	w.emit(Event{Kind: EventGameOver, ActorID: p.ID, Value: score, Player: true})
	if w.out != nil {
		w.out.BroadcastJSON(Envelope{T: MsgGameOver, Data: res})
	}
	log.Info("match finished", "id", m.ID, "reason", reason, "score", score, "rank", res.Rank, "coins", res.Coins)
}

// finalRank places the player at game over. In elimination every
// surviving bot outranks the player.
func (w *Arena) finalRank(p *Actor, score int) int {
	if w.match.Config.LastSnakeStanding {
		return w.LiveBots() + 1
	}
	return w.board.RankFor(p, score)
}

func (w *Arena) emit(ev Event) {
	ev.Match = w.match.ID
	for _, s := range w.sinks {
		s.Notify(ev)
	}
}

// Snapshot returns the read-only view for the rendering layer
func (w *Arena) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *Arena) snapshot() Snapshot {
	s := Snapshot{
		Tick:      w.tick,
		Phase:     int(w.match.Phase),
		Mode:      int(w.match.Config.Mode),
		Time:      round1(w.match.Remaining),
		Enemies:   w.LiveBots(),
		Boosters:  w.boosters.Fractions(),
		Unzoom:    w.boosters.Enabled(BoosterUnzoom),
		Actors:    make([]ActorState, 0, len(w.actors)),
		Food:      make([]FoodState, 0, len(w.food.Items())),
		Pickups:   make([]PickupState, 0, len(w.pickups)),
		MinBodies: w.match.MinimumSnakeBodyparts,
	}
	if w.player != nil {
		s.PlayerID = w.player.ID
		s.Rank = w.board.Rank(w.player)
	}
	for _, a := range w.actors {
		if a.Alive {
			s.Actors = append(s.Actors, a.ToState())
		}
	}
	for _, f := range w.food.Items() {
		if f.Phase == FoodActive || f.Phase == FoodAbsorbing {
			s.Food = append(s.Food, FoodState{ID: f.ID, X: round1(f.Pos.X), Y: round1(f.Pos.Y), Ghost: f.Kind == FoodGhost})
		}
	}
	for _, p := range w.pickups {
		if p.Active {
			s.Pickups = append(s.Pickups, PickupState{ID: p.ID, Kind: int(p.Kind), X: round1(p.Pos.X), Y: round1(p.Pos.Y)})
		}
	}
	if rows, ok := w.board.Rows(w.player); ok {
		s.Leaderboard = rows
	}
	return s
}

// broadcastState sends the current snapshot to all clients
func (w *Arena) broadcastState() {
	data, err := msgpack.Marshal(w.snapshot())
	if err != nil {
		log.Error("snapshot encode failed", "err", err)
		return
	}
	w.out.BroadcastBinary(data)
}
