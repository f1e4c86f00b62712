package main

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const (
	journalBufSize    = 1024
	journalBatchSize  = 50
	journalFlushEvery = 5 * time.Second
)

// journalRow is one persisted match event
type journalRow struct {
	ev Event
	at time.Time
}

// Journal is an EventSink that batches match lifecycle, kill and death
// events into the match_events table on a background writer
type Journal struct {
	db     *DB
	events chan journalRow
	stop   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	dropped int
}

// NewJournal creates and starts the background writer
func NewJournal(db *DB) *Journal {
	j := &Journal{
		db:     db,
		events: make(chan journalRow, journalBufSize),
		stop:   make(chan struct{}),
	}
	j.wg.Add(1)
	go j.writer()
	return j
}

// journaled reports whether an event kind is worth keeping
func journaled(k EventKind) bool {
	switch k {
	case EventKill, EventDeath, EventHunt, EventMatchStart, EventGameOver, EventBooster:
		return true
	}
	return false
}

// Notify enqueues an event without blocking the tick
func (j *Journal) Notify(ev Event) {
	if !journaled(ev.Kind) {
		return
	}
	select {
	case j.events <- journalRow{ev: ev, at: time.Now().UTC()}:
	default:
		j.mu.Lock()
		j.dropped++
		j.mu.Unlock()
	}
}

// Dropped returns how many events were lost to a full buffer
func (j *Journal) Dropped() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dropped
}

// Stop flushes what is queued and shuts the writer down
func (j *Journal) Stop() {
	close(j.stop)
	j.wg.Wait()
}

func (j *Journal) writer() {
	defer j.wg.Done()

	batch := make([]journalRow, 0, 64)
	ticker := time.NewTicker(journalFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case row := <-j.events:
			batch = append(batch, row)
			if len(batch) >= journalBatchSize {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-j.stop:
			// drain without closing: Notify may still race with shutdown
		drain:
			for {
				select {
				case row := <-j.events:
					batch = append(batch, row)
				default:
					break drain
				}
			}
			if len(batch) > 0 {
				j.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch in one transaction
func (j *Journal) flush(rows []journalRow) {
	if j.db == nil || len(rows) == 0 {
		return
	}
	tx, err := j.db.conn.Begin()
	if err != nil {
		log.Error("journal: begin tx failed", "err", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO match_events (match_id, kind, actor_id, other_id, value, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Error("journal: prepare failed", "err", err)
		return
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.ev.Match, string(r.ev.Kind), r.ev.ActorID, r.ev.OtherID, r.ev.Value, r.at.Format(time.RFC3339)); err != nil {
			log.Error("journal: insert failed", "kind", r.ev.Kind, "err", err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("journal: commit failed", "err", err)
		return
	}
	log.Debug("journal flushed", "rows", len(rows))
}
