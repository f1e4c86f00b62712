package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "snake.db", "SQLite path (empty: keep preferences in memory)")
	modeID := flag.Int("mode", -1, "Game mode preset id (-1: last played)")
	seed := flag.Int64("seed", 0, "RNG seed (0: time based)")
	name := flag.String("name", "", "Player nickname (empty: saved name)")
	clientDir := flag.String("client", "", "Path to client directory (default: ../client)")
	publicURL := flag.String("public-url", "", "Base URL encoded in the controller QR code")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	log.SetReportTimestamp(true)
	if lvl, err := log.ParseLevel(*logLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Warn("unknown log level, using info", "level", *logLevel)
	}

	if *clientDir == "" {
		exe, _ := os.Executable()
		*clientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = "../client"
		}
	}

	opts := ArenaOptions{Seed: *seed, Sinks: []EventSink{LogSink{}}}
	var history HistorySource
	var journal *Journal
	if *dbPath != "" {
		db, err := OpenDB(*dbPath)
		if err != nil {
			log.Fatal("open database", "path", *dbPath, "err", err)
		}
		defer db.Close()
		journal = NewJournal(db)
		opts.Prefs = db
		opts.History = db
		opts.Sinks = append(opts.Sinks, journal)
		history = db
	} else {
		opts.Prefs = NewMemoryPrefs()
	}

	if n := strings.TrimSpace(*name); n != "" {
		if len(n) > maxNameLen {
			n = n[:maxNameLen]
		}
		if err := opts.Prefs.SetString(PrefPlayerName, n); err != nil {
			log.Warn("could not save player name", "err", err)
		}
	}

	arena := NewArena(opts)
	tickets := NewTickets(opts.Prefs)
	hub := NewHub(arena, tickets)
	arena.SetBroadcaster(hub)
	arena.AddSink(hub)

	mode := GameMode(*modeID)
	if *modeID < 0 {
		mode = GameMode(opts.Prefs.GetInt(PrefGameModeID, int(ModeQuickPlay)))
	}
	if mode < 0 || mode >= NumGameModes {
		mode = ModeQuickPlay
	}
	arena.StartMode(mode)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go hub.Run(ctx.Done())
	go arena.Run(ctx)

	mux := SetupRoutes(hub, history, *clientDir, *publicURL)
	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Info("server starting", "addr", *addr, "client", *clientDir, "db", *dbPath)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("listen failed", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	server.Shutdown(shutdownCtx)
	if journal != nil {
		journal.Stop()
	}
}
