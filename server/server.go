package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const defaultHistoryLimit = 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// HistorySource lists finished matches
type HistorySource interface {
	MatchHistory(limit int) ([]MatchRow, error)
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("write json failed", "err", err)
	}
}

// baseURL is publicURL when set, otherwise the URL the request came in on
func baseURL(r *http.Request, publicURL string) string {
	if publicURL != "" {
		return publicURL
	}
	return "http://" + r.Host
}

// SetupRoutes configures HTTP routes. history may be nil when nothing is persisted.
func SetupRoutes(hub *Hub, history HistorySource, clientDir, publicURL string) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(clientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if r.URL.Path == "/controller" {
			http.ServeFile(w, r, filepath.Join(clientDir, "controller.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("upgrade failed", "err", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client
		client.welcome()

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, hub.arena.Stats())
	})

	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		if history == nil {
			writeJSON(w, []MatchRow{})
			return
		}
		limit := defaultHistoryLimit
		if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
			limit = n
		}
		rows, err := history.MatchHistory(limit)
		if err != nil {
			log.Error("history query failed", "err", err)
			http.Error(w, "history unavailable", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []MatchRow{}
		}
		writeJSON(w, rows)
	})

	// issue pairs a controller with the view named by ?id=
	issue := func(w http.ResponseWriter, r *http.Request) (string, string, bool) {
		viewID := r.URL.Query().Get("id")
		if viewID == "" || !hub.hasView(viewID) {
			http.Error(w, "view not connected", http.StatusNotFound)
			return "", "", false
		}
		token, err := hub.tickets.Issue(viewID)
		if err != nil {
			log.Error("ticket issue failed", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return "", "", false
		}
		return token, PairingURL(baseURL(r, publicURL), token), true
	}

	mux.HandleFunc("/api/controller", func(w http.ResponseWriter, r *http.Request) {
		token, pairURL, ok := issue(w, r)
		if !ok {
			return
		}
		writeJSON(w, ControllerInfo{URL: pairURL, Token: token})
	})

	mux.HandleFunc("/api/controller.png", func(w http.ResponseWriter, r *http.Request) {
		_, pairURL, ok := issue(w, r)
		if !ok {
			return
		}
		png, err := PairingQR(pairURL)
		if err != nil {
			log.Error("qr render failed", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	})

	return mux
}
