package main

import (
	"strconv"
	"sync"
)

// Preference keys
const (
	PrefSelectedSkinID  = "SelectedSkinID"
	PrefPlayerName      = "PlayerName"
	PrefGameModeID      = "GameModeID"
	PrefGamesPlayed     = "GamesPlayed"
	PrefTotalKills      = "TotalKills"
	PrefTotalPlayTime   = "TotalPlayTime"
	PrefSavedBestScore  = "SavedBestScore"
	PrefCollectedFood   = "CollectedFood"
	PrefPlayerCoins     = "PlayerCoins"
	PrefPlayerCurrentXP = "PlayerCurrentXP"
	PrefControllerKey   = "ControllerSecret"
)

// PrefStore is a string-keyed store of scalars with get-with-default semantics
type PrefStore interface {
	GetInt(key string, def int) int
	SetInt(key string, v int) error
	GetString(key string, def string) string
	SetString(key string, v string) error
}

// AddInt increments an integer preference
func AddInt(s PrefStore, key string, delta int) error {
	return s.SetInt(key, s.GetInt(key, 0)+delta)
}

// MemoryPrefs keeps preferences in memory for runs without a database
type MemoryPrefs struct {
	mu   sync.RWMutex
	vals map[string]string
}

// NewMemoryPrefs creates an empty store
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{vals: make(map[string]string)}
}

func (m *MemoryPrefs) GetString(key, def string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vals[key]; ok {
		return v
	}
	return def
}

func (m *MemoryPrefs) SetString(key, v string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = v
	return nil
}

func (m *MemoryPrefs) GetInt(key string, def int) int {
	v, err := strconv.Atoi(m.GetString(key, ""))
	if err != nil {
		return def
	}
	return v
}

func (m *MemoryPrefs) SetInt(key string, v int) error {
	return m.SetString(key, strconv.Itoa(v))
}
