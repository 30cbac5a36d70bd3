package app

import (
	"path/filepath"

	"ratchetkit/internal/domain"
	sessionsvc "ratchetkit/internal/services/session"
	"ratchetkit/internal/store"
)

const storeFilename = "sessions.db"

// Wire bundles the store and engine for the CLI.
type Wire struct {
	Store   domain.SessionStore
	Engine  *sessionsvc.Engine
	cleanup func() error
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	st, err := store.OpenBoltSessionStore(filepath.Join(cfg.Home, storeFilename), cfg.Passphrase)
	if err != nil {
		return nil, err
	}

	engine := sessionsvc.New(sessionsvc.Config{
		Store:          st,
		Log:            cfg.Log,
		MaxSkippedKeys: cfg.MaxSkippedKeys,
	})

	return &Wire{
		Store:   st,
		Engine:  engine,
		cleanup: st.Close,
	}, nil
}

// Close releases resources held by the wiring.
func (w *Wire) Close() error {
	if w.cleanup == nil {
		return nil
	}
	return w.cleanup()
}
