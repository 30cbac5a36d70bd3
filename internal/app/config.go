package app

import "github.com/decred/slog"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home           string      // state directory, e.g. $HOME/.ratchetkit
	Passphrase     string      // protects session state at rest
	MaxSkippedKeys int         // 0 means the engine default
	Log            slog.Logger // optional; defaults to slog.Disabled
}
