package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/spf13/cobra"

	"ratchetkit/internal/app"
)

var (
	home       string
	passphrase string
	maxSkipped int
	debug      bool

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "ratchetkit",
		Short: "Double Ratchet session engine CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".ratchetkit")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			log := slog.Disabled
			if debug {
				backend := slog.NewBackend(os.Stderr)
				log = backend.Logger("RKIT")
				log.SetLevel(slog.LevelDebug)
			}

			w, err := app.NewWire(app.Config{
				Home:           home,
				Passphrase:     passphrase,
				MaxSkippedKeys: maxSkipped,
				Log:            log,
			})
			if err != nil {
				return err
			}
			wire = w
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			return wire.Close()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.ratchetkit)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting session state")
	root.PersistentFlags().IntVar(&maxSkipped, "max-skipped", 0, "skipped-key cache bound per session (default 100)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log ratchet operations to stderr")

	root.AddCommand(initCmd(), sendCmd(), recvCmd(), ratchetCmd(), statsCmd(), clearCmd(), listCmd())
	return root.Execute()
}
