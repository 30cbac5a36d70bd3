package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ratchetkit/internal/domain"
)

// stats [conversation]: engine counters, or one session's snapshot.
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [conversation]",
		Short: "Show engine or per-session statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				s := wire.Engine.Stats()
				fmt.Printf("active sessions:      %d\n", s.ActiveSessions)
				fmt.Printf("sessions initialized: %d\n", s.SessionsInitialized)
				fmt.Printf("sessions cleared:     %d\n", s.SessionsCleared)
				fmt.Printf("message keys derived: %d\n", s.MessageKeysDerived)
				fmt.Printf("skipped keys stored:  %d\n", s.SkippedKeysStored)
				fmt.Printf("skipped keys evicted: %d\n", s.SkippedKeysEvicted)
				return nil
			}

			s, err := wire.Engine.SessionStats(domain.ConversationID(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("send counter:          %d\n", s.MessageNumberSend)
			fmt.Printf("receive counter:       %d\n", s.MessageNumberReceive)
			fmt.Printf("previous chain length: %d\n", s.PreviousChainLength)
			fmt.Printf("messages sent:         %d\n", s.MessagesSent)
			fmt.Printf("skipped keys cached:   %d / %d\n", s.SkippedKeys, s.MaxSkippedKeys)
			return nil
		},
	}
}
