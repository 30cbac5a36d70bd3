package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ratchetkit/internal/domain"
)

// clear <conversation>: wipe and retire a session.
func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <conversation>",
		Short: "Wipe all key material of a session and retire it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ConversationID(args[0])
			if err := wire.Engine.Clear(id); err != nil {
				return err
			}
			fmt.Printf("Session %s cleared.\n", id)
			return nil
		},
	}
}

// list: enumerate stored sessions.
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := wire.Store.ListSessions()
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}
