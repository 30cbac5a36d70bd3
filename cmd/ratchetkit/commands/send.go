package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ratchetkit/internal/crypto"
	"ratchetkit/internal/domain"
)

// send <conversation>: derive the next outbound message key.
func sendCmd() *cobra.Command {
	var showKey bool

	cmd := &cobra.Command{
		Use:   "send <conversation>",
		Short: "Derive the next outbound message key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ConversationID(args[0])

			mk, err := wire.Engine.MessageKeySend(id)
			if err != nil {
				return err
			}
			defer wire.Engine.WipeMessageKey(&mk)

			fmt.Printf("message number: %d\n", mk.MessageNumber)
			if showKey {
				fmt.Printf("key: %s\n", crypto.B64(mk.Key))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showKey, "show-key", false, "print the derived key (base64)")
	return cmd
}
