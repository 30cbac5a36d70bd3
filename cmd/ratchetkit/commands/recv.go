package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ratchetkit/internal/crypto"
	"ratchetkit/internal/domain"
	"ratchetkit/internal/protocol/ratchet"
)

// recv <conversation> <n>: derive or retrieve the key for inbound message n.
func recvCmd() *cobra.Command {
	var showKey bool

	cmd := &cobra.Command{
		Use:   "recv <conversation> <message-number>",
		Short: "Derive the key for an inbound message number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ConversationID(args[0])
			n, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("message number: %v", err)
			}

			mk, err := wire.Engine.MessageKeyReceive(id, uint32(n))
			switch {
			case errors.Is(err, ratchet.ErrKeyNotFound):
				// Duplicate or already-consumed message; drop it.
				fmt.Printf("no key for message %d (duplicate or already consumed)\n", n)
				return nil
			case errors.Is(err, ratchet.ErrInvalidMessageNumber):
				return fmt.Errorf("message number %d out of range: %w", n, err)
			case err != nil:
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
