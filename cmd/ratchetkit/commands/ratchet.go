package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"ratchetkit/internal/domain"
)

// ratchet <conversation>: perform an asymmetric ratchet step.
func ratchetCmd() *cobra.Command {
	var remoteHex string

	cmd := &cobra.Command{
		Use:   "ratchet <conversation>",
		Short: "Perform a DH ratchet step",
		Long: "Rotates the session's DH ratchet. Without --remote this is the " +
			"proactive initiator step; with --remote it responds to a new peer " +
			"epoch key.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ConversationID(args[0])

			var remote *domain.X25519Public
			if remoteHex != "" {
				pub, err := parsePublicKey("remote key", remoteHex)
				if err != nil {
					return err
				}
				remote = &pub
			}

			pub, err := wire.Engine.DHRatchet(id, remote)
			if err != nil {
				return err
			}
			fmt.Printf("New ratchet public key: %s\n", hex.EncodeToString(pub.Slice()))
			return nil
		},
	}

	cmd.Flags().StringVar(&remoteHex, "remote", "", "peer's new ratchet public key, hex")
	return cmd
}
