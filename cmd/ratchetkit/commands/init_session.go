package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"ratchetkit/internal/domain"
	"ratchetkit/internal/util/memzero"
)

// init <conversation>: create a session from the key-agreement outputs.
func initCmd() *cobra.Command {
	var rootKeyHex, sendKeyHex, recvKeyHex, peerKeyHex string

	cmd := &cobra.Command{
		Use:   "init <conversation>",
		Short: "Create a session from externally agreed initial keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ConversationID(args[0])

			rootKey, err := parseKey32("root key", rootKeyHex)
			if err != nil {
				return err
			}
			sendKey, err := parseKey32("send chain key", sendKeyHex)
			if err != nil {
				return err
			}
			recvKey, err := parseKey32("receive chain key", recvKeyHex)
			if err != nil {
				return err
			}
			keys := domain.InitialKeys{
				RootKey:         rootKey,
				ChainKeySend:    sendKey,
				ChainKeyReceive: recvKey,
			}
			if peerKeyHex != "" {
				peer, err := parsePublicKey("peer ratchet key", peerKeyHex)
				if err != nil {
					return err
				}
				keys.PeerDH = &peer
			}

			err = wire.Engine.Initialize(id, keys)
			memzero.Zero(rootKey)
			memzero.Zero(sendKey)
			memzero.Zero(recvKey)
			if err != nil {
				return err
			}

			pub, err := wire.Engine.RatchetPublicKey(id)
			if err != nil {
				return err
			}
			fmt.Printf("Session %s created.\nRatchet public key: %s\n", id, hex.EncodeToString(pub.Slice()))
			return nil
		},
	}

	cmd.Flags().StringVar(&rootKeyHex, "root-key", "", "32-byte root key, hex")
	cmd.Flags().StringVar(&sendKeyHex, "send-key", "", "32-byte send chain key, hex")
	cmd.Flags().StringVar(&recvKeyHex, "recv-key", "", "32-byte receive chain key, hex")
	cmd.Flags().StringVar(&peerKeyHex, "peer-key", "", "peer ratchet public key, hex (optional)")
	_ = cmd.MarkFlagRequired("root-key")
	_ = cmd.MarkFlagRequired("send-key")
	_ = cmd.MarkFlagRequired("recv-key")
	return cmd
}
