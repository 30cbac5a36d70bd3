package commands

import (
	"encoding/hex"
	"fmt"

	"ratchetkit/internal/domain"
)

// parseKey32 decodes a 64-char hex string into 32 key bytes.
func parseKey32(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	if len(b) != domain.KeySize {
		return nil, fmt.Errorf("%s: want %d bytes, got %d", name, domain.KeySize, len(b))
	}
	return b, nil
}

// parsePublicKey decodes a hex-encoded X25519 public key.
func parsePublicKey(name, s string) (domain.X25519Public, error) {
	b, err := parseKey32(name, s)
	if err != nil {
		return domain.X25519Public{}, err
	}
	return domain.MustX25519Public(b), nil
}
