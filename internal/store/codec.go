package store

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"ratchetkit/internal/domain"
)

// ErrCorruptState reports a persisted record that cannot be decoded.
var ErrCorruptState = errors.New("store: corrupt session state")

// Deterministic encoding so identical state always produces identical bytes.
var encMode, _ = cbor.CoreDetEncOptions().EncMode()

// EncodeSession serialises st to its canonical CBOR form.
func EncodeSession(st domain.SessionState) ([]byte, error) {
	return encMode.Marshal(st)
}

// DecodeSession restores a SessionState from its CBOR form.
func DecodeSession(raw []byte) (domain.SessionState, error) {
	var st domain.SessionState
	if err := cbor.Unmarshal(raw, &st); err != nil {
		return domain.SessionState{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return st, nil
}
