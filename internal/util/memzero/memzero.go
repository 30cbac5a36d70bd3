// Package memzero provides best-effort zeroization of sensitive byte
// storage. On a garbage-collected runtime physical erasure cannot be fully
// guaranteed (the collector may already have moved the bytes); this is an
// accepted residual risk, not a correctness bug.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros in a constant-time friendly way.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}

// Zero32 overwrites a 32-byte array in place.
func Zero32(b *[32]byte) {
	Zero(b[:])
}
