package ratchet

import "errors"

var (
	// ErrInvalidMessageNumber reports a receive-path skip distance that is
	// negative beyond the replay window or exceeds the skipped-key bound.
	// No key material is generated when it is returned.
	ErrInvalidMessageNumber = errors.New("ratchet: invalid message number")

	// ErrKeyNotFound reports a skipped-key lookup miss. This is the expected
	// outcome for a duplicate or already-consumed out-of-order message and
	// is not fatal; the caller simply drops the message.
	ErrKeyNotFound = errors.New("ratchet: skipped message key not found")

	// ErrDHFailure reports a failed EC primitive call. It is fatal for that
	// call; the engine never substitutes a zero or default key.
	ErrDHFailure = errors.New("ratchet: DH computation failed")

	// ErrSessionConsumed reports use of a session after its lifecycle wipe.
	ErrSessionConsumed = errors.New("ratchet: session has been cleared")

	// ErrChainUninitialized reports a step against a direction whose chain
	// key was never seeded.
	ErrChainUninitialized = errors.New("ratchet: chain key is uninitialised")

	// ErrBadKeyLength reports an initial key that is not 32 bytes.
	ErrBadKeyLength = errors.New("ratchet: key must be 32 bytes")
)
