package ratchet

import (
	"fmt"

	"ratchetkit/internal/crypto"
	"ratchetkit/internal/domain"
	"ratchetkit/internal/protocol/kdf"
	"ratchetkit/internal/util/memzero"
)

// Init builds a SessionState from the outputs of the external key agreement.
// The supplied key bytes are copied; the caller keeps ownership of its
// buffers and should wipe them. When no DH pair is supplied a fresh one is
// generated so the first proactive ratchet has a key to rotate away from.
func Init(keys domain.InitialKeys, maxSkipped int) (domain.SessionState, error) {
	if len(keys.RootKey) != domain.KeySize {
		return domain.SessionState{}, fmt.Errorf("root key: %w", ErrBadKeyLength)
	}
	if len(keys.ChainKeySend) != domain.KeySize {
		return domain.SessionState{}, fmt.Errorf("send chain key: %w", ErrBadKeyLength)
	}
	if len(keys.ChainKeyReceive) != domain.KeySize {
		return domain.SessionState{}, fmt.Errorf("receive chain key: %w", ErrBadKeyLength)
	}
	if maxSkipped <= 0 {
		maxSkipped = domain.DefaultMaxSkippedKeys
	}

	pair := keys.DHPair
	if pair == nil {
		priv, pub, err := crypto.GenerateX25519()
		if err != nil {
			return domain.SessionState{}, fmt.Errorf("%w: %v", ErrDHFailure, err)
		}
		pair = &domain.DHKeyPair{Private: priv, Public: pub}
	} else {
		cp := *pair
		pair = &cp
	}

	st := domain.SessionState{
		RootKey:         append([]byte(nil), keys.RootKey...),
		ChainKeySend:    append([]byte(nil), keys.ChainKeySend...),
		ChainKeyReceive: append([]byte(nil), keys.ChainKeyReceive...),
		DHRatchet:       pair,
		MaxSkippedKeys:  maxSkipped,
	}
	if keys.PeerDH != nil {
		peer := *keys.PeerDH
		st.PeerDH = &peer
	}
	return st, nil
}

// SymmetricStep advances the chain for the given direction by one message
// and returns its single-use key. It must be called exactly once per message
// per direction; the returned message number is the pre-increment counter
// value.
func SymmetricStep(st *domain.SessionState, dir domain.Direction) (domain.MessageKey, error) {
	if st.Consumed {
		return domain.MessageKey{}, ErrSessionConsumed
	}

	chain := &st.ChainKeyReceive
	counter := &st.MessageNumberReceive
	if dir == domain.DirectionSend {
		chain = &st.ChainKeySend
		counter = &st.MessageNumberSend
	}
	if len(*chain) == 0 {
		return domain.MessageKey{}, ErrChainUninitialized
	}

	mk, next := kdf.ChainStep(*chain)
	memzero.Zero(*chain)
	*chain = next

	n := *counter
	*counter = n + 1
	if dir == domain.DirectionSend {
		st.MessagesSent++
	}

	return domain.MessageKey{Key: mk, MessageNumber: n, ChainKeyIndex: n}, nil
}

// DHStep performs an asymmetric ratchet.
//
// A fresh local key pair is always generated. With remote set (responder
// path, a new peer epoch key arrived) the DH output comes from the existing
// local private key and the new remote key, which is then recorded as the
// peer's current key. With remote nil (initiator path, proactive ratchet
// before sending) the DH output comes from the freshly generated private key
// and the last-known peer key.
//
// On success the root key and both chain keys are replaced, the fresh pair
// becomes the current ratchet pair, the previous chain length is
// snapshotted, and both message counters reset to 0.
func DHStep(st *domain.SessionState, remote *domain.X25519Public) error {
	if st.Consumed {
		return ErrSessionConsumed
	}

	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDHFailure, err)
	}

	var dh [32]byte
	switch {
	case remote != nil:
		if st.DHRatchet == nil {
			return fmt.Errorf("%w: no local ratchet pair for responder step", ErrDHFailure)
		}
		dh, err = crypto.DH(st.DHRatchet.Private, *remote)
	case st.PeerDH != nil:
		dh, err = crypto.DH(priv, *st.PeerDH)
	default:
		return fmt.Errorf("%w: no known peer ratchet key", ErrDHFailure)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDHFailure, err)
	}

	newRoot, sendCK, recvCK, err := kdf.RootStep(st.RootKey, dh[:])
	memzero.Zero(dh[:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDHFailure, err)
	}

	// Commit only after every derivation succeeded.
	memzero.Zero(st.RootKey)
	memzero.Zero(st.ChainKeySend)
	memzero.Zero(st.ChainKeyReceive)
	st.RootKey = newRoot
	st.ChainKeySend = sendCK
	st.ChainKeyReceive = recvCK

	if st.DHRatchet != nil {
		memzero.Zero32((*[32]byte)(&st.DHRatchet.Private))
	}
	st.DHRatchet = &domain.DHKeyPair{Private: priv, Public: pub}
	if remote != nil {
		peer := *remote
		st.PeerDH = &peer
	}

	st.PreviousChainLength = st.MessageNumberSend
	st.MessageNumberSend = 0
	st.MessageNumberReceive = 0
	return nil
}
