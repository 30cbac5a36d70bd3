package ratchet

import (
	"ratchetkit/internal/domain"
	"ratchetkit/internal/util/memzero"
)

// WipeSession overwrites every key the session holds — root, both chains,
// both halves of the DH pair, the peer key, and every cached skipped key
// with its epoch tag — then empties the cache and marks the session
// consumed. A consumed session fails every further operation with
// ErrSessionConsumed.
func WipeSession(st *domain.SessionState) {
	memzero.Zero(st.RootKey)
	memzero.Zero(st.ChainKeySend)
	memzero.Zero(st.ChainKeyReceive)
	st.RootKey = nil
	st.ChainKeySend = nil
	st.ChainKeyReceive = nil

	if st.DHRatchet != nil {
		memzero.Zero32((*[32]byte)(&st.DHRatchet.Private))
		memzero.Zero32((*[32]byte)(&st.DHRatchet.Public))
		st.DHRatchet = nil
	}
	if st.PeerDH != nil {
		memzero.Zero32((*[32]byte)(st.PeerDH))
		st.PeerDH = nil
	}

	for i := range st.Skipped {
		memzero.Zero(st.Skipped[i].Key)
		memzero.Zero32((*[32]byte)(&st.Skipped[i].EpochKey))
	}
	st.Skipped = nil

	st.MessageNumberSend = 0
	st.MessageNumberReceive = 0
	st.PreviousChainLength = 0
	st.Consumed = true
}

// WipeMessageKey overwrites the key bytes of a single-use message key.
// Callers invoke it immediately after handing the key to the AEAD.
func WipeMessageKey(mk *domain.MessageKey) {
	if mk == nil {
		return
	}
	memzero.Zero(mk.Key)
}
