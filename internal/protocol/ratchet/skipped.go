package ratchet

import (
	"time"

	"ratchetkit/internal/domain"
	"ratchetkit/internal/protocol/kdf"
	"ratchetkit/internal/util/memzero"
)

// SkipMessageKeys advances the chain for dir up to (but not including)
// until, caching each derived key tagged with the DH public key of the
// current epoch: our own ratchet key for the send direction, the peer's for
// receive. When the cache exceeds the session bound the oldest entries are
// wiped and dropped, which bounds memory against an adversary claiming a
// huge message-number gap.
func SkipMessageKeys(st *domain.SessionState, until uint32, dir domain.Direction) error {
	if st.Consumed {
		return ErrSessionConsumed
	}

	chain := &st.ChainKeyReceive
	counter := &st.MessageNumberReceive
	if dir == domain.DirectionSend {
		chain = &st.ChainKeySend
		counter = &st.MessageNumberSend
	}
	if len(*chain) == 0 {
		return ErrChainUninitialized
	}

	var epoch domain.X25519Public
	if dir == domain.DirectionSend {
		if st.DHRatchet == nil {
			return ErrChainUninitialized
		}
		epoch = st.DHRatchet.Public
	} else {
		if st.PeerDH == nil {
			return ErrChainUninitialized
		}
		epoch = *st.PeerDH
	}

	now := time.Now().Unix()
	for *counter < until {
		mk, next := kdf.ChainStep(*chain)
		memzero.Zero(*chain)
		*chain = next

		st.Skipped = append(st.Skipped, domain.SkippedMessageKey{
			EpochKey:      epoch,
			MessageNumber: *counter,
			Key:           mk,
			Timestamp:     now,
		})
		*counter = *counter + 1
	}

	// FIFO eviction down to the bound.
	if excess := len(st.Skipped) - st.MaxSkippedKeys; excess > 0 {
		for i := 0; i < excess; i++ {
			memzero.Zero(st.Skipped[i].Key)
			memzero.Zero32((*[32]byte)(&st.Skipped[i].EpochKey))
		}
		st.Skipped = append(st.Skipped[:0], st.Skipped[excess:]...)
	}
	return nil
}

// RetrieveSkippedKey looks up a cached key by exact (epoch key, message
// number) match. A hit removes the entry; the key is one-time use. A miss
// returns ErrKeyNotFound.
func RetrieveSkippedKey(st *domain.SessionState, epoch domain.X25519Public, n uint32) (domain.MessageKey, error) {
	if st.Consumed {
		return domain.MessageKey{}, ErrSessionConsumed
	}
	for i, sk := range st.Skipped {
		if sk.MessageNumber != n || sk.EpochKey != epoch {
			continue
		}
		mk := domain.MessageKey{Key: sk.Key, MessageNumber: n, ChainKeyIndex: n}
		st.Skipped = append(st.Skipped[:i], st.Skipped[i+1:]...)
		return mk, nil
	}
	return domain.MessageKey{}, ErrKeyNotFound
}

// MessageKeyForReceive services an inbound message number: the next expected
// number steps the receive chain, a future number skip-stores intermediate
// keys first, a past number is served from the skipped-key cache.
//
// Validation happens before any key generation: a skip distance beyond the
// session bound, or a look-back beyond the replay window, fails with
// ErrInvalidMessageNumber without deriving anything.
func MessageKeyForReceive(st *domain.SessionState, n uint32) (domain.MessageKey, error) {
	if st.Consumed {
		return domain.MessageKey{}, ErrSessionConsumed
	}

	nr := st.MessageNumberReceive
	switch {
	case n > nr && n-nr > uint32(st.MaxSkippedKeys):
		return domain.MessageKey{}, ErrInvalidMessageNumber
	case n < nr && nr-n > uint32(st.MaxSkippedKeys):
		// Older than anything the cache could still hold.
		return domain.MessageKey{}, ErrInvalidMessageNumber
	}

	if n < nr {
		if st.PeerDH == nil {
			return domain.MessageKey{}, ErrKeyNotFound
		}
		return RetrieveSkippedKey(st, *st.PeerDH, n)
	}
	if n > nr {
		if err := SkipMessageKeys(st, n, domain.DirectionReceive); err != nil {
			return domain.MessageKey{}, err
		}
	}
	return SymmetricStep(st, domain.DirectionReceive)
}
