package session_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ratchetkit/internal/crypto"
	"ratchetkit/internal/domain"
	"ratchetkit/internal/protocol/ratchet"
	sessionsvc "ratchetkit/internal/services/session"
	"ratchetkit/internal/store"
)

const conv = domain.ConversationID("alice-bob")

func makePair(t *testing.T) domain.DHKeyPair {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	return domain.DHKeyPair{Private: priv, Public: pub}
}

// mirroredEngines returns two isolated engines holding the two halves of one
// conversation.
func mirroredEngines(t *testing.T) (alice, bob *sessionsvc.Engine) {
	t.Helper()

	rk := bytes.Repeat([]byte{0x42}, 32)
	ckA := bytes.Repeat([]byte{0x01}, 32)
	ckB := bytes.Repeat([]byte{0x02}, 32)
	aPair := makePair(t)
	bPair := makePair(t)

	alice = sessionsvc.New(sessionsvc.Config{})
	require.NoError(t, alice.Initialize(conv, domain.InitialKeys{
		RootKey:         rk,
		ChainKeySend:    ckA,
		ChainKeyReceive: ckB,
		DHPair:          &aPair,
		PeerDH:          &bPair.Public,
	}))

	bob = sessionsvc.New(sessionsvc.Config{})
	require.NoError(t, bob.Initialize(conv, domain.InitialKeys{
		RootKey:         rk,
		ChainKeySend:    ckB,
		ChainKeyReceive: ckA,
		DHPair:          &bPair,
		PeerDH:          &aPair.Public,
	}))
	return alice, bob
}

func TestEngine_EndToEndConvergence(t *testing.T) {
	alice, bob := mirroredEngines(t)

	// Alice sends three messages; Bob receives them in order and derives
	// identical keys.
	for i := 0; i < 3; i++ {
		sent, err := alice.MessageKeySend(conv)
		require.NoError(t, err)
		got, err := bob.MessageKeyReceive(conv, uint32(i))
		require.NoError(t, err)
		require.Equal(t, sent.Key, got.Key)
		require.Equal(t, uint32(i), got.MessageNumber)
	}

	// Bob rotates his ratchet key and transmits it; Alice responds. Both
	// sides now share the new chains, so their next derived keys agree.
	bobPub, err := bob.DHRatchet(conv, nil)
	require.NoError(t, err)
	_, err = alice.DHRatchet(conv, &bobPub)
	require.NoError(t, err)

	aliceKey, err := alice.MessageKeySend(conv)
	require.NoError(t, err)
	bobKey, err := bob.MessageKeySend(conv)
	require.NoError(t, err)
	require.Equal(t, bobKey.Key, aliceKey.Key, "root keys diverged after the DH ratchet")
	require.Equal(t, uint32(0), aliceKey.MessageNumber)
}

func TestEngine_InitializeTwiceFails(t *testing.T) {
	alice, _ := mirroredEngines(t)

	err := alice.Initialize(conv, domain.InitialKeys{
		RootKey:         bytes.Repeat([]byte{0x01}, 32),
		ChainKeySend:    bytes.Repeat([]byte{0x02}, 32),
		ChainKeyReceive: bytes.Repeat([]byte{0x03}, 32),
	})
	require.ErrorIs(t, err, sessionsvc.ErrSessionExists)
}

func TestEngine_UnknownSession(t *testing.T) {
	e := sessionsvc.New(sessionsvc.Config{})

	_, err := e.MessageKeySend("nobody")
	require.ErrorIs(t, err, sessionsvc.ErrSessionNotFound)
	_, err = e.MessageKeyReceive("nobody", 0)
	require.ErrorIs(t, err, sessionsvc.ErrSessionNotFound)
	require.ErrorIs(t, e.Clear("nobody"), sessionsvc.ErrSessionNotFound)
}

func TestEngine_ReceiveErrorsAreNonFatal(t *testing.T) {
	alice, bob := mirroredEngines(t)

	// Way beyond the skip bound: rejected, session unchanged.
	_, err := bob.MessageKeyReceive(conv, domain.DefaultMaxSkippedKeys+1)
	require.ErrorIs(t, err, ratchet.ErrInvalidMessageNumber)

	stats, err := bob.SessionStats(conv)
	require.NoError(t, err)
	require.Zero(t, stats.SkippedKeys)
	require.Zero(t, stats.MessageNumberReceive)

	// The session still works normally afterwards.
	sent, err := alice.MessageKeySend(conv)
	require.NoError(t, err)
	got, err := bob.MessageKeyReceive(conv, 0)
	require.NoError(t, err)
	require.Equal(t, sent.Key, got.Key)

	// A replayed number is a lookup miss, not a fault.
	_, err = bob.MessageKeyReceive(conv, 0)
	require.ErrorIs(t, err, ratchet.ErrKeyNotFound)
}

func TestEngine_ClearDecrementsActiveSessions(t *testing.T) {
	alice, _ := mirroredEngines(t)

	before := alice.Stats()
	require.Equal(t, 1, before.ActiveSessions)

	require.NoError(t, alice.Clear(conv))

	after := alice.Stats()
	require.Equal(t, 0, after.ActiveSessions)
	require.Equal(t, uint64(1), after.SessionsCleared)

	_, err := alice.MessageKeySend(conv)
	require.ErrorIs(t, err, sessionsvc.ErrSessionNotFound)
}

func TestEngine_Statistics(t *testing.T) {
	alice, bob := mirroredEngines(t)

	for i := 0; i < 4; i++ {
		_, err := alice.MessageKeySend(conv)
		require.NoError(t, err)
	}
	// Receiving message 3 first derives keys 0..2 into the cache.
	_, err := bob.MessageKeyReceive(conv, 3)
	require.NoError(t, err)

	ss, err := bob.SessionStats(conv)
	require.NoError(t, err)
	require.Equal(t, uint32(4), ss.MessageNumberReceive)
	require.Equal(t, 3, ss.SkippedKeys)

	es := bob.Stats()
	require.Equal(t, uint64(4), es.MessageKeysDerived)
	require.Equal(t, uint64(3), es.SkippedKeysStored)
	require.Equal(t, uint64(0), es.SkippedKeysEvicted)

	as, err := alice.SessionStats(conv)
	require.NoError(t, err)
	require.Equal(t, uint64(4), as.MessagesSent)
	require.Equal(t, uint64(4), alice.Stats().MessageKeysDerived)
}

func TestEngine_PersistenceRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	rk := bytes.Repeat([]byte{0x42}, 32)
	ckA := bytes.Repeat([]byte{0x01}, 32)
	ckB := bytes.Repeat([]byte{0x02}, 32)
	aPair := makePair(t)

	// Reference session ratcheting purely in memory.
	ref, err := ratchet.Init(domain.InitialKeys{
		RootKey:         rk,
		ChainKeySend:    ckA,
		ChainKeyReceive: ckB,
		DHPair:          &aPair,
	}, 0)
	require.NoError(t, err)

	s1, err := store.OpenBoltSessionStore(dbPath, "pass")
	require.NoError(t, err)
	e1 := sessionsvc.New(sessionsvc.Config{Store: s1})
	require.NoError(t, e1.Initialize(conv, domain.InitialKeys{
		RootKey:         rk,
		ChainKeySend:    ckA,
		ChainKeyReceive: ckB,
		DHPair:          &aPair,
	}))

	for i := 0; i < 2; i++ {
		want, err := ratchet.SymmetricStep(&ref, domain.DirectionSend)
		require.NoError(t, err)
		got, err := e1.MessageKeySend(conv)
		require.NoError(t, err)
		require.Equal(t, want.Key, got.Key)
	}
	require.NoError(t, s1.Close())

	// A fresh engine over the same store continues ratcheting identically.
	s2, err := store.OpenBoltSessionStore(dbPath, "pass")
	require.NoError(t, err)
	defer s2.Close()
	e2 := sessionsvc.New(sessionsvc.Config{Store: s2})

	want, err := ratchet.SymmetricStep(&ref, domain.DirectionSend)
	require.NoError(t, err)
	got, err := e2.MessageKeySend(conv)
	require.NoError(t, err)
	require.Equal(t, want.Key, got.Key)
	require.Equal(t, uint32(2), got.MessageNumber)

	ss, err := e2.SessionStats(conv)
	require.NoError(t, err)
	require.Equal(t, uint64(3), ss.MessagesSent)
}
