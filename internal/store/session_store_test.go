package store_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ratchetkit/internal/domain"
	"ratchetkit/internal/store"
)

func testState() domain.SessionState {
	pair := domain.DHKeyPair{
		Private: domain.X25519Private{1, 2, 3},
		Public:  domain.X25519Public{4, 5, 6},
	}
	peer := domain.X25519Public{7, 8, 9}
	return domain.SessionState{
		RootKey:              bytes.Repeat([]byte{0xAA}, 32),
		ChainKeySend:         bytes.Repeat([]byte{0xBB}, 32),
		ChainKeyReceive:      bytes.Repeat([]byte{0xCC}, 32),
		DHRatchet:            &pair,
		PeerDH:               &peer,
		MessageNumberSend:    7,
		MessageNumberReceive: 3,
		PreviousChainLength:  12,
		MessagesSent:         1042,
		Skipped: []domain.SkippedMessageKey{
			{EpochKey: peer, MessageNumber: 1, Key: bytes.Repeat([]byte{0x01}, 32), Timestamp: 1700000000},
			{EpochKey: peer, MessageNumber: 2, Key: bytes.Repeat([]byte{0x02}, 32), Timestamp: 1700000001},
		},
		MaxSkippedKeys: 100,
	}
}

func openStore(t *testing.T) *store.BoltSessionStore {
	t.Helper()
	s, err := store.OpenBoltSessionStore(filepath.Join(t.TempDir(), "sessions.db"), "pass")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEncodeSession_DeterministicRoundTrip(t *testing.T) {
	st := testState()

	raw1, err := store.EncodeSession(st)
	require.NoError(t, err)
	raw2, err := store.EncodeSession(st)
	require.NoError(t, err)
	require.Equal(t, raw1, raw2, "identical state must encode to identical bytes")

	got, err := store.DecodeSession(raw1)
	require.NoError(t, err)
	require.Equal(t, st, got)

	// Re-encoding the restored state reproduces the original bytes.
	raw3, err := store.EncodeSession(got)
	require.NoError(t, err)
	require.Equal(t, raw1, raw3)
}

func TestDecodeSession_Corrupt(t *testing.T) {
	_, err := store.DecodeSession([]byte("not cbor at all"))
	require.ErrorIs(t, err, store.ErrCorruptState)
}

func TestBoltStore_SaveLoad(t *testing.T) {
	s := openStore(t)
	st := testState()

	require.NoError(t, s.SaveSession("alice", st))

	got, ok, err := s.LoadSession("alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st, got)

	_, ok, err = s.LoadSession("nobody")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBoltStore_WrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.db")

	s, err := store.OpenBoltSessionStore(path, "correct")
	require.NoError(t, err)
	require.NoError(t, s.SaveSession("alice", testState()))
	require.NoError(t, s.Close())

	s2, err := store.OpenBoltSessionStore(path, "wrong")
	require.NoError(t, err)
	defer s2.Close()

	_, _, err = s2.LoadSession("alice")
	require.Error(t, err)
}

func TestBoltStore_DeleteAndList(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.SaveSession("alice", testState()))
	require.NoError(t, s.SaveSession("bob", testState()))

	ids, err := s.ListSessions()
	require.NoError(t, err)
	require.ElementsMatch(t, []domain.ConversationID{"alice", "bob"}, ids)

	require.NoError(t, s.DeleteSession("alice"))
	require.NoError(t, s.DeleteSession("alice"), "deleting a missing record is not an error")

	ids, err = s.ListSessions()
	require.NoError(t, err)
	require.Equal(t, []domain.ConversationID{"bob"}, ids)
}
