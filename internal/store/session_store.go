package store

import (
	"time"

	bolt "go.etcd.io/bbolt"

	"ratchetkit/internal/domain"
)

var sessionsBucket = []byte("sessions")

// BoltSessionStore persists per-conversation ratchet state in a single
// bbolt file. Each record is CBOR-encoded and sealed with a key derived
// from the store passphrase.
type BoltSessionStore struct {
	db         *bolt.DB
	passphrase string
}

// OpenBoltSessionStore opens (creating if needed) the store at path.
func OpenBoltSessionStore(path, passphrase string) (*BoltSessionStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltSessionStore{db: db, passphrase: passphrase}, nil
}

// Close releases the underlying database file.
func (s *BoltSessionStore) Close() error { return s.db.Close() }

// SaveSession writes the state record for id in one write transaction.
func (s *BoltSessionStore) SaveSession(id domain.ConversationID, st domain.SessionState) error {
	raw, err := EncodeSession(st)
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	sealed, err := encrypt(s.passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(id), sealed)
	})
}

// LoadSession retrieves the state record for id.
func (s *BoltSessionStore) LoadSession(id domain.ConversationID) (domain.SessionState, bool, error) {
	var sealed []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(sessionsBucket).Get([]byte(id)); v != nil {
			sealed = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return domain.SessionState{}, false, err
	}
	if sealed == nil {
		return domain.SessionState{}, false, nil
	}
	raw, err := decrypt(s.passphrase, sealed)
	if err != nil {
		return domain.SessionState{}, false, err
	}
	st, err := DecodeSession(raw)
	if err != nil {
		return domain.SessionState{}, false, err
	}
	return st, true, nil
}

// DeleteSession removes the record for id; deleting a missing record is not
// an error.
func (s *BoltSessionStore) DeleteSession(id domain.ConversationID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(id))
	})
}

// ListSessions returns the identifiers of every stored session.
func (s *BoltSessionStore) ListSessions() ([]domain.ConversationID, error) {
	var ids []domain.ConversationID
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, domain.ConversationID(k))
			return nil
		})
	})
	return ids, err
}

// Compile-time assertion that BoltSessionStore implements domain.SessionStore.
var _ domain.SessionStore = (*BoltSessionStore)(nil)
