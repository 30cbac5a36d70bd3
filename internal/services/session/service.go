package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/decred/slog"

	"ratchetkit/internal/crypto"
	"ratchetkit/internal/domain"
	"ratchetkit/internal/protocol/ratchet"
)

var (
	// ErrSessionNotFound reports an operation against an unknown session.
	ErrSessionNotFound = errors.New("session: not found")
	// ErrSessionExists reports initialization over a live session.
	ErrSessionExists = errors.New("session: already initialized")
)

// Config carries the Engine's dependencies and tunables.
type Config struct {
	// Store, when set, receives the session state after every mutation and
	// backs lazy restore of sessions not yet in memory.
	Store domain.SessionStore
	// Log defaults to slog.Disabled.
	Log slog.Logger
	// MaxSkippedKeys bounds each session's skipped-key cache; 0 means
	// domain.DefaultMaxSkippedKeys.
	MaxSkippedKeys int
}

// managedSession pairs a state with the mutex that serialises access to it.
type managedSession struct {
	mu sync.Mutex
	st domain.SessionState
}

// Engine orchestrates ratchet sessions. Distinct sessions ratchet in
// parallel; each individual session is serialised by its own lock.
type Engine struct {
	mu       sync.Mutex // guards sessions and stats
	sessions map[domain.ConversationID]*managedSession
	stats    domain.EngineStats

	store      domain.SessionStore
	log        slog.Logger
	maxSkipped int
}

// New constructs an isolated Engine from cfg.
func New(cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = slog.Disabled
	}
	maxSkipped := cfg.MaxSkippedKeys
	if maxSkipped <= 0 {
		maxSkipped = domain.DefaultMaxSkippedKeys
	}
	return &Engine{
		sessions:   make(map[domain.ConversationID]*managedSession),
		store:      cfg.Store,
		log:        log,
		maxSkipped: maxSkipped,
	}
}

// Initialize creates a session from externally agreed initial keys. The
// supplied buffers are copied; the caller should wipe its own copies.
func (e *Engine) Initialize(id domain.ConversationID, keys domain.InitialKeys) error {
	st, err := ratchet.Init(keys, e.maxSkipped)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if _, live := e.sessions[id]; live {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionExists, id)
	}
	ms := &managedSession{st: st}
	e.sessions[id] = ms
	e.stats.SessionsInitialized++
	e.stats.ActiveSessions = len(e.sessions)
	e.mu.Unlock()

	e.log.Debugf("session %s initialized, ratchet key fp=%s",
		id, crypto.Fingerprint(st.DHRatchet.Public.Slice()))

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return e.persist(id, ms)
}

// MessageKeySend derives the next outbound message key.
func (e *Engine) MessageKeySend(id domain.ConversationID) (domain.MessageKey, error) {
	ms, err := e.session(id)
	if err != nil {
		return domain.MessageKey{}, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	mk, err := ratchet.SymmetricStep(&ms.st, domain.DirectionSend)
	if err != nil {
		return domain.MessageKey{}, err
	}
	e.countDerived(1, 0, 0)
	e.log.Tracef("session %s: send key n=%d", id, mk.MessageNumber)
	if err := e.persist(id, ms); err != nil {
		return domain.MessageKey{}, err
	}
	return mk, nil
}

// MessageKeyReceive derives or retrieves the key for inbound message n,
// skip-storing intermediate keys when n is ahead of the receive counter.
// ErrKeyNotFound and ErrInvalidMessageNumber are non-fatal: the session is
// unchanged and the caller drops the message.
func (e *Engine) MessageKeyReceive(id domain.ConversationID, n uint32) (domain.MessageKey, error) {
	ms, err := e.session(id)
	if err != nil {
		return domain.MessageKey{}, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	nrBefore := ms.st.MessageNumberReceive
	cachedBefore := len(ms.st.Skipped)

	mk, err := ratchet.MessageKeyForReceive(&ms.st, n)
	if err != nil {
		return domain.MessageKey{}, err
	}

	if n >= nrBefore {
		skipped := n - nrBefore
		evicted := cachedBefore + int(skipped) - len(ms.st.Skipped)
		e.countDerived(uint64(skipped)+1, uint64(skipped), uint64(evicted))
		if skipped > 0 {
			e.log.Debugf("session %s: skipped ahead %d keys to n=%d, evicted %d",
				id, skipped, n, evicted)
		}
	}
	e.log.Tracef("session %s: receive key n=%d", id, n)
	if err := e.persist(id, ms); err != nil {
		return domain.MessageKey{}, err
	}
	return mk, nil
}

// DHRatchet performs an asymmetric ratchet and returns the new local
// ratchet public key for transmission to the peer. remote carries the
// peer's new epoch key on the responder path and is nil on the proactive
// initiator path.
func (e *Engine) DHRatchet(id domain.ConversationID, remote *domain.X25519Public) (domain.X25519Public, error) {
	ms, err := e.session(id)
	if err != nil {
		return domain.X25519Public{}, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if err := ratchet.DHStep(&ms.st, remote); err != nil {
		return domain.X25519Public{}, err
	}
	pub := ms.st.DHRatchet.Public
	e.log.Debugf("session %s: DH ratchet, pn=%d, new key fp=%s",
		id, ms.st.PreviousChainLength, crypto.Fingerprint(pub.Slice()))
	if err := e.persist(id, ms); err != nil {
		return domain.X25519Public{}, err
	}
	return pub, nil
}

// Clear wipes all key material of the session and retires it. The session
// must not be used again; a later Initialize under the same identifier
// starts from scratch.
func (e *Engine) Clear(id domain.ConversationID) error {
	ms, err := e.session(id)
	if err != nil {
		return err
	}
	ms.mu.Lock()
	ratchet.WipeSession(&ms.st)
	ms.mu.Unlock()

	e.mu.Lock()
	delete(e.sessions, id)
	e.stats.SessionsCleared++
	e.stats.ActiveSessions = len(e.sessions)
	e.mu.Unlock()

	e.log.Debugf("session %s cleared", id)
	if e.store != nil {
		return e.store.DeleteSession(id)
	}
	return nil
}

// WipeMessageKey erases a derived key after the AEAD collaborator has
// consumed it.
func (e *Engine) WipeMessageKey(mk *domain.MessageKey) {
	ratchet.WipeMessageKey(mk)
}

// RatchetPublicKey returns the session's current local ratchet public key,
// the value a caller transmits so the peer can respond to a DH ratchet.
func (e *Engine) RatchetPublicKey(id domain.ConversationID) (domain.X25519Public, error) {
	ms, err := e.session(id)
	if err != nil {
		return domain.X25519Public{}, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.st.Consumed || ms.st.DHRatchet == nil {
		return domain.X25519Public{}, ratchet.ErrSessionConsumed
	}
	return ms.st.DHRatchet.Public, nil
}

// SessionStats returns a statistics snapshot for one session.
func (e *Engine) SessionStats(id domain.ConversationID) (domain.SessionStats, error) {
	ms, err := e.session(id)
	if err != nil {
		return domain.SessionStats{}, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return domain.SessionStats{
		MessageNumberSend:    ms.st.MessageNumberSend,
		MessageNumberReceive: ms.st.MessageNumberReceive,
		PreviousChainLength:  ms.st.PreviousChainLength,
		MessagesSent:         ms.st.MessagesSent,
		SkippedKeys:          len(ms.st.Skipped),
		MaxSkippedKeys:       ms.st.MaxSkippedKeys,
	}, nil
}

// Stats returns the engine-level counters.
func (e *Engine) Stats() domain.EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// session returns the live session for id, restoring it from the store on
// first access.
func (e *Engine) session(id domain.ConversationID) (*managedSession, error) {
	e.mu.Lock()
	ms, ok := e.sessions[id]
	e.mu.Unlock()
	if ok {
		return ms, nil
	}
	if e.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	st, found, err := e.store.LoadSession(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// Another caller may have restored it while we read the store.
	if ms, ok := e.sessions[id]; ok {
		return ms, nil
	}
	ms = &managedSession{st: st}
	e.sessions[id] = ms
	e.stats.ActiveSessions = len(e.sessions)
	e.log.Debugf("session %s restored from store", id)
	return ms, nil
}

// persist saves the session state if a store is configured. Callers hold the
// session lock.
func (e *Engine) persist(id domain.ConversationID, ms *managedSession) error {
	if e.store == nil {
		return nil
	}
	return e.store.SaveSession(id, ms.st)
}

func (e *Engine) countDerived(derived, stored, evicted uint64) {
	e.mu.Lock()
	e.stats.MessageKeysDerived += derived
	e.stats.SkippedKeysStored += stored
	e.stats.SkippedKeysEvicted += evicted
	e.mu.Unlock()
}
