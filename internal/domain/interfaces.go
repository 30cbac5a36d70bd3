package domain

// SessionStore persists per-conversation ratchet state. Implementations must
// round-trip SessionState byte-exactly, including the full skipped-key list
// and all counters, and must commit each save atomically so sender and
// receiver state never diverge after a partial failure.
type SessionStore interface {
	SaveSession(id ConversationID, st SessionState) error
	LoadSession(id ConversationID) (SessionState, bool, error)
	DeleteSession(id ConversationID) error
	ListSessions() ([]ConversationID, error)
}
