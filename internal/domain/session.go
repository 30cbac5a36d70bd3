package domain

// ConversationID identifies the peer-direction pair a session belongs to.
type ConversationID string

// String returns the string form of the conversation identifier.
func (id ConversationID) String() string { return string(id) }

// Direction selects which chain of a session an operation acts on.
type Direction int

const (
	// DirectionSend addresses the sending chain.
	DirectionSend Direction = iota
	// DirectionReceive addresses the receiving chain.
	DirectionReceive
)

// String returns a short name for logging.
func (d Direction) String() string {
	if d == DirectionSend {
		return "send"
	}
	return "receive"
}

// DefaultMaxSkippedKeys bounds the skipped-key cache when the caller does
// not configure a limit.
const DefaultMaxSkippedKeys = 100

// MessageKey is a single-use symmetric key emitted to the message-encryption
// collaborator. Callers must wipe it immediately after use.
type MessageKey struct {
	Key           []byte `json:"key"`
	MessageNumber uint32 `json:"n"`
	ChainKeyIndex uint32 `json:"chain_key_index"`
}

// SkippedMessageKey caches a message key derived while skipping ahead,
// tagged with the DH public key of the epoch it was derived under.
type SkippedMessageKey struct {
	EpochKey      X25519Public `json:"epoch_key" cbor:"1,keyasint"`
	MessageNumber uint32       `json:"n" cbor:"2,keyasint"`
	Key           []byte       `json:"key" cbor:"3,keyasint"`
	Timestamp     int64        `json:"timestamp" cbor:"4,keyasint"`
}

// SessionState contains all fields the Double Ratchet needs to track for one
// peer-direction pair. It is mutated in place by the ratchet and must be
// accessed under a single-writer discipline; it is never shared across
// sessions.
type SessionState struct {
	RootKey         []byte `json:"root_key" cbor:"1,keyasint"`
	ChainKeySend    []byte `json:"send_ck,omitempty" cbor:"2,keyasint,omitempty"`
	ChainKeyReceive []byte `json:"recv_ck,omitempty" cbor:"3,keyasint,omitempty"`

	// DHRatchet is the current local ratchet key pair, if any.
	DHRatchet *DHKeyPair `json:"dh_pair,omitempty" cbor:"4,keyasint,omitempty"`
	// PeerDH is the last-known peer ratchet public key, if any.
	PeerDH *X25519Public `json:"peer_dh,omitempty" cbor:"5,keyasint,omitempty"`

	// Per-epoch counters, reset to 0 on every DH ratchet.
	MessageNumberSend    uint32 `json:"ns" cbor:"6,keyasint"`
	MessageNumberReceive uint32 `json:"nr" cbor:"7,keyasint"`
	// PreviousChainLength snapshots MessageNumberSend immediately before a
	// DH ratchet resets it.
	PreviousChainLength uint32 `json:"pn" cbor:"8,keyasint"`

	// MessagesSent counts lifetime sends and is never reset.
	MessagesSent uint64 `json:"messages_sent" cbor:"9,keyasint"`

	Skipped        []SkippedMessageKey `json:"skipped" cbor:"10,keyasint"`
	MaxSkippedKeys int                 `json:"max_skipped" cbor:"11,keyasint"`

	// Consumed is set by the lifecycle wipe; a consumed session must never
	// be ratcheted again.
	Consumed bool `json:"consumed" cbor:"12,keyasint"`
}

// InitialKeys carries the outputs of the external key-agreement handshake
// into session initialization. All three keys are 32 raw bytes; the DH pair
// is optional.
type InitialKeys struct {
	RootKey         []byte
	ChainKeySend    []byte
	ChainKeyReceive []byte
	DHPair          *DHKeyPair
	PeerDH          *X25519Public
}

// SessionStats is the per-session statistics snapshot.
type SessionStats struct {
	MessageNumberSend    uint32 `json:"ns"`
	MessageNumberReceive uint32 `json:"nr"`
	PreviousChainLength  uint32 `json:"pn"`
	MessagesSent         uint64 `json:"messages_sent"`
	SkippedKeys          int    `json:"skipped_keys"`
	MaxSkippedKeys       int    `json:"max_skipped_keys"`
}

// EngineStats aggregates counters across one engine instance.
type EngineStats struct {
	ActiveSessions      int    `json:"active_sessions"`
	SessionsInitialized uint64 `json:"sessions_initialized"`
	SessionsCleared     uint64 `json:"sessions_cleared"`
	MessageKeysDerived  uint64 `json:"message_keys_derived"`
	SkippedKeysStored   uint64 `json:"skipped_keys_stored"`
	SkippedKeysEvicted  uint64 `json:"skipped_keys_evicted"`
}
