// Package store persists ratchet session state.
//
// It contains the concrete implementation of domain.SessionStore: a single
// bbolt file holding one record per conversation. Records are CBOR-encoded
// for a byte-exact round trip (skipped-key list and counters included) and
// sealed with a passphrase-derived key before they touch disk. Saves run in
// bolt write transactions, so sender and receiver state can never diverge
// after a partial failure.
package store
