// Package ratchet implements the Double Ratchet session engine following
// Signal's design.
//
// The engine maintains a root key and two message chains (send and receive).
// Each message advances a KDF chain so that keys are forward secure. A DH
// ratchet step folds a fresh Diffie–Hellman output into the root key,
// reseeding both chains and restoring secrecy after a compromise once both
// parties have rotated.
//
// All functions are synchronous, CPU-bound, pure mutations of a single
// *domain.SessionState — no I/O, no internal concurrency. A SessionState is
// NOT safe for concurrent use; callers must serialise access per session.
// Distinct sessions are fully independent.
package ratchet
