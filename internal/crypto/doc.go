// Package crypto exposes the minimal primitives used by the ratchet engine.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519, DH)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//   - Base64 encoding for key output (B64)
//
// All functions return fixed-size array types defined in internal/domain to
// avoid accidental reallocations. Callers should treat returned secrets as
// sensitive and wipe them when practical to reduce lifetime in memory.
package crypto
