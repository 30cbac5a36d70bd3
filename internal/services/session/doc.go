// Package session exposes the ratchet engine as a service.
//
// An Engine owns a registry of live sessions, serialises access to each one,
// keeps engine-level statistics, and optionally persists state after every
// mutation. Each test or application instantiates its own Engine; there is
// no process-wide state.
//
// Logging discipline: the engine logs message numbers, counts and public-key
// fingerprints only. Raw key bytes never reach the logger.
package session
