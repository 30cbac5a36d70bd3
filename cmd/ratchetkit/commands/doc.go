// Package commands implements the ratchetkit CLI.
//
// The tool drives a persistent Double Ratchet session engine: it creates
// sessions from externally agreed initial keys, derives per-message keys for
// an AEAD collaborator, performs DH ratchet steps, and reports statistics.
// It never encrypts messages itself.
package commands
