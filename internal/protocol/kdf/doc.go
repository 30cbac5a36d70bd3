// Package kdf implements the key-derivation steps of the Double Ratchet:
// the HMAC-based chain step that turns a chain key into a message key plus
// its successor, and the HKDF extract-and-expand root step that folds a DH
// output into the root key to reseed both chains.
//
// All functions are pure and deterministic; identical inputs always yield
// identical output, which is what lets both ratchet parties converge
// independently. The chain step is one-way by construction of HMAC, which is
// what grants forward secrecy.
package kdf
