package domain

import "fmt"

// KeySize is the size in bytes of every symmetric key the engine handles.
const KeySize = 32

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }

// DHKeyPair is a local ratchet key pair.
type DHKeyPair struct {
	Private X25519Private `json:"private" cbor:"1,keyasint"`
	Public  X25519Public  `json:"public" cbor:"2,keyasint"`
}

// MustX25519Public converts b to a public key, panicking on bad length.
func MustX25519Public(b []byte) X25519Public {
	if len(b) != 32 {
		panic(fmt.Errorf("X25519 public: want 32 bytes, got %d", len(b)))
	}
	var out X25519Public
	copy(out[:], b)
	return out
}

// MustX25519Private converts b to a private key, panicking on bad length.
func MustX25519Private(b []byte) X25519Private {
	if len(b) != 32 {
		panic(fmt.Errorf("X25519 private: want 32 bytes, got %d", len(b)))
	}
	var out X25519Private
	copy(out[:], b)
	return out
}
