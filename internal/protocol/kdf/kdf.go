package kdf

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"ratchetkit/internal/domain"
)

// rootLabel is the fixed info string for the root-step expand. Changing it
// breaks convergence with every existing peer.
const rootLabel = "ratchetkit/root-step/v1"

// Single-byte HMAC inputs separating message-key and chain-key derivation.
var (
	messageKeyInput = []byte{0x01}
	chainKeyInput   = []byte{0x02}
)

// ChainStep advances a chain key by one message, returning the message key
// and the next chain key. The chain key cannot be recovered from either
// output.
func ChainStep(chainKey []byte) (messageKey, nextChainKey []byte) {
	messageKey = hmacSHA256(chainKey, messageKeyInput)
	nextChainKey = hmacSHA256(chainKey, chainKeyInput)
	return
}

// Expand is RFC 5869 HKDF-Expand with HMAC-SHA256, producing length bytes.
func Expand(prk, info []byte, length int) ([]byte, error) {
	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, info), out); err != nil {
		return nil, err
	}
	return out, nil
}

// RootStep folds a DH output into the root key: extract with a 32-zero-byte
// salt over rootKey‖dhOutput, then expand to 96 bytes split into the new
// root key and both chain keys, in that order.
func RootStep(rootKey, dhOutput []byte) (newRootKey, chainKeySend, chainKeyReceive []byte, err error) {
	salt := make([]byte, domain.KeySize)
	ikm := make([]byte, 0, len(rootKey)+len(dhOutput))
	ikm = append(ikm, rootKey...)
	ikm = append(ikm, dhOutput...)

	prk := hkdf.Extract(sha256.New, ikm, salt)
	okm, err := Expand(prk, []byte(rootLabel), 3*domain.KeySize)
	if err != nil {
		return nil, nil, nil, err
	}
	newRootKey = okm[:domain.KeySize]
	chainKeySend = okm[domain.KeySize : 2*domain.KeySize]
	chainKeyReceive = okm[2*domain.KeySize:]
	return
}

func hmacSHA256(key, data []byte) []byte {
	m := hmac.New(sha256.New, key)
	m.Write(data)
	return m.Sum(nil)
}
