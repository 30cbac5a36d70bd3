package kdf_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"ratchetkit/internal/protocol/kdf"
)

func TestChainStep_Construction(t *testing.T) {
	ck := bytes.Repeat([]byte{0x11}, 32)

	mk, next := kdf.ChainStep(ck)

	wantMK := hmac.New(sha256.New, ck)
	wantMK.Write([]byte{0x01})
	require.Equal(t, wantMK.Sum(nil), mk)

	wantCK := hmac.New(sha256.New, ck)
	wantCK.Write([]byte{0x02})
	require.Equal(t, wantCK.Sum(nil), next)

	require.NotEqual(t, mk, next)
}

func TestChainStep_Deterministic(t *testing.T) {
	ck := bytes.Repeat([]byte{0x42}, 32)

	mk1, next1 := kdf.ChainStep(ck)
	mk2, next2 := kdf.ChainStep(ck)
	require.Equal(t, mk1, mk2)
	require.Equal(t, next1, next2)
}

func TestExpand_LengthAndDeterminism(t *testing.T) {
	prk := bytes.Repeat([]byte{0x07}, 32)

	for _, n := range []int{16, 32, 33, 96} {
		out, err := kdf.Expand(prk, []byte("info"), n)
		require.NoError(t, err)
		require.Len(t, out, n)
	}

	a, err := kdf.Expand(prk, []byte("info"), 96)
	require.NoError(t, err)
	b, err := kdf.Expand(prk, []byte("info"), 96)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := kdf.Expand(prk, []byte("other"), 96)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestRootStep_Deterministic(t *testing.T) {
	root := bytes.Repeat([]byte{0xAA}, 32)
	dh := bytes.Repeat([]byte{0xBB}, 32)

	r1, s1, v1, err := kdf.RootStep(root, dh)
	require.NoError(t, err)
	r2, s2, v2, err := kdf.RootStep(root, dh)
	require.NoError(t, err)

	require.Equal(t, r1, r2)
	require.Equal(t, s1, s2)
	require.Equal(t, v1, v2)
}

func TestRootStep_DistinctOutputs(t *testing.T) {
	root := bytes.Repeat([]byte{0xAA}, 32)
	dh := bytes.Repeat([]byte{0xBB}, 32)

	newRoot, send, recv, err := kdf.RootStep(root, dh)
	require.NoError(t, err)
	require.Len(t, newRoot, 32)
	require.Len(t, send, 32)
	require.Len(t, recv, 32)
	require.NotEqual(t, newRoot, send)
	require.NotEqual(t, newRoot, recv)
	require.NotEqual(t, send, recv)
	require.NotEqual(t, root, newRoot)
}

func TestRootStep_DHChangesEverything(t *testing.T) {
	root := bytes.Repeat([]byte{0xAA}, 32)

	r1, s1, v1, err := kdf.RootStep(root, bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)
	r2, s2, v2, err := kdf.RootStep(root, bytes.Repeat([]byte{0x02}, 32))
	require.NoError(t, err)

	require.NotEqual(t, r1, r2)
	require.NotEqual(t, s1, s2)
	require.NotEqual(t, v1, v2)
}
