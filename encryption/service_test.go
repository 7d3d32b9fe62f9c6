package encryption

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	cs, err := NewCryptoService()
	require.NoError(t, err)

	msg := []byte("checkpoint")
	sig, err := cs.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, 65)

	require.NoError(t, cs.VerifySignature(msg, sig, cs.Address()))
	require.ErrorIs(t, cs.VerifySignature([]byte("other"), sig, cs.Address()), ErrInvalidSignature)
}

func TestVerifyRejectsOtherSigner(t *testing.T) {
	a, err := NewCryptoService()
	require.NoError(t, err)
	b, err := NewCryptoService()
	require.NoError(t, err)

	sig, err := a.Sign([]byte("m"))
	require.NoError(t, err)
	require.ErrorIs(t, b.VerifySignature([]byte("m"), sig, b.Address()), ErrInvalidSignature)
	require.NoError(t, b.VerifySignature([]byte("m"), sig, a.Address()))
	require.ErrorIs(t, a.VerifySignature([]byte("m"), sig, "not-an-address"), ErrInvalidSignature)
}

func TestLoadOrGenerateKeyRoundTrip(t *testing.T) {
	cs, err := LoadOrGenerateKey("")
	require.NoError(t, err)

	again, err := LoadOrGenerateKey(cs.PrivateKeyHex())
	require.NoError(t, err)
	assert.Equal(t, cs.Address(), again.Address())
	assert.Equal(t, cs.PublicKeyHex(), again.PublicKeyHex())

	_, err = LoadOrGenerateKey("0xzz")
	require.Error(t, err)
}

func TestKeccak256KnownVector(t *testing.T) {
	cs := &CryptoService{}
	got := cs.Keccak256([]byte(""))
	assert.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", hex.EncodeToString(got))
	assert.Equal(t, cs.Keccak256([]byte("ab")), cs.Keccak256([]byte("a"), []byte("b")))
}
