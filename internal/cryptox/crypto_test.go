package cryptox

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	require.True(t, bytes.Equal(key1, key2))
	assert.Len(t, key1, KeySize)

	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	assert.Equal(t, expectedHex, hex.EncodeToString(key1))
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")
	assert.NotEqual(t, DeriveKey(password, []byte("salt-1")), DeriveKey(password, []byte("salt-2")))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("install"), []byte("salt"))

	ct, nonce, err := Seal([]byte("dav-password"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(ct), "dav-password")

	pt, err := Open(ct, nonce, key)
	require.NoError(t, err)
	assert.Equal(t, "dav-password", string(pt))

	ct2, nonce2, err := Seal([]byte("dav-password"), key)
	require.NoError(t, err)
	assert.NotEqual(t, nonce, nonce2)
	assert.NotEqual(t, ct, ct2)
}

func TestOpen_Failures(t *testing.T) {
	key := DeriveKey([]byte("install"), []byte("salt"))
	other := DeriveKey([]byte("other"), []byte("salt"))

	ct, nonce, err := Seal([]byte("pw"), key)
	require.NoError(t, err)

	_, err = Open(ct, nonce, other)
	require.Error(t, err, "wrong key")

	tampered := append([]byte(nil), ct...)
	tampered[0] ^= 0xff
	_, err = Open(tampered, nonce, key)
	require.Error(t, err, "tampered ciphertext")

	_, err = Open(ct, nonce[:4], key)
	require.Error(t, err, "short nonce")

	_, _, err = Seal([]byte("pw"), []byte("short"))
	require.Error(t, err, "bad key size")
}

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "secret")

	s1, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Len(t, s1, SecretSize)

	s2, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))
	_, err = LoadOrCreateSecret(path)
	require.ErrorIs(t, err, ErrBadSecret)
}
