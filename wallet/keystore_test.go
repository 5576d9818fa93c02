package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptMnemonic_RoundTrip(t *testing.T) {
	encrypted, err := EncryptMnemonic(testMnemonic, "test-password-123")
	require.NoError(t, err)
	assert.Greater(t, len(encrypted), SaltLen+NonceLen+len(testMnemonic))

	decrypted, err := DecryptMnemonic(encrypted, "test-password-123")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, decrypted)
}

func TestEncryptMnemonic_Normalizes(t *testing.T) {
	encrypted, err := EncryptMnemonic("  ABANDON abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "pw")
	require.NoError(t, err)

	decrypted, err := DecryptMnemonic(encrypted, "pw")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, decrypted)
}

func TestEncryptMnemonic_Invalid(t *testing.T) {
	_, err := EncryptMnemonic("not a mnemonic", "pw")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestDecryptMnemonic_WrongPassword(t *testing.T) {
	encrypted, err := EncryptMnemonic(testMnemonic, "correct-password")
	require.NoError(t, err)

	_, err = DecryptMnemonic(encrypted, "wrong-password")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptMnemonic_TooShort(t *testing.T) {
	_, err := DecryptMnemonic([]byte{0x01, 0x02, 0x03}, "password")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptMnemonic_Corrupted(t *testing.T) {
	encrypted, err := EncryptMnemonic(testMnemonic, "pw")
	require.NoError(t, err)

	encrypted[len(encrypted)-1] ^= 0xff
	_, err = DecryptMnemonic(encrypted, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEncryptMnemonic_DifferentCiphertexts(t *testing.T) {
	enc1, err := EncryptMnemonic(testMnemonic, "same")
	require.NoError(t, err)
	enc2, err := EncryptMnemonic(testMnemonic, "same")
	require.NoError(t, err)

	assert.NotEqual(t, enc1, enc2, "random salt and nonce should differ")
}

func TestKeystore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "wallet.enc")

	require.NoError(t, SaveKeystore(path, testMnemonic, "pw"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	mnemonic, err := LoadKeystore(path, "pw")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, mnemonic)
}

func TestKeystore_NoOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.enc")
	require.NoError(t, SaveKeystore(path, testMnemonic, "pw"))

	err := SaveKeystore(path, testMnemonic, "other")
	assert.ErrorIs(t, err, ErrKeystoreExists)
}

func TestKeystore_NotFound(t *testing.T) {
	_, err := LoadKeystore(filepath.Join(t.TempDir(), "missing.enc"), "pw")
	assert.ErrorIs(t, err, ErrKeystoreNotFound)
}
