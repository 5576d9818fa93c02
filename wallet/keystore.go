package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for keystore encryption.
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // 64 MB
	Argon2Parallelism = 4
	Argon2KeyLen      = 32

	// Encryption format sizes.
	SaltLen     = 16
	NonceLen    = 12
	ChecksumLen = 4
)

// EncryptMnemonic encrypts a mnemonic with Argon2id + AES-256-GCM.
//
// Output format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, mnemonic||checksum)
//
// The checksum is SHA256(mnemonic)[:4] for verifying correct decryption.
func EncryptMnemonic(mnemonic, password string) ([]byte, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("wallet: failed to generate salt: %w", err)
	}

	gcm, err := keystoreCipher(password, salt)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(mnemonic))
	plaintext := make([]byte, 0, len(mnemonic)+ChecksumLen)
	plaintext = append(plaintext, mnemonic...)
	plaintext = append(plaintext, sum[:ChecksumLen]...)

	nonce := make([]byte, NonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("wallet: failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, SaltLen+NonceLen+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)
	return result, nil
}

// DecryptMnemonic reverses EncryptMnemonic and verifies the checksum.
func DecryptMnemonic(encrypted []byte, password string) (string, error) {
	if len(encrypted) < SaltLen+NonceLen+ChecksumLen {
		return "", ErrDecryptionFailed
	}

	salt := encrypted[:SaltLen]
	nonce := encrypted[SaltLen : SaltLen+NonceLen]
	ciphertext := encrypted[SaltLen+NonceLen:]

	gcm, err := keystoreCipher(password, salt)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(plaintext) < ChecksumLen {
		return "", ErrDecryptionFailed
	}

	mnemonic := plaintext[:len(plaintext)-ChecksumLen]
	stored := plaintext[len(plaintext)-ChecksumLen:]
	sum := sha256.Sum256(mnemonic)
	if subtle.ConstantTimeCompare(stored, sum[:ChecksumLen]) != 1 {
		return "", ErrChecksumMismatch
	}

	return string(mnemonic), nil
}

// SaveKeystore encrypts the mnemonic and writes it to path with 0600
// permissions. An existing file is never overwritten.
func SaveKeystore(path, mnemonic, password string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrKeystoreExists, path)
	}

	data, err := EncryptMnemonic(mnemonic, password)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("wallet: create keystore directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("wallet: write keystore: %w", err)
	}
	return nil
}

// LoadKeystore reads and decrypts the mnemonic stored at path.
func LoadKeystore(path, password string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrKeystoreNotFound, path)
		}
		return "", fmt.Errorf("wallet: read keystore: %w", err)
	}
	return DecryptMnemonic(data, password)
}

func keystoreCipher(password string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("wallet: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("wallet: GCM creation failed: %w", err)
	}
	return gcm, nil
}
