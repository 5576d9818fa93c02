package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty or invalid.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrIndexOutOfRange indicates a BIP32 index exceeds the non-hardened max.
	ErrIndexOutOfRange = errors.New("wallet: index exceeds maximum (2^31-1)")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("wallet: invalid network name")

	// ErrInvalidAddress indicates an address that cannot be decoded for the network.
	ErrInvalidAddress = errors.New("wallet: invalid address")

	// ErrUnsupportedAddress indicates a valid address that is not pay-to-public-key-hash.
	ErrUnsupportedAddress = errors.New("wallet: only P2PKH addresses are supported")

	// ErrDecryptionFailed indicates wrong password or corrupted keystore data.
	ErrDecryptionFailed = errors.New("wallet: keystore decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("wallet: keystore checksum mismatch")

	// ErrKeystoreNotFound indicates no keystore file exists at the given path.
	ErrKeystoreNotFound = errors.New("wallet: keystore not found")

	// ErrKeystoreExists indicates a keystore file is already present.
	ErrKeystoreExists = errors.New("wallet: keystore already exists")
)
