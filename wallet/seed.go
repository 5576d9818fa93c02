// Package wallet derives Bitcoin Cash signing keys from BIP39 mnemonics.
//
// Key hierarchy: m/44'/145'/{account}'/{chain}/{index}. The send flow spends
// from account 0, external chain, index 0.
package wallet

import (
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
)

const (
	// Mnemonic entropy sizes.
	Mnemonic12Words = 128 // 12-word mnemonic
	Mnemonic24Words = 256 // 24-word mnemonic
)

// GenerateMnemonic creates a new BIP39 mnemonic with the specified entropy bits.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}

	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("wallet: failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("wallet: failed to generate mnemonic: %w", err)
	}

	return mnemonic, nil
}

// NormalizeMnemonic collapses runs of whitespace and lower-cases the words.
func NormalizeMnemonic(mnemonic string) string {
	return strings.ToLower(strings.Join(strings.Fields(mnemonic), " "))
}

// ValidateMnemonic checks word count, wordlist membership and checksum.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

// SeedFromMnemonic derives the 64-byte BIP39 seed with no passphrase.
//
//	seed = PBKDF2(mnemonic, "mnemonic", 2048, 64, SHA512)
func SeedFromMnemonic(mnemonic string) ([]byte, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}

	return seed, nil
}
