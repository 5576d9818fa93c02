package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

const (
	// BIP44 path constants.
	PurposeBIP44        = 44
	CoinTypeBitcoinCash = 145
	DefaultAccount      = 0

	// Chain indices.
	ExternalChain = 0 // Receive addresses
	InternalChain = 1 // Change addresses

	// MaxIndex is the largest non-hardened BIP32 index.
	MaxIndex = 1<<31 - 1

	// Hardened is the BIP32 hardened offset.
	Hardened = 0x80000000
)

// Identity is the caller-owned wallet used for one send. The mnemonic is only
// read to derive the spending key.
type Identity struct {
	Address  string `json:"address"`
	Mnemonic string `json:"-"`
}

// Wallet is an HD wallet rooted at a BIP39 seed for one network.
type Wallet struct {
	masterKey *bip32.ExtendedKey
	network   *Network
}

// KeyPair holds a derived public/private key pair.
type KeyPair struct {
	PrivateKey *ec.PrivateKey `json:"-"`
	PublicKey  *ec.PublicKey  `json:"public_key"`
	Path       string         `json:"path"`
}

// NewWallet creates a Wallet from a BIP39 seed. The network selects the
// extended-key version bytes; nil means mainnet.
func NewWallet(seed []byte, network *Network) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if network == nil {
		network = &MainNet
	}

	masterKey, err := bip32.NewMaster(seed, network.hdParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}

	return &Wallet{
		masterKey: masterKey,
		network:   network,
	}, nil
}

// NewWalletFromMnemonic validates the mnemonic and builds its Wallet.
func NewWalletFromMnemonic(mnemonic string, network *Network) (*Wallet, error) {
	seed, err := SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	return NewWallet(seed, network)
}

// Network returns the wallet's network.
func (w *Wallet) Network() *Network {
	return w.network
}

// deriveAccount derives m/44'/145'/account'.
func (w *Wallet) deriveAccount(account uint32) (*bip32.ExtendedKey, error) {
	if account > MaxIndex {
		return nil, fmt.Errorf("%w: account %d", ErrIndexOutOfRange, account)
	}

	purpose, err := w.masterKey.Child(PurposeBIP44 + Hardened)
	if err != nil {
		return nil, fmt.Errorf("%w: purpose derivation: %w", ErrDerivationFailed, err)
	}

	coinType, err := purpose.Child(CoinTypeBitcoinCash + Hardened)
	if err != nil {
		return nil, fmt.Errorf("%w: coin type derivation: %w", ErrDerivationFailed, err)
	}

	accountKey, err := coinType.Child(account + Hardened)
	if err != nil {
		return nil, fmt.Errorf("%w: account derivation: %w", ErrDerivationFailed, err)
	}

	return accountKey, nil
}

// DeriveKey derives m/44'/145'/account'/chain/index.
func (w *Wallet) DeriveKey(account, chain, index uint32) (*KeyPair, error) {
	if chain > MaxIndex || index > MaxIndex {
		return nil, ErrIndexOutOfRange
	}

	accountKey, err := w.deriveAccount(account)
	if err != nil {
		return nil, err
	}

	chainKey, err := accountKey.Child(chain)
	if err != nil {
		return nil, fmt.Errorf("%w: chain derivation: %w", ErrDerivationFailed, err)
	}

	childKey, err := chainKey.Child(index)
	if err != nil {
		return nil, fmt.Errorf("%w: index derivation: %w", ErrDerivationFailed, err)
	}

	return extKeyToKeyPair(childKey, fmt.Sprintf("m/%d'/%d'/%d'/%d/%d",
		PurposeBIP44, CoinTypeBitcoinCash, account, chain, index))
}

// AccountXPub returns the serialized extended public key of an account. Its
// version prefix (xpub/tpub) reflects the wallet's network.
func (w *Wallet) AccountXPub(account uint32) (string, error) {
	accountKey, err := w.deriveAccount(account)
	if err != nil {
		return "", err
	}
	pub, err := accountKey.Neuter()
	if err != nil {
		return "", fmt.Errorf("%w: neuter: %w", ErrDerivationFailed, err)
	}
	return pub.String(), nil
}

// DeriveChangeKey derives the key that spends the wallet's funds in a send:
// m/44'/145'/0'/0/0 of the mnemonic's seed.
//
// The same mnemonic and network always yield the same key and address.
func DeriveChangeKey(mnemonic string, network *Network) (*KeyPair, error) {
	w, err := NewWalletFromMnemonic(mnemonic, network)
	if err != nil {
		return nil, err
	}
	return w.DeriveKey(DefaultAccount, ExternalChain, 0)
}

// PubKeyHash returns HASH160 of the compressed public key.
func (kp *KeyPair) PubKeyHash() []byte {
	return bsvhash.Hash160(kp.PublicKey.Compressed())
}

// Address returns the CashAddr P2PKH address of the key on the network.
func (kp *KeyPair) Address(network *Network) (string, error) {
	return network.EncodeAddress(kp.PubKeyHash())
}

// extKeyToKeyPair converts a BIP32 extended key to a KeyPair.
func extKeyToKeyPair(extKey *bip32.ExtendedKey, path string) (*KeyPair, error) {
	privKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}

	pubKey := privKey.PubKey()
	if pubKey == nil {
		return nil, fmt.Errorf("%w: failed to derive public key", ErrDerivationFailed)
	}

	return &KeyPair{
		PrivateKey: privKey,
		PublicKey:  pubKey,
		Path:       path,
	}, nil
}
