package wallet

import (
	"fmt"
	"strings"

	"github.com/gcash/bchutil"
)

// PubKeyHashLen is the length of a HASH160 public key hash.
const PubKeyHashLen = 20

// DecodeAddress parses a CashAddr (with or without prefix) or legacy base58
// address for this network and returns its 20-byte public key hash.
//
// Addresses for another network and non-P2PKH addresses are rejected.
func (n *Network) DecodeAddress(address string) ([]byte, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	decoded, err := bchutil.DecodeAddress(address, n.addrParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, address, err)
	}
	if !decoded.IsForNet(n.addrParams) {
		return nil, fmt.Errorf("%w: %q is not a %s address", ErrInvalidAddress, address, n.Name)
	}

	switch a := decoded.(type) {
	case *bchutil.AddressPubKeyHash:
		return a.ScriptAddress(), nil
	case *bchutil.LegacyAddressPubKeyHash:
		return a.ScriptAddress(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAddress, address)
	}
}

// EncodeAddress returns the prefixed CashAddr P2PKH address for a public key hash.
func (n *Network) EncodeAddress(pubKeyHash []byte) (string, error) {
	if len(pubKeyHash) != PubKeyHashLen {
		return "", fmt.Errorf("%w: public key hash must be %d bytes, got %d",
			ErrInvalidAddress, PubKeyHashLen, len(pubKeyHash))
	}
	addr, err := bchutil.NewAddressPubKeyHash(pubKeyHash, n.addrParams)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	encoded := addr.EncodeAddress()
	if !strings.Contains(encoded, ":") {
		encoded = n.CashPrefix + ":" + encoded
	}
	return encoded, nil
}

// NormalizeAddress re-encodes any accepted address form as a prefixed CashAddr.
func (n *Network) NormalizeAddress(address string) (string, error) {
	pkh, err := n.DecodeAddress(address)
	if err != nil {
		return "", err
	}
	return n.EncodeAddress(pkh)
}
