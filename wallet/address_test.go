package wallet

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAddress_CashAddrVector(t *testing.T) {
	want, _ := hex.DecodeString("f5bf48b397dae70be82b3cca4793f8eb2b6cdac9")

	pkh, err := MainNet.DecodeAddress("bitcoincash:qr6m7j9njldwwzlg9v7v53unlr4jkmx6eylep8ekg2")
	require.NoError(t, err)
	assert.Equal(t, want, pkh)

	// The prefix is optional for the network's own addresses.
	pkh, err = MainNet.DecodeAddress("qr6m7j9njldwwzlg9v7v53unlr4jkmx6eylep8ekg2")
	require.NoError(t, err)
	assert.Equal(t, want, pkh)
}

func TestDecodeAddress_LegacyMatchesCashAddr(t *testing.T) {
	legacy, err := MainNet.DecodeAddress("1BpEi6DfDAUFd7GtittLSdBeYJvcoaVggu")
	require.NoError(t, err)

	cash, err := MainNet.DecodeAddress("bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a")
	require.NoError(t, err)

	assert.Equal(t, legacy, cash)
	assert.Len(t, cash, PubKeyHashLen)
}

func TestEncodeAddress_RoundTrip(t *testing.T) {
	pkh := bytes.Repeat([]byte{0x5a}, PubKeyHashLen)

	for _, net := range []*Network{&MainNet, &TestNet} {
		t.Run(net.Name, func(t *testing.T) {
			addr, err := net.EncodeAddress(pkh)
			require.NoError(t, err)
			assert.Contains(t, addr, net.CashPrefix+":")

			decoded, err := net.DecodeAddress(addr)
			require.NoError(t, err)
			assert.Equal(t, pkh, decoded)
		})
	}
}

func TestEncodeAddress_KnownVector(t *testing.T) {
	pkh, _ := hex.DecodeString("f5bf48b397dae70be82b3cca4793f8eb2b6cdac9")
	addr, err := MainNet.EncodeAddress(pkh)
	require.NoError(t, err)
	assert.Equal(t, "bitcoincash:qr6m7j9njldwwzlg9v7v53unlr4jkmx6eylep8ekg2", addr)
}

func TestEncodeAddress_BadLength(t *testing.T) {
	_, err := MainNet.EncodeAddress([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestDecodeAddress_WrongNetwork(t *testing.T) {
	pkh := bytes.Repeat([]byte{0x11}, PubKeyHashLen)
	testAddr, err := TestNet.EncodeAddress(pkh)
	require.NoError(t, err)

	_, err = MainNet.DecodeAddress(testAddr)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestDecodeAddress_Invalid(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"not-an-address",
		"bitcoincash:qr6m7j9njldwwzlg9v7v53unlr4jkmx6eylep8ekg3", // bad checksum
	}
	for _, addr := range tests {
		_, err := MainNet.DecodeAddress(addr)
		assert.ErrorIs(t, err, ErrInvalidAddress, "address %q", addr)
	}
}

func TestDecodeAddress_RejectsP2SH(t *testing.T) {
	// P2SH (type 1) CashAddr form of the same hash.
	_, err := MainNet.DecodeAddress("bitcoincash:pr6m7j9njldwwzlg9v7v53unlr4jkmx6eyvwc0uz5t")
	if err == nil {
		t.Fatal("expected P2SH address to be rejected")
	}
}

func TestNormalizeAddress(t *testing.T) {
	norm, err := MainNet.NormalizeAddress("1BpEi6DfDAUFd7GtittLSdBeYJvcoaVggu")
	require.NoError(t, err)
	assert.Equal(t, "bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a", norm)
}
