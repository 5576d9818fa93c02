package wallet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// --- Mnemonic tests ---

func TestGenerateMnemonic_12Words(t *testing.T) {
	mnemonic, err := GenerateMnemonic(Mnemonic12Words)
	require.NoError(t, err)

	words := strings.Fields(mnemonic)
	assert.Len(t, words, 12, "12-word mnemonic should have 12 words")
	assert.True(t, ValidateMnemonic(mnemonic), "generated mnemonic should be valid")
}

func TestGenerateMnemonic_24Words(t *testing.T) {
	mnemonic, err := GenerateMnemonic(Mnemonic24Words)
	require.NoError(t, err)

	assert.Len(t, strings.Fields(mnemonic), 24)
	assert.True(t, ValidateMnemonic(mnemonic))
}

func TestGenerateMnemonic_InvalidEntropy(t *testing.T) {
	_, err := GenerateMnemonic(64)
	assert.ErrorIs(t, err, ErrInvalidEntropy)

	_, err = GenerateMnemonic(192)
	assert.ErrorIs(t, err, ErrInvalidEntropy)
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 12-word", testMnemonic, true},
		{"extra whitespace", "  abandon abandon abandon abandon abandon abandon\tabandon abandon abandon abandon abandon about ", true},
		{"upper case", strings.ToUpper(testMnemonic), true},
		{"invalid words", "foo bar baz qux quux corge grault garply waldo fred plugh xyzzy", false},
		{"bad checksum", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", false},
		{"empty", "", false},
		{"partial", "abandon abandon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateMnemonic(tt.mnemonic))
		})
	}
}

// --- Seed derivation tests ---

func TestSeedFromMnemonic_Deterministic(t *testing.T) {
	seed1, err := SeedFromMnemonic(testMnemonic)
	require.NoError(t, err)

	seed2, err := SeedFromMnemonic(testMnemonic)
	require.NoError(t, err)

	assert.Equal(t, seed1, seed2)
	assert.Len(t, seed1, 64, "BIP39 seed should be 64 bytes")
}

func TestSeedFromMnemonic_KnownVector(t *testing.T) {
	// BIP39 reference vector for the all-"abandon" phrase with an empty passphrase.
	seed, err := SeedFromMnemonic(testMnemonic)
	require.NoError(t, err)
	assert.Equal(t,
		"5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4",
		hex.EncodeToString(seed))
}

func TestSeedFromMnemonic_InvalidMnemonic(t *testing.T) {
	_, err := SeedFromMnemonic("invalid mnemonic words here")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

// --- HD key derivation tests ---

func newTestWallet(t *testing.T, net *Network) *Wallet {
	t.Helper()
	w, err := NewWalletFromMnemonic(testMnemonic, net)
	require.NoError(t, err)
	return w
}

func TestNewWallet_EmptySeed(t *testing.T) {
	_, err := NewWallet([]byte{}, nil)
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestNewWallet_NilNetwork(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic)
	require.NoError(t, err)

	w, err := NewWallet(seed, nil)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", w.Network().Name, "nil network should default to mainnet")
}

func TestDeriveKey_Path(t *testing.T) {
	w := newTestWallet(t, &MainNet)

	kp, err := w.DeriveKey(0, ExternalChain, 0)
	require.NoError(t, err)
	assert.Equal(t, "m/44'/145'/0'/0/0", kp.Path)
	assert.NotNil(t, kp.PrivateKey)
	assert.Len(t, kp.PublicKey.Compressed(), 33)

	kp, err = w.DeriveKey(2, InternalChain, 7)
	require.NoError(t, err)
	assert.Equal(t, "m/44'/145'/2'/1/7", kp.Path)
}

func TestDeriveKey_DifferentIndices(t *testing.T) {
	w := newTestWallet(t, &MainNet)

	k0, err := w.DeriveKey(0, ExternalChain, 0)
	require.NoError(t, err)
	k1, err := w.DeriveKey(0, ExternalChain, 1)
	require.NoError(t, err)
	kc, err := w.DeriveKey(0, InternalChain, 0)
	require.NoError(t, err)

	assert.NotEqual(t, k0.PublicKey.Compressed(), k1.PublicKey.Compressed())
	assert.NotEqual(t, k0.PublicKey.Compressed(), kc.PublicKey.Compressed())
}

func TestDeriveKey_IndexOutOfRange(t *testing.T) {
	w := newTestWallet(t, &MainNet)

	_, err := w.DeriveKey(0, ExternalChain, MaxIndex+1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = w.DeriveKey(MaxIndex+1, ExternalChain, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestDeriveChangeKey_Deterministic(t *testing.T) {
	for _, net := range []*Network{&MainNet, &TestNet} {
		t.Run(net.Name, func(t *testing.T) {
			k1, err := DeriveChangeKey(testMnemonic, net)
			require.NoError(t, err)
			k2, err := DeriveChangeKey(testMnemonic, net)
			require.NoError(t, err)

			assert.Equal(t, k1.PrivateKey.Serialize(), k2.PrivateKey.Serialize())
			assert.Equal(t, k1.PublicKey.Compressed(), k2.PublicKey.Compressed())

			a1, err := k1.Address(net)
			require.NoError(t, err)
			a2, err := k2.Address(net)
			require.NoError(t, err)
			assert.Equal(t, a1, a2)
			assert.True(t, strings.HasPrefix(a1, net.CashPrefix+":"), "address %s", a1)
		})
	}
}

func TestDeriveChangeKey_MatchesWalletPath(t *testing.T) {
	w := newTestWallet(t, &MainNet)
	want, err := w.DeriveKey(0, ExternalChain, 0)
	require.NoError(t, err)

	got, err := DeriveChangeKey(testMnemonic, &MainNet)
	require.NoError(t, err)
	assert.Equal(t, want.PublicKey.Compressed(), got.PublicKey.Compressed())
}

func TestDeriveChangeKey_KnownVector(t *testing.T) {
	// m/44'/145'/0'/0/0 of the all-"abandon" mnemonic.
	key, err := DeriveChangeKey(testMnemonic, &MainNet)
	require.NoError(t, err)
	assert.Equal(t, "086a977c7dad32a56996af2ce90a727238d48998", hex.EncodeToString(key.PubKeyHash()))

	addr, err := key.Address(&MainNet)
	require.NoError(t, err)
	assert.Equal(t, "bitcoincash:qqyx49mu0kkn9ftfj6hje6g2wfer34yfnq5tahq3q6", addr)
}

func TestDeriveChangeKey_NetworkTagged(t *testing.T) {
	main := newTestWallet(t, &MainNet)
	test := newTestWallet(t, &TestNet)

	mainXPub, err := main.AccountXPub(0)
	require.NoError(t, err)
	testXPub, err := test.AccountXPub(0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mainXPub, "xpub"), mainXPub)
	assert.True(t, strings.HasPrefix(testXPub, "tpub"), testXPub)

	mainKey, err := DeriveChangeKey(testMnemonic, &MainNet)
	require.NoError(t, err)
	testKey, err := DeriveChangeKey(testMnemonic, &TestNet)
	require.NoError(t, err)

	mainAddr, err := mainKey.Address(&MainNet)
	require.NoError(t, err)
	testAddr, err := testKey.Address(&TestNet)
	require.NoError(t, err)
	assert.NotEqual(t, mainAddr, testAddr, "address encoding differs per network")
}

func TestDeriveChangeKey_InvalidMnemonic(t *testing.T) {
	tests := []string{
		"",
		"abandon abandon abandon",
		"foo bar baz qux quux corge grault garply waldo fred plugh xyzzy",
	}
	for _, m := range tests {
		_, err := DeriveChangeKey(m, &MainNet)
		assert.ErrorIs(t, err, ErrInvalidMnemonic, "mnemonic %q", m)
	}
}

// --- Network tests ---

func TestGetNetwork(t *testing.T) {
	net, err := GetNetwork("mainnet")
	require.NoError(t, err)
	assert.Equal(t, "bitcoincash", net.CashPrefix)

	net, err = GetNetwork("TestNet")
	require.NoError(t, err)
	assert.Equal(t, "bchtest", net.CashPrefix)

	_, err = GetNetwork("devnet")
	assert.ErrorIs(t, err, ErrInvalidNetwork)
}

func TestNetwork_TxLink(t *testing.T) {
	txid := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	assert.Equal(t, "https://explorer.bitcoin.com/bch/tx/"+txid, MainNet.TxLink(txid))
	assert.Equal(t, "https://explorer.bitcoin.com/tbch/tx/"+txid, TestNet.TxLink(txid))
}
