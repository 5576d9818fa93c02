package tx

import (
	"bytes"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libbchsend-go/wallet"
)

func generateTestKeyPair(t *testing.T) (*ec.PrivateKey, *ec.PublicKey) {
	t.Helper()
	privKey, err := ec.NewPrivateKey()
	require.NoError(t, err)
	return privKey, privKey.PubKey()
}

// testAddress returns the mainnet CashAddr of a fresh key.
func testAddress(t *testing.T) string {
	t.Helper()
	_, pub := generateTestKeyPair(t)
	addr, err := wallet.MainNet.EncodeAddress(bsvhash.Hash160(pub.Compressed()))
	require.NoError(t, err)
	return addr
}

// testOwnedUTXO returns a UTXO locked to priv's P2PKH script and the matching
// mainnet address.
func testOwnedUTXO(t *testing.T, priv *ec.PrivateKey, amount uint64) (*UTXO, string) {
	t.Helper()
	pkh := bsvhash.Hash160(priv.PubKey().Compressed())
	lock, err := BuildP2PKHScript(pkh)
	require.NoError(t, err)
	addr, err := wallet.MainNet.EncodeAddress(pkh)
	require.NoError(t, err)
	return &UTXO{
		TxID:         bytes.Repeat([]byte{0x01}, TxIDLen),
		Vout:         0,
		Amount:       amount,
		ScriptPubKey: lock,
	}, addr
}

func testUTXO(amount uint64, seed byte) *UTXO {
	return &UTXO{
		TxID:   bytes.Repeat([]byte{seed}, TxIDLen),
		Amount: amount,
	}
}

func bch(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
