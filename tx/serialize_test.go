package tx

import (
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_RoundTrip(t *testing.T) {
	priv, _ := generateTestKeyPair(t)
	utx := buildTestUnsigned(t, priv)
	st, err := Sign(utx, priv, DefaultSighash)
	require.NoError(t, err)

	rawHex := Serialize(st)
	assert.Equal(t, strings.ToLower(rawHex), rawHex)
	assert.Equal(t, rawHex, Serialize(st), "serialization is deterministic")

	d, err := Deserialize(rawHex)
	require.NoError(t, err)
	assert.Equal(t, st.TxID, d.TxID)

	require.Len(t, d.Inputs, 1)
	assert.Equal(t, utx.Input.TxIDHex(), d.Inputs[0].TxID)
	assert.Equal(t, utx.Input.Vout, d.Inputs[0].Vout)

	// The decoded unlocking script is byte-for-byte the one that was signed.
	signedTx, err := transaction.NewTransactionFromBytes(st.Raw)
	require.NoError(t, err)
	assert.Equal(t, []byte(*signedTx.Inputs[0].UnlockingScript), d.Inputs[0].UnlockingScript)

	// Signing again yields the same signature bytes.
	again, err := Sign(utx, priv, DefaultSighash)
	require.NoError(t, err)
	d3, err := Deserialize(Serialize(again))
	require.NoError(t, err)
	assert.Equal(t, d.Inputs[0].UnlockingScript, d3.Inputs[0].UnlockingScript)

	chunks, err := script.NewFromBytes(d.Inputs[0].UnlockingScript).Chunks()
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	sig := chunks[0].Data
	assert.Equal(t, byte(DefaultSighash), sig[len(sig)-1])
	assert.Equal(t, priv.PubKey().Compressed(), chunks[1].Data)

	require.Len(t, d.Outputs, len(utx.Outputs))
	for i, out := range utx.Outputs {
		assert.Equal(t, out.Amount, d.Outputs[i].Amount)
		assert.Equal(t, out.PubKeyHash, d.Outputs[i].PubKeyHash)
	}

	// Upper-case hex decodes to the same transaction.
	d2, err := Deserialize(strings.ToUpper(rawHex))
	require.NoError(t, err)
	assert.Equal(t, d, d2)
}

func TestSerialize_Nil(t *testing.T) {
	assert.Empty(t, Serialize(nil))
}

func TestDeserialize_Malformed(t *testing.T) {
	priv, _ := generateTestKeyPair(t)
	st, err := Sign(buildTestUnsigned(t, priv), priv, DefaultSighash)
	require.NoError(t, err)
	rawHex := Serialize(st)

	tests := map[string]string{
		"empty":     "",
		"not hex":   "zz",
		"truncated": rawHex[:len(rawHex)/2],
		"trailing":  rawHex + "00",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Deserialize(in)
			assert.ErrorIs(t, err, ErrSerialization)
		})
	}
}
