package tx

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-sdk/transaction"
)

// DecodedInput is an input of a decoded transaction.
type DecodedInput struct {
	TxID            string `json:"txid"` // display order
	Vout            uint32 `json:"vout"`
	UnlockingScript []byte `json:"unlocking_script"`
	Sequence        uint32 `json:"sequence"`
}

// DecodedOutput is an output of a decoded transaction. PubKeyHash is set only
// for P2PKH outputs.
type DecodedOutput struct {
	Amount       uint64 `json:"amount"`
	ScriptPubKey []byte `json:"script_pubkey"`
	PubKeyHash   []byte `json:"pubkey_hash,omitempty"`
}

// DecodedTx is the structured form of a serialized transaction.
type DecodedTx struct {
	TxID     string          `json:"txid"`
	Version  uint32          `json:"version"`
	Inputs   []DecodedInput  `json:"inputs"`
	Outputs  []DecodedOutput `json:"outputs"`
	LockTime uint32          `json:"locktime"`
}

// Serialize returns the lower-case hex encoding of a signed transaction.
func Serialize(st *SignedTx) string {
	if st == nil {
		return ""
	}
	return hex.EncodeToString(st.Raw)
}

// Deserialize parses a hex-encoded transaction. Input that is not exactly one
// well-formed transaction fails with ErrSerialization.
func Deserialize(rawHex string) (*DecodedTx, error) {
	rawHex = strings.ToLower(strings.TrimSpace(rawHex))
	if rawHex == "" {
		return nil, fmt.Errorf("%w: empty input", ErrSerialization)
	}
	sdkTx, err := transaction.NewTransactionFromHex(rawHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if sdkTx.Hex() != rawHex {
		return nil, fmt.Errorf("%w: trailing or non-canonical data", ErrSerialization)
	}

	d := &DecodedTx{
		TxID:     sdkTx.TxID().String(),
		Version:  sdkTx.Version,
		LockTime: sdkTx.LockTime,
	}
	for _, in := range sdkTx.Inputs {
		di := DecodedInput{
			Vout:     in.SourceTxOutIndex,
			Sequence: in.SequenceNumber,
		}
		if in.SourceTXID != nil {
			di.TxID = in.SourceTXID.String()
		}
		if in.UnlockingScript != nil {
			di.UnlockingScript = []byte(*in.UnlockingScript)
		}
		d.Inputs = append(d.Inputs, di)
	}
	for _, out := range sdkTx.Outputs {
		do := DecodedOutput{Amount: out.Satoshis}
		if out.LockingScript != nil {
			do.ScriptPubKey = []byte(*out.LockingScript)
			if out.LockingScript.IsP2PKH() {
				if pkh, err := out.LockingScript.PublicKeyHash(); err == nil {
					do.PubKeyHash = pkh
				}
			}
		}
		d.Outputs = append(d.Outputs, do)
	}
	return d, nil
}
