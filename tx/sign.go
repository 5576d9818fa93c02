package tx

import (
	"bytes"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	sighash "github.com/bsv-blockchain/go-sdk/transaction/sighash"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
)

// DefaultSighash signs every input and output with the BCH fork id.
var DefaultSighash = sighash.AllForkID

// SignedTx is a signed, serialized transaction.
type SignedTx struct {
	Raw  []byte `json:"raw"`
	TxID string `json:"txid"` // display order
}

// Size returns the serialized size in bytes.
func (s *SignedTx) Size() int {
	return len(s.Raw)
}

// Sign signs the single input of utx with key.
//
// The input's locking script must be P2PKH and pay to HASH160 of the key's
// compressed public key. The signature commits to the input amount as the
// fork-id sighash requires. flag must carry sighash.ForkID.
func Sign(utx *UnsignedTx, key *ec.PrivateKey, flag sighash.Flag) (*SignedTx, error) {
	if utx == nil {
		return nil, fmt.Errorf("%w: unsigned tx", ErrNilParam)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: private key", ErrNilParam)
	}
	if utx.Input == nil {
		return nil, fmt.Errorf("%w: input", ErrNilParam)
	}
	if flag&sighash.ForkID == 0 {
		return nil, fmt.Errorf("%w: sighash flag %#x lacks fork id", ErrSigningFailed, uint32(flag))
	}
	if len(utx.Input.ScriptPubKey) == 0 {
		return nil, fmt.Errorf("%w: input has empty ScriptPubKey", ErrSigningFailed)
	}

	lockingScript := script.NewFromBytes(utx.Input.ScriptPubKey)
	if !lockingScript.IsP2PKH() {
		return nil, fmt.Errorf("%w: input is not P2PKH", ErrSigningFailed)
	}
	scriptPKH, err := lockingScript.PublicKeyHash()
	if err != nil {
		return nil, fmt.Errorf("%w: input pubkey hash: %w", ErrSigningFailed, err)
	}
	if !bytes.Equal(scriptPKH, bsvhash.Hash160(key.PubKey().Compressed())) {
		return nil, fmt.Errorf("%w: key does not match input locking script", ErrSigningFailed)
	}

	sdkTx, err := utx.Transaction()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	unlocker, err := p2pkh.Unlock(key, &flag)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create unlocker: %w", ErrSigningFailed, err)
	}
	sdkTx.Inputs[0].SetSourceTxOutput(&transaction.TransactionOutput{
		Satoshis:      utx.Input.Amount,
		LockingScript: lockingScript,
	})
	sdkTx.Inputs[0].UnlockingScriptTemplate = unlocker

	if err := sdkTx.Sign(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	return &SignedTx{
		Raw:  sdkTx.Bytes(),
		TxID: sdkTx.TxID().String(),
	}, nil
}
