package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// TxIDLen is the byte length of a transaction id.
const TxIDLen = 32

// UTXO represents an unspent transaction output owned by the sender.
type UTXO struct {
	TxID         []byte `json:"txid"` // 32 bytes, internal byte order
	Vout         uint32 `json:"vout"`
	Amount       uint64 `json:"amount"`        // satoshis
	ScriptPubKey []byte `json:"script_pubkey"` // locking script bytes
}

// ParseTxID converts a display-order hex transaction id (as shown by
// explorers and returned by APIs) to internal byte order.
func ParseTxID(s string) ([]byte, error) {
	h, err := chainhash.NewHashFromHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidTxID, s, err)
	}
	if len(s) != 2*TxIDLen {
		return nil, fmt.Errorf("%w: %q has %d hex chars", ErrInvalidTxID, s, len(s))
	}
	return h.CloneBytes(), nil
}

// TxIDHex returns the UTXO's transaction id in display order.
func (u *UTXO) TxIDHex() string {
	h, err := chainhash.NewHash(u.TxID)
	if err != nil {
		return ""
	}
	return h.String()
}

// Outpoint returns "txid:vout" in display order.
func (u *UTXO) Outpoint() string {
	return fmt.Sprintf("%s:%d", u.TxIDHex(), u.Vout)
}
