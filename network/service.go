package network

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libbchsend-go/tx"
)

// ChainService is the read/broadcast surface a send needs from the network.
// Implementations must honor ctx cancellation and never retry on their own.
type ChainService interface {
	// Balance returns the confirmed balance of address in BCH.
	Balance(ctx context.Context, address string) (decimal.Decimal, error)

	// ListUnspent returns the unspent outputs paying to address.
	ListUnspent(ctx context.Context, address string) ([]*tx.UTXO, error)

	// BroadcastTx submits a raw transaction hex and returns its txid.
	// A refusal by the node is reported as *RejectError.
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)
}

// StatusService reports the confirmation status of a transaction.
type StatusService interface {
	GetTxStatus(ctx context.Context, txid string) (*TxStatus, error)
}

// TxStatus represents the confirmation status of a transaction.
type TxStatus struct {
	Confirmed     bool   `json:"confirmed"`
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"block_hash"`
	BlockHeight   uint64 `json:"block_height"`
}
