package network

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libbchsend-go/tx"
)

// Compile-time interface checks.
var (
	_ ChainService  = (*RPCClient)(nil)
	_ StatusService = (*RPCClient)(nil)
)

// rpcInvalidAddressOrKey is the node's error code for unknown transactions.
const rpcInvalidAddressOrKey = -5

// listUnspentResult maps the JSON fields returned by the listunspent call.
type listUnspentResult struct {
	TxID          string          `json:"txid"`
	Vout          uint32          `json:"vout"`
	Amount        decimal.Decimal `json:"amount"`
	ScriptPubKey  string          `json:"scriptPubKey"`
	Address       string          `json:"address"`
	Confirmations int64           `json:"confirmations"`
}

// listUnspent calls `listunspent minConf 9999999 ["address"]`.
func (c *RPCClient) listUnspent(ctx context.Context, address string, minConf int) ([]listUnspentResult, error) {
	params := []interface{}{minConf, 9999999, []string{address}}
	var results []listUnspentResult
	if err := c.Call(ctx, "listunspent", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ListUnspent returns all unspent outputs for the given address, including
// unconfirmed ones. It calls `listunspent 0 9999999 ["address"]`.
func (c *RPCClient) ListUnspent(ctx context.Context, address string) ([]*tx.UTXO, error) {
	results, err := c.listUnspent(ctx, address, 0)
	if err != nil {
		return nil, err
	}

	utxos := make([]*tx.UTXO, 0, len(results))
	for _, r := range results {
		txid, err := tx.ParseTxID(r.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		sats, err := bchToSat(r.Amount)
		if err != nil {
			return nil, err
		}
		script, err := hex.DecodeString(r.ScriptPubKey)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid scriptPubKey hex: %v", ErrInvalidResponse, err)
		}
		utxos = append(utxos, &tx.UTXO{
			TxID:         txid,
			Vout:         r.Vout,
			Amount:       sats,
			ScriptPubKey: script,
		})
	}
	return utxos, nil
}

// Balance returns the confirmed balance in BCH: the sum of the address's
// unspent outputs with at least one confirmation.
func (c *RPCClient) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	results, err := c.listUnspent(ctx, address, 1)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range results {
		total = total.Add(r.Amount)
	}
	return total, nil
}

// BroadcastTx submits a raw transaction hex to the network and returns the txid.
// It calls `sendrawtransaction "hex"`. RPC errors become *RejectError.
func (c *RPCClient) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	params := []interface{}{rawTxHex}
	var txid string
	if err := c.Call(ctx, "sendrawtransaction", params, &txid); err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return "", &RejectError{Code: rpcErr.Code, Reason: rpcErr.Message}
		}
		return "", err
	}
	return txid, nil
}

// verboseTxResult maps the JSON fields from getrawtransaction with verbose=true.
type verboseTxResult struct {
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"blockhash"`
	BlockHeight   uint64 `json:"blockheight"`
}

// GetTxStatus returns the confirmation status of a transaction.
// It calls `getrawtransaction "txid" true` (verbose mode) to get confirmation info.
func (c *RPCClient) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	params := []interface{}{txid, true}
	var result verboseTxResult
	if err := c.Call(ctx, "getrawtransaction", params, &result); err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == rpcInvalidAddressOrKey {
			return nil, fmt.Errorf("%w: %s", ErrTxNotFound, txid)
		}
		return nil, err
	}
	return &TxStatus{
		Confirmed:     result.Confirmations > 0,
		Confirmations: result.Confirmations,
		BlockHash:     result.BlockHash,
		BlockHeight:   result.BlockHeight,
	}, nil
}

// bchToSat converts a BCH amount reported by a backend to satoshis.
func bchToSat(bch decimal.Decimal) (uint64, error) {
	if bch.IsZero() {
		return 0, nil
	}
	sats, err := tx.ToSatoshis(bch)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %s: %w", ErrInvalidResponse, bch, err)
	}
	return sats, nil
}
