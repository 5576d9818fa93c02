package network

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libbchsend-go/tx"
)

// MockChainService is a test double for ChainService and StatusService.
// All function fields must be set before the corresponding method is called.
type MockChainService struct {
	BalanceFn     func(ctx context.Context, address string) (decimal.Decimal, error)
	ListUnspentFn func(ctx context.Context, address string) ([]*tx.UTXO, error)
	BroadcastTxFn func(ctx context.Context, rawTxHex string) (string, error)
	GetTxStatusFn func(ctx context.Context, txid string) (*TxStatus, error)
}

var (
	_ ChainService  = (*MockChainService)(nil)
	_ StatusService = (*MockChainService)(nil)
)

func (m *MockChainService) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	return m.BalanceFn(ctx, address)
}
func (m *MockChainService) ListUnspent(ctx context.Context, address string) ([]*tx.UTXO, error) {
	return m.ListUnspentFn(ctx, address)
}
func (m *MockChainService) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	return m.BroadcastTxFn(ctx, rawTxHex)
}
func (m *MockChainService) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	return m.GetTxStatusFn(ctx, txid)
}
