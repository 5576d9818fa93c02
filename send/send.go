// Package send runs the single-input, multi-output send pipeline:
// balance check, UTXO fetch, selection, fee, build, sign, serialize and
// broadcast. Each call is sequential and holds no state between calls;
// callers must keep at most one send in flight per wallet.
package send

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	blog "github.com/bitfsorg/libbchsend-go/log"
	"github.com/bitfsorg/libbchsend-go/metrics"
	"github.com/bitfsorg/libbchsend-go/network"
	"github.com/bitfsorg/libbchsend-go/tx"
	"github.com/bitfsorg/libbchsend-go/wallet"
)

// Pipeline stage names, used as metric labels and log fields.
const (
	StageBalance   = "balance"
	StageUTXOs     = "utxos"
	StageBuild     = "build"
	StageSign      = "sign"
	StageBroadcast = "broadcast"
)

// Sender sends BCH from one wallet identity. The zero values of the optional
// fields select the defaults: LargestFirst, the per-recipient fee rate and
// ChangeAlways.
type Sender struct {
	Chain   network.ChainService
	Network *wallet.Network

	Selector     tx.Selector
	FeeRate      float64 // sat/byte; 0 means tx.RecipientFeeRate
	ChangePolicy tx.ChangePolicy

	Logger  *zerolog.Logger   // nil means log.Send
	Metrics *metrics.Recorder // nil records nothing
}

// New returns a Sender with default policies.
func New(chain network.ChainService, net *wallet.Network) *Sender {
	return &Sender{Chain: chain, Network: net}
}

// Options tune a single Send call.
type Options struct {
	// DryRun builds and signs the transaction but does not broadcast it.
	DryRun bool
}

// Result describes a completed send.
type Result struct {
	TxID      string      `json:"txid"`
	Link      string      `json:"link"`
	Hex       string      `json:"hex"`
	Fee       uint64      `json:"fee"`
	Change    uint64      `json:"change"`
	Input     *tx.UTXO    `json:"input"`
	Outputs   []tx.Output `json:"outputs"`
	HasChange bool        `json:"has_change"` // last output is the change
	Broadcast bool        `json:"broadcast"`
}

// Send transfers req from id. The change goes back to id.Address, or to the
// address derived from id.Mnemonic when id.Address is empty.
//
// Errors from every stage are returned wrapped; nothing is retried.
func (s *Sender) Send(ctx context.Context, id wallet.Identity, req tx.TransferRequest, opts Options) (*Result, error) {
	if s.Chain == nil {
		return nil, fmt.Errorf("%w: chain service", ErrNilParam)
	}
	net := s.Network
	if net == nil {
		net = &wallet.MainNet
	}
	logger := s.logger().With().Str("network", net.Name).Logger()

	res, err := s.send(ctx, net, logger, id, req, opts)
	switch {
	case err == nil && opts.DryRun:
		s.Metrics.RecordSend(metrics.OutcomeDryRun, res.Fee)
	case err == nil:
		s.Metrics.RecordSend(metrics.OutcomeSuccess, res.Fee)
		logger.Info().Str("txid", res.TxID).Uint64("fee", res.Fee).
			Int("outputs", len(res.Outputs)).Msg("transaction broadcast")
	case errors.Is(err, network.ErrBroadcastRejected):
		s.Metrics.RecordSend(metrics.OutcomeRejected, 0)
		logger.Warn().Err(err).Msg("broadcast rejected")
	default:
		s.Metrics.RecordSend(metrics.OutcomeError, 0)
		logger.Debug().Err(err).Msg("send failed")
	}
	return res, err
}

func (s *Sender) send(ctx context.Context, net *wallet.Network, logger zerolog.Logger,
	id wallet.Identity, req tx.TransferRequest, opts Options) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var total uint64
	for i, amt := range req.Amounts {
		sats, err := tx.ToSatoshis(amt)
		if err != nil {
			return nil, fmt.Errorf("send: recipient %d: %w", i, err)
		}
		if total > math.MaxUint64-sats {
			return nil, fmt.Errorf("%w: recipient total overflows", tx.ErrInvalidAmount)
		}
		total += sats
	}
	fee := tx.EstimateFee(len(req.Addresses), s.feeRate(len(req.Addresses)))
	if total > math.MaxUint64-fee {
		return nil, fmt.Errorf("%w: total plus fee overflows", tx.ErrInvalidAmount)
	}

	key, err := wallet.DeriveChangeKey(id.Mnemonic, net)
	if err != nil {
		return nil, fmt.Errorf("send: derive key: %w", err)
	}
	keyAddr, err := key.Address(net)
	if err != nil {
		return nil, fmt.Errorf("send: derive key: %w", err)
	}
	from := id.Address
	if from == "" {
		from = keyAddr
	} else if norm, err := net.NormalizeAddress(from); err != nil {
		return nil, fmt.Errorf("send: sender address: %w", err)
	} else if norm != keyAddr {
		return nil, fmt.Errorf("%w: %s", ErrAddressMismatch, from)
	}
	logger = logger.With().Str("from", from).Logger()

	// Balance pre-flight.
	start := time.Now()
	balance, err := s.Chain.Balance(ctx, from)
	s.Metrics.ObserveStage(StageBalance, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("send: balance: %w", err)
	}
	if !balance.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrZeroBalance, from)
	}
	logger.Debug().Str("balance", balance.String()).Msg("balance checked")

	// UTXO fetch and selection.
	start = time.Now()
	utxos, err := s.Chain.ListUnspent(ctx, from)
	s.Metrics.ObserveStage(StageUTXOs, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("send: list unspent: %w", err)
	}

	selector := s.Selector
	if selector == nil {
		selector = tx.LargestFirst
	}
	utxo, err := selector.Select(utxos, total+fee)
	if err != nil {
		return nil, fmt.Errorf("send: select utxo: %w", err)
	}
	utxo, err = withLockingScript(utxo, key.PubKeyHash())
	if err != nil {
		return nil, fmt.Errorf("send: select utxo: %w", err)
	}
	logger.Debug().Str("utxo", utxo.Outpoint()).Uint64("amount", utxo.Amount).
		Uint64("fee", fee).Msg("utxo selected")

	// Build, sign and serialize.
	start = time.Now()
	utx, err := tx.Build(utxo, req, fee, from, net, tx.WithChangePolicy(s.ChangePolicy))
	s.Metrics.ObserveStage(StageBuild, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("send: build: %w", err)
	}

	start = time.Now()
	signed, err := tx.Sign(utx, key.PrivateKey, tx.DefaultSighash)
	s.Metrics.ObserveStage(StageSign, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("send: sign: %w", err)
	}
	rawHex := tx.Serialize(signed)
	logger.Debug().Str("txid", signed.TxID).Int("size", signed.Size()).Msg("transaction signed")

	res := &Result{
		TxID:    signed.TxID,
		Link:    net.TxLink(signed.TxID),
		Hex:     rawHex,
		Fee:     utx.Fee,
		Input:   utx.Input,
		Outputs: utx.Outputs,
	}
	if change := utx.Change(); change != nil {
		res.Change = change.Amount
		res.HasChange = true
	}
	if opts.DryRun {
		return res, nil
	}

	start = time.Now()
	txid, err := s.Chain.BroadcastTx(ctx, rawHex)
	s.Metrics.ObserveStage(StageBroadcast, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("send: broadcast %s: %w", signed.TxID, err)
	}
	if txid != "" && txid != signed.TxID {
		logger.Warn().Str("txid", signed.TxID).Str("reported", txid).
			Msg("node reported a different txid")
	}
	res.Broadcast = true
	return res, nil
}

func (s *Sender) feeRate(recipients int) float64 {
	if s.FeeRate > 0 {
		return s.FeeRate
	}
	return tx.RecipientFeeRate(recipients)
}

func (s *Sender) logger() zerolog.Logger {
	if s.Logger != nil {
		return *s.Logger
	}
	return blog.Send
}

// withLockingScript returns u with its P2PKH locking script filled in from
// pkh when the backend did not report one. u itself is not modified.
func withLockingScript(u *tx.UTXO, pkh []byte) (*tx.UTXO, error) {
	if len(u.ScriptPubKey) > 0 {
		return u, nil
	}
	script, err := tx.BuildP2PKHScript(pkh)
	if err != nil {
		return nil, err
	}
	cp := *u
	cp.ScriptPubKey = script
	return &cp, nil
}
