package tx

import (
	"fmt"
	"math"
	"strings"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libbchsend-go/wallet"
)

// TransferRequest lists the recipients of a send. Addresses[i] receives
// Amounts[i] BCH. The same address may appear more than once.
type TransferRequest struct {
	Addresses []string          `json:"addresses"`
	Amounts   []decimal.Decimal `json:"amounts"`
}

// Validate checks that the request has recipients and aligned slices.
func (r TransferRequest) Validate() error {
	if len(r.Addresses) != len(r.Amounts) {
		return fmt.Errorf("%w: %d addresses, %d amounts",
			ErrMismatchedRecipients, len(r.Addresses), len(r.Amounts))
	}
	if len(r.Addresses) == 0 {
		return ErrNoRecipients
	}
	return nil
}

// Output is one P2PKH output of an unsigned transaction.
type Output struct {
	Address    string `json:"address"`
	PubKeyHash []byte `json:"pubkey_hash"`
	Amount     uint64 `json:"amount"` // satoshis
}

// UnsignedTx is a fully assembled, not yet signed, single-input transaction.
// Recipient outputs come first in request order; the change output, when
// present, is last.
type UnsignedTx struct {
	Input     *UTXO    `json:"input"`
	Outputs   []Output `json:"outputs"`
	Fee       uint64   `json:"fee"`
	HasChange bool     `json:"has_change"`
}

// Change returns the change output, or nil when it was omitted.
func (u *UnsignedTx) Change() *Output {
	if !u.HasChange || len(u.Outputs) == 0 {
		return nil
	}
	return &u.Outputs[len(u.Outputs)-1]
}

// TotalOut returns the sum of all output amounts.
func (u *UnsignedTx) TotalOut() uint64 {
	var total uint64
	for _, o := range u.Outputs {
		total += o.Amount
	}
	return total
}

// ChangePolicy controls whether a small change output is emitted.
type ChangePolicy int

const (
	// ChangeAlways emits the change output even when it is zero.
	ChangeAlways ChangePolicy = iota
	// ChangeOmitDust drops change below DustLimit and adds it to the fee.
	ChangeOmitDust
)

// String returns the policy name used in configuration.
func (p ChangePolicy) String() string {
	switch p {
	case ChangeAlways:
		return "always"
	case ChangeOmitDust:
		return "omit-dust"
	default:
		return fmt.Sprintf("ChangePolicy(%d)", int(p))
	}
}

// ParseChangePolicy parses "always" or "omit-dust". The empty string means
// ChangeAlways.
func ParseChangePolicy(s string) (ChangePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always":
		return ChangeAlways, nil
	case "omit-dust", "omitdust":
		return ChangeOmitDust, nil
	default:
		return ChangeAlways, fmt.Errorf("tx: unknown change policy %q", s)
	}
}

type buildOptions struct {
	changePolicy ChangePolicy
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithChangePolicy sets the change policy. The default is ChangeAlways.
func WithChangePolicy(p ChangePolicy) BuildOption {
	return func(o *buildOptions) {
		o.changePolicy = p
	}
}

// Build assembles an unsigned transaction spending utxo to the recipients of
// req, paying fee and returning the remainder to changeAddress.
//
// change = utxo.Amount - sum(recipients) - fee. A negative change fails with
// ErrInsufficientFunds and no transaction. On success the outputs plus Fee
// always equal utxo.Amount.
func Build(utxo *UTXO, req TransferRequest, fee uint64, changeAddress string,
	net *wallet.Network, opts ...BuildOption) (*UnsignedTx, error) {
	if utxo == nil {
		return nil, fmt.Errorf("%w: utxo", ErrNilParam)
	}
	if net == nil {
		net = &wallet.MainNet
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o := buildOptions{changePolicy: ChangeAlways}
	for _, opt := range opts {
		opt(&o)
	}

	outputs := make([]Output, 0, len(req.Addresses)+1)
	var total uint64
	for i, addr := range req.Addresses {
		pkh, err := net.DecodeAddress(addr)
		if err != nil {
			return nil, fmt.Errorf("%w: recipient %d: %w", ErrInvalidAddress, i, err)
		}
		sats, err := ToSatoshis(req.Amounts[i])
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, err)
		}
		if total > math.MaxUint64-sats {
			return nil, fmt.Errorf("%w: recipient total overflows", ErrInvalidAmount)
		}
		total += sats
		outputs = append(outputs, Output{Address: addr, PubKeyHash: pkh, Amount: sats})
	}

	if total > math.MaxUint64-fee {
		return nil, fmt.Errorf("%w: total plus fee overflows", ErrInvalidAmount)
	}
	needed := total + fee
	if utxo.Amount < needed {
		return nil, fmt.Errorf("%w: need %d sat, have %d sat",
			ErrInsufficientFunds, needed, utxo.Amount)
	}
	change := utxo.Amount - needed

	changePKH, err := net.DecodeAddress(changeAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: change address: %w", ErrInvalidAddress, err)
	}

	utx := &UnsignedTx{Input: utxo, Fee: fee}
	if o.changePolicy == ChangeOmitDust && change < DustLimit {
		utx.Fee += change
	} else {
		outputs = append(outputs, Output{Address: changeAddress, PubKeyHash: changePKH, Amount: change})
		utx.HasChange = true
	}
	utx.Outputs = outputs
	return utx, nil
}

// Transaction converts the unsigned transaction to a go-sdk Transaction with
// empty unlocking scripts.
func (u *UnsignedTx) Transaction() (*transaction.Transaction, error) {
	if u.Input == nil {
		return nil, fmt.Errorf("%w: input", ErrNilParam)
	}
	txHash, err := chainhash.NewHash(u.Input.TxID)
	if err != nil {
		return nil, fmt.Errorf("%w: input TxID: %w", ErrInvalidTxID, err)
	}

	sdkTx := transaction.NewTransaction()
	sdkTx.AddInput(&transaction.TransactionInput{
		SourceTXID:       txHash,
		SourceTxOutIndex: u.Input.Vout,
		SequenceNumber:   transaction.DefaultSequenceNumber,
	})

	for i, out := range u.Outputs {
		txOut, err := BuildP2PKHOutput(out.PubKeyHash, out.Amount)
		if err != nil {
			return nil, fmt.Errorf("tx: output %d: %w", i, err)
		}
		sdkTx.Outputs = append(sdkTx.Outputs, txOut)
	}
	return sdkTx, nil
}

// BuildP2PKHScript returns the P2PKH locking script bytes for a 20-byte
// public key hash.
func BuildP2PKHScript(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != wallet.PubKeyHashLen {
		return nil, fmt.Errorf("%w: pubkey hash must be %d bytes, got %d",
			ErrScriptBuild, wallet.PubKeyHashLen, len(pubKeyHash))
	}
	addr, err := script.NewAddressFromPublicKeyHash(pubKeyHash, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from hash: %w", ErrScriptBuild, err)
	}
	lockScript, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock: %w", ErrScriptBuild, err)
	}
	return []byte(*lockScript), nil
}

// BuildP2PKHOutput creates a TransactionOutput with a P2PKH locking script
// for the given public key hash and satoshi amount.
func BuildP2PKHOutput(pubKeyHash []byte, satoshis uint64) (*transaction.TransactionOutput, error) {
	lockScript, err := BuildP2PKHScript(pubKeyHash)
	if err != nil {
		return nil, err
	}
	return &transaction.TransactionOutput{
		Satoshis:      satoshis,
		LockingScript: script.NewFromBytes(lockScript),
	}, nil
}
