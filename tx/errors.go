package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrNoSpendableFunds indicates the candidate UTXO set is empty.
	ErrNoSpendableFunds = errors.New("tx: no spendable funds")

	// ErrInsufficientFunds indicates the selected UTXO cannot cover the
	// recipient amounts plus fee.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrInvalidAmount indicates a non-positive amount or one that is not a
	// whole number of satoshis.
	ErrInvalidAmount = errors.New("tx: invalid amount")

	// ErrInvalidAddress indicates a recipient or change address that cannot be
	// decoded as a P2PKH address on the target network.
	ErrInvalidAddress = errors.New("tx: invalid address")

	// ErrMismatchedRecipients indicates addresses and amounts differ in length.
	ErrMismatchedRecipients = errors.New("tx: addresses and amounts length mismatch")

	// ErrNoRecipients indicates a transfer request without recipients.
	ErrNoRecipients = errors.New("tx: no recipients")

	// ErrInvalidTxID indicates a transaction id that is not 32 bytes of hex.
	ErrInvalidTxID = errors.New("tx: invalid transaction id")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("tx: script build failed")

	// ErrSerialization indicates a transaction could not be encoded or decoded.
	ErrSerialization = errors.New("tx: serialization failed")

	// ErrUnknownSelector indicates an unrecognized selector name.
	ErrUnknownSelector = errors.New("tx: unknown selector")
)
