package send

import "errors"

var (
	// ErrNilParam indicates a required collaborator is missing.
	ErrNilParam = errors.New("send: nil parameter")

	// ErrZeroBalance indicates the sender address holds no funds. No UTXO
	// query is made in that case.
	ErrZeroBalance = errors.New("send: zero balance")

	// ErrSendInProgress indicates another process holds the wallet's send
	// lock.
	ErrSendInProgress = errors.New("send: another send is in progress for this wallet")

	// ErrAddressMismatch indicates the identity address is not the one
	// derived from its mnemonic.
	ErrAddressMismatch = errors.New("send: address does not match mnemonic")
)
