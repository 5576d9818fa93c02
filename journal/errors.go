package journal

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("journal: required parameter is nil")

	// ErrNotFound indicates no entry exists for the txid.
	ErrNotFound = errors.New("journal: entry not found")

	// ErrDuplicate indicates an entry for the txid is already stored.
	ErrDuplicate = errors.New("journal: duplicate entry")
)
