package network

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkUnavailable indicates the backend could not be reached or
	// failed on its side.
	ErrNetworkUnavailable = errors.New("network: unavailable")

	// ErrAuthFailed indicates authentication (e.g., RPC credentials) was rejected.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrTxNotFound indicates the requested transaction does not exist.
	ErrTxNotFound = errors.New("network: transaction not found")

	// ErrBroadcastRejected indicates the node rejected the broadcast transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrRequestRejected indicates the backend refused a query, for example
	// because the address is malformed.
	ErrRequestRejected = errors.New("network: request rejected")

	// ErrInvalidResponse indicates the node returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrUnknownBackend indicates an unsupported backend name.
	ErrUnknownBackend = errors.New("network: unknown backend")
)

// RejectError carries the reason a node gave for refusing a transaction.
// errors.Is(err, ErrBroadcastRejected) holds for every RejectError.
type RejectError struct {
	Code   int
	Reason string
}

func (e *RejectError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("network: broadcast rejected (code %d): %s", e.Code, e.Reason)
	}
	return "network: broadcast rejected: " + e.Reason
}

// Unwrap returns ErrBroadcastRejected.
func (e *RejectError) Unwrap() error {
	return ErrBroadcastRejected
}

// RPCError is an error object returned by a JSON-RPC server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("network: rpc error %d: %s", e.Code, e.Message)
}
