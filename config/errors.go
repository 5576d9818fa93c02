// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\" or \"testnet\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidBackend indicates the backend is neither "rest" nor "rpc".
	ErrInvalidBackend = errors.New("config: invalid backend (must be \"rest\" or \"rpc\")")

	// ErrInvalidFeeRate indicates a negative or non-numeric fee rate.
	ErrInvalidFeeRate = errors.New("config: invalid fee rate")

	// ErrInvalidSelector indicates an unknown UTXO selector name.
	ErrInvalidSelector = errors.New("config: invalid selector")

	// ErrInvalidChangePolicy indicates an unknown change policy.
	ErrInvalidChangePolicy = errors.New("config: invalid change policy")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
