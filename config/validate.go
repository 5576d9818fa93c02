// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/bitfsorg/libbchsend-go/tx"
	"github.com/bitfsorg/libbchsend-go/wallet"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if _, err := wallet.GetNetwork(cfg.Network); err != nil {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	switch strings.ToLower(cfg.Backend) {
	case "rest", "rpc":
	default:
		return ErrInvalidBackend
	}

	if cfg.FeeRate < 0 || math.IsNaN(cfg.FeeRate) || math.IsInf(cfg.FeeRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFeeRate, cfg.FeeRate)
	}

	if _, err := tx.SelectorByName(cfg.Selector); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSelector, err)
	}

	if _, err := tx.ParseChangePolicy(cfg.ChangePolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChangePolicy, err)
	}

	return nil
}
