// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads bchsend settings from a key=value file and
// BCHSEND_* environment variables.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all bchsend settings. Field tags name the environment
// variables that override them.
type Config struct {
	DataDir      string  `envconfig:"BCHSEND_DATADIR"`
	Network      string  `envconfig:"BCHSEND_NETWORK"`
	LogLevel     string  `envconfig:"BCHSEND_LOG_LEVEL"`
	LogFile      string  `envconfig:"BCHSEND_LOG_FILE"`
	LogJSON      bool    `envconfig:"BCHSEND_LOG_JSON"`
	Backend      string  `envconfig:"BCHSEND_BACKEND"`
	NodeURL      string  `envconfig:"BCHSEND_NODE_URL"`
	RPCUser      string  `envconfig:"BCHSEND_RPC_USER"`
	RPCPassword  string  `envconfig:"BCHSEND_RPC_PASS"`
	FeeRate      float64 `envconfig:"BCHSEND_FEE_RATE"` // sat/byte; 0 uses one sat/byte per recipient
	Selector     string  `envconfig:"BCHSEND_SELECTOR"`
	ChangePolicy string  `envconfig:"BCHSEND_CHANGE_POLICY"`
	MetricsFile  string  `envconfig:"BCHSEND_METRICS_FILE"`
}

// DefaultDataDir returns ~/.bchsend, or .bchsend in the working directory
// when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bchsend"
	}
	return filepath.Join(home, ".bchsend")
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DataDir:      DefaultDataDir(),
		Network:      "mainnet",
		LogLevel:     "info",
		Backend:      "rest",
		Selector:     "largest",
		ChangePolicy: "always",
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// KeystorePath returns the encrypted mnemonic path inside dataDir.
func KeystorePath(dataDir string) string {
	return filepath.Join(dataDir, "wallet.enc")
}

// JournalPath returns the send journal database path inside dataDir.
func JournalPath(dataDir string) string {
	return filepath.Join(dataDir, "journal.db")
}

// LoadConfig reads a key=value config file on top of DefaultConfig.
// Blank lines and lines starting with '#' are skipped; unknown keys are
// ignored so older binaries can read newer files.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %w", ErrInvalidConfigLine, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// parseKeyValue splits "key = value" on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "network":
		c.Network = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "logjson":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("logjson: %w", err)
		}
		c.LogJSON = b
	case "backend":
		c.Backend = value
	case "nodeurl":
		c.NodeURL = value
	case "rpcuser":
		c.RPCUser = value
	case "rpcpass":
		c.RPCPassword = value
	case "feerate":
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFeeRate, err)
		}
		c.FeeRate = rate
	case "selector":
		c.Selector = value
	case "changepolicy":
		c.ChangePolicy = value
	case "metricsfile":
		c.MetricsFile = value
	}
	return nil
}

// SaveConfig writes cfg to path in the format LoadConfig reads. The parent
// directory is created if needed. The file may hold RPC credentials and is
// written with 0600 permissions.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# bchsend configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "logjson = %t\n", cfg.LogJSON)
	b.WriteString("\n# chain backend: rest or rpc\n")
	fmt.Fprintf(&b, "backend = %s\n", cfg.Backend)
	fmt.Fprintf(&b, "nodeurl = %s\n", cfg.NodeURL)
	fmt.Fprintf(&b, "rpcuser = %s\n", cfg.RPCUser)
	fmt.Fprintf(&b, "rpcpass = %s\n", cfg.RPCPassword)
	b.WriteString("\n# sending\n")
	fmt.Fprintf(&b, "feerate = %s\n", strconv.FormatFloat(cfg.FeeRate, 'f', -1, 64))
	fmt.Fprintf(&b, "selector = %s\n", cfg.Selector)
	fmt.Fprintf(&b, "changepolicy = %s\n", cfg.ChangePolicy)
	fmt.Fprintf(&b, "metricsfile = %s\n", cfg.MetricsFile)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any BCHSEND_* environment variables that are
// set. Unset variables leave the current values alone.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}
