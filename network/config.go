package network

import (
	"fmt"
	"strings"
	"time"

	"github.com/bitfsorg/libbchsend-go/wallet"
)

// Backend names.
const (
	BackendREST = "rest"
	BackendRPC  = "rpc"
)

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config holds the connection parameters for a chain backend.
type Config struct {
	Backend  string        `json:"backend"`
	URL      string        `json:"url"`
	User     string        `json:"user"`
	Password string        `json:"password"`
	Network  string        `json:"network"`
	Timeout  time.Duration `json:"timeout"`
}

// NetworkPresets contains the default REST endpoints for known networks.
// A node RPC backend has no preset and always needs an explicit URL.
var NetworkPresets = map[string]Config{
	wallet.MainNet.Name: {Backend: BackendREST, URL: wallet.MainNet.RESTURL},
	wallet.TestNet.Name: {Backend: BackendREST, URL: wallet.TestNet.RESTURL},
}

// ResolveConfig merges explicit settings over the network preset.
// Environment variables are applied to the settings by the config package
// before they reach here, so flags carries the already-merged values.
//  1. flags (highest priority)
//  2. Network presets (lowest priority, REST only)
func ResolveConfig(flags *Config, network string) (*Config, error) {
	result := Config{Network: network}

	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}
	presetURL := result.URL

	if flags != nil {
		if flags.Backend != "" {
			result.Backend = flags.Backend
		}
		if flags.URL != "" {
			result.URL = flags.URL
		}
		if flags.User != "" {
			result.User = flags.User
		}
		if flags.Password != "" {
			result.Password = flags.Password
		}
		if flags.Timeout != 0 {
			result.Timeout = flags.Timeout
		}
	}

	result.Backend = strings.ToLower(strings.TrimSpace(result.Backend))
	if result.Backend == "" {
		result.Backend = BackendREST
	}

	switch result.Backend {
	case BackendREST:
	case BackendRPC:
		// The REST preset URL never addresses a node.
		if result.URL == presetURL {
			result.URL = ""
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, result.Backend)
	}

	if result.URL == "" {
		return nil, fmt.Errorf("network: %s %s backend requires an explicit URL (set --node-url, BCHSEND_NODE_URL, or config file)",
			network, result.Backend)
	}
	if result.Timeout == 0 {
		result.Timeout = DefaultTimeout
	}

	return &result, nil
}

// NewChainService returns the client for cfg.Backend.
func NewChainService(cfg *Config) (ChainService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrUnknownBackend)
	}
	switch cfg.Backend {
	case BackendREST, "":
		return NewRESTClient(*cfg), nil
	case BackendRPC:
		return NewRPCClient(*cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
