package wallet

import (
	"fmt"
	"strings"

	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
	bchcfg "github.com/gcash/bchd/chaincfg"
)

// Network defines the parameters that differ between Bitcoin Cash networks:
// extended-key versions for derivation, address encoding, and the default
// REST endpoint and explorer used for human-facing links.
type Network struct {
	Name         string `json:"name"`
	CashPrefix   string `json:"cash_prefix"`
	ExplorerBase string `json:"explorer_base"`
	RESTURL      string `json:"rest_url"`

	hdParams   *chaincfg.Params
	addrParams *bchcfg.Params
}

// Predefined networks.
var (
	MainNet = Network{
		Name:         "mainnet",
		CashPrefix:   bchcfg.MainNetParams.CashAddressPrefix,
		ExplorerBase: "https://explorer.bitcoin.com/bch",
		RESTURL:      "https://rest.bitcoin.com/v2/",
		hdParams:     &chaincfg.MainNet,
		addrParams:   &bchcfg.MainNetParams,
	}

	TestNet = Network{
		Name:         "testnet",
		CashPrefix:   bchcfg.TestNet3Params.CashAddressPrefix,
		ExplorerBase: "https://explorer.bitcoin.com/tbch",
		RESTURL:      "https://trest.bitcoin.com/v2/",
		hdParams:     &chaincfg.TestNet,
		addrParams:   &bchcfg.TestNet3Params,
	}
)

var predefined = map[string]*Network{
	"mainnet": &MainNet,
	"testnet": &TestNet,
}

// GetNetwork returns a predefined network by name.
func GetNetwork(name string) (*Network, error) {
	if net, ok := predefined[strings.ToLower(name)]; ok {
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// IsMainNet reports whether n is the production network.
func (n *Network) IsMainNet() bool {
	return n.Name == MainNet.Name
}

// TxLink returns the explorer URL for a transaction id.
func (n *Network) TxLink(txid string) string {
	return strings.TrimRight(n.ExplorerBase, "/") + "/tx/" + txid
}

func (n *Network) String() string {
	return n.Name
}
