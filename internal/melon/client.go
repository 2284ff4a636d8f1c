package melon

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Addresses are the deployment-level Melon contracts the client reads.
type Addresses struct {
	Version     string
	Ranking     string
	PriceSource string
}

// Client reads Melon contract state through a ContractCaller.
type Client struct {
	caller      ContractCaller
	version     common.Address
	ranking     common.Address
	priceSource common.Address
}

// NewClient validates the deployment addresses and returns a client.
func NewClient(caller ContractCaller, addrs Addresses) (*Client, error) {
	if caller == nil {
		panic("melon.NewClient: caller must not be nil")
	}
	for name, addr := range map[string]string{
		"version":      addrs.Version,
		"ranking":      addrs.Ranking,
		"price source": addrs.PriceSource,
	} {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid %s address %q", name, addr)
		}
	}
	return &Client{
		caller:      caller,
		version:     common.HexToAddress(addrs.Version),
		ranking:     common.HexToAddress(addrs.Ranking),
		priceSource: common.HexToAddress(addrs.PriceSource),
	}, nil
}
