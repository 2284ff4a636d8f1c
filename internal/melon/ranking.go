package melon

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// RankingEntry is one fund as reported by FundRanking.getFundDetails.
type RankingEntry struct {
	Hub               common.Address
	SharePrice        *big.Int
	CreationTime      *big.Int
	Name              string
	DenominationAsset common.Address
}

// GavEntry is one fund as reported by FundRanking.getFundGavs.
type GavEntry struct {
	Hub common.Address
	GAV *big.Int
}

// FundDetails reads the per-fund summary arrays for the configured version.
func (c *Client) FundDetails(ctx context.Context) ([]RankingEntry, error) {
	values, err := call(ctx, c.caller, c.ranking, fundRankingABI, "getFundDetails", c.version)
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("getFundDetails: got %d outputs: %w", len(values), domain.ErrDataUnavailable)
	}
	hubs, err := asAddresses(values[0])
	if err != nil {
		return nil, fmt.Errorf("getFundDetails addresses: %w", err)
	}
	sharePrices, err := asBigInts(values[1])
	if err != nil {
		return nil, fmt.Errorf("getFundDetails share prices: %w", err)
	}
	creationTimes, err := asBigInts(values[2])
	if err != nil {
		return nil, fmt.Errorf("getFundDetails creation times: %w", err)
	}
	names, err := asBytes32s(values[3])
	if err != nil {
		return nil, fmt.Errorf("getFundDetails names: %w", err)
	}
	denominations, err := asAddresses(values[4])
	if err != nil {
		return nil, fmt.Errorf("getFundDetails denomination assets: %w", err)
	}

	n := len(hubs)
	if len(sharePrices) != n || len(creationTimes) != n || len(names) != n || len(denominations) != n {
		return nil, fmt.Errorf("getFundDetails: misaligned arrays (%d, %d, %d, %d, %d): %w",
			n, len(sharePrices), len(creationTimes), len(names), len(denominations), domain.ErrDataUnavailable)
	}

	entries := make([]RankingEntry, n)
	for i := range hubs {
		entries[i] = RankingEntry{
			Hub:               hubs[i],
			SharePrice:        sharePrices[i],
			CreationTime:      creationTimes[i],
			Name:              bytes32ToString(names[i]),
			DenominationAsset: denominations[i],
		}
	}
	return entries, nil
}

// FundGavs reads the per-fund gross asset values for the configured version.
func (c *Client) FundGavs(ctx context.Context) ([]GavEntry, error) {
	values, err := call(ctx, c.caller, c.ranking, fundRankingABI, "getFundGavs", c.version)
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("getFundGavs: got %d outputs: %w", len(values), domain.ErrDataUnavailable)
	}
	hubs, err := asAddresses(values[0])
	if err != nil {
		return nil, fmt.Errorf("getFundGavs addresses: %w", err)
	}
	gavs, err := asBigInts(values[1])
	if err != nil {
		return nil, fmt.Errorf("getFundGavs values: %w", err)
	}
	if len(gavs) != len(hubs) {
		return nil, fmt.Errorf("getFundGavs: misaligned arrays (%d, %d): %w", len(hubs), len(gavs), domain.ErrDataUnavailable)
	}

	entries := make([]GavEntry, len(hubs))
	for i := range hubs {
		entries[i] = GavEntry{Hub: hubs[i], GAV: gavs[i]}
	}
	return entries, nil
}
