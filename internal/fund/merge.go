package fund

import (
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/jgrizzled/melon-list/internal/domain"
	"github.com/jgrizzled/melon-list/internal/melon"
)

// mergeRanking joins the two ranking reads by index and decodes amounts with
// each fund's denomination asset decimals.
func mergeRanking(details []melon.RankingEntry, gavs []melon.GavEntry) ([]domain.FundRecord, error) {
	if len(details) != len(gavs) {
		return nil, fmt.Errorf("ranking returned %d funds but %d GAVs: %w", len(details), len(gavs), domain.ErrDataUnavailable)
	}

	records := make([]domain.FundRecord, len(details))
	for i, d := range details {
		if gavs[i].Hub != d.Hub {
			return nil, fmt.Errorf("ranking entry %d: fund %s has GAV for %s: %w", i, d.Hub.Hex(), gavs[i].Hub.Hex(), domain.ErrDataUnavailable)
		}
		denomination, err := domain.TokenByAddress(d.DenominationAsset.Hex())
		if err != nil {
			return nil, fmt.Errorf("denomination asset of fund %s: %w", d.Hub.Hex(), err)
		}
		records[i] = domain.FundRecord{
			Address:           d.Hub.Hex(),
			Name:              d.Name,
			GAV:               domain.DecodeAmount(gavs[i].GAV, denomination.Decimals),
			SharePrice:        domain.DecodeAmount(d.SharePrice, denomination.Decimals),
			CreationTime:      unixTime(d.CreationTime),
			DenominationAsset: denomination,
		}
	}
	return records, nil
}

// sortByGAV orders records by GAV descending, keeping registry order for ties,
// then numbers them from 1.
func sortByGAV(records []domain.FundRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].GAV.GreaterThan(records[j].GAV)
	})
	for i := range records {
		records[i].Rank = i + 1
	}
}

func unixTime(seconds *big.Int) time.Time {
	if seconds == nil {
		return time.Time{}
	}
	return time.Unix(seconds.Int64(), 0).UTC()
}
