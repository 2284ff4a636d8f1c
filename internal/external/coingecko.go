package external

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// CoinGecko IDs of the benchmark assets.
const (
	coinGeckoBitcoin  = "bitcoin"
	coinGeckoEthereum = "ethereum"
)

// CoinGeckoClient fetches benchmark USD prices from the CoinGecko simple price API.
type CoinGeckoClient struct {
	baseURL string
	fetcher *fetcher
}

// NewCoinGeckoClient creates a CoinGecko client rooted at baseURL (e.g. https://api.coingecko.com/api/v3).
func NewCoinGeckoClient(baseURL string, opts HTTPOptions) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: baseURL,
		fetcher: newFetcher("CoinGecko", opts),
	}
}

// FetchBenchmarkPrices fetches the BTC and ETH USD prices in one request.
func (c *CoinGeckoClient) FetchBenchmarkPrices(ctx context.Context) (domain.BenchmarkPrices, error) {
	url := fmt.Sprintf("%s/simple/price?ids=%s,%s&vs_currencies=usd", c.baseURL, coinGeckoBitcoin, coinGeckoEthereum)

	body, err := c.fetcher.get(ctx, url)
	if err != nil {
		return domain.BenchmarkPrices{}, err
	}

	// {"bitcoin":{"usd":30000},"ethereum":{"usd":2000}}
	var raw map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.BenchmarkPrices{}, fmt.Errorf("parsing CoinGecko response: %w: %w", domain.ErrDataUnavailable, err)
	}

	btc, ok := raw[coinGeckoBitcoin]["usd"]
	if !ok {
		return domain.BenchmarkPrices{}, fmt.Errorf("CoinGecko response missing %s: %w", coinGeckoBitcoin, domain.ErrDataUnavailable)
	}
	eth, ok := raw[coinGeckoEthereum]["usd"]
	if !ok {
		return domain.BenchmarkPrices{}, fmt.Errorf("CoinGecko response missing %s: %w", coinGeckoEthereum, domain.ErrDataUnavailable)
	}
	return domain.BenchmarkPrices{ETHUSD: eth, BTCUSD: btc}, nil
}
