package external

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// MessariClient fetches benchmark USD prices from the Messari asset metrics API.
type MessariClient struct {
	baseURL string
	fetcher *fetcher
}

// NewMessariClient creates a Messari client rooted at baseURL (e.g. https://data.messari.io/api/v1).
func NewMessariClient(baseURL string, opts HTTPOptions) *MessariClient {
	return &MessariClient{
		baseURL: baseURL,
		fetcher: newFetcher("Messari", opts),
	}
}

type messariMetrics struct {
	Data struct {
		MarketData struct {
			PriceUSD decimal.Decimal `json:"price_usd"`
		} `json:"market_data"`
	} `json:"data"`
}

// FetchBenchmarkPrices fetches the BTC and ETH USD prices concurrently.
func (c *MessariClient) FetchBenchmarkPrices(ctx context.Context) (domain.BenchmarkPrices, error) {
	var prices domain.BenchmarkPrices
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prices.BTCUSD, err = c.fetchPriceUSD(gctx, "btc")
		return err
	})
	g.Go(func() error {
		var err error
		prices.ETHUSD, err = c.fetchPriceUSD(gctx, "eth")
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.BenchmarkPrices{}, err
	}
	return prices, nil
}

func (c *MessariClient) fetchPriceUSD(ctx context.Context, asset string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/assets/%s/metrics", c.baseURL, asset)
	body, err := c.fetcher.get(ctx, url)
	if err != nil {
		return decimal.Zero, err
	}

	var metrics messariMetrics
	if err := json.Unmarshal(body, &metrics); err != nil {
		return decimal.Zero, fmt.Errorf("parsing Messari %s metrics: %w: %w", asset, domain.ErrDataUnavailable, err)
	}
	return metrics.Data.MarketData.PriceUSD, nil
}
