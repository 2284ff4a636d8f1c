package melon

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// QuoteAsset returns the address every price feed value is denominated in.
func (c *Client) QuoteAsset(ctx context.Context) (common.Address, error) {
	values, err := call(ctx, c.caller, c.priceSource, priceSourceABI, "getQuoteAsset")
	if err != nil {
		return common.Address{}, err
	}
	v, err := valueAt(values, 0, "getQuoteAsset")
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(v)
}

// Prices returns the raw feed price of each asset, in input order.
func (c *Client) Prices(ctx context.Context, assets []common.Address) ([]*big.Int, error) {
	values, err := call(ctx, c.caller, c.priceSource, priceSourceABI, "getPrices", assets)
	if err != nil {
		return nil, err
	}
	v, err := valueAt(values, 0, "getPrices")
	if err != nil {
		return nil, err
	}
	prices, err := asBigInts(v)
	if err != nil {
		return nil, fmt.Errorf("getPrices: %w", err)
	}
	if len(prices) != len(assets) {
		return nil, fmt.Errorf("getPrices: requested %d assets, got %d prices: %w", len(assets), len(prices), domain.ErrDataUnavailable)
	}
	return prices, nil
}

// FetchOracleQuotes reads the quote asset and the prices of tokens concurrently.
// Either read failing fails the whole snapshot.
func (c *Client) FetchOracleQuotes(ctx context.Context, tokens []domain.Token) (domain.OracleQuotes, error) {
	assets := lo.Map(tokens, func(t domain.Token, _ int) common.Address {
		return common.HexToAddress(t.Address)
	})

	var (
		quote  common.Address
		prices []*big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quote, err = c.QuoteAsset(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = c.Prices(gctx, assets)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.OracleQuotes{}, fmt.Errorf("fetching oracle quotes: %w", err)
	}

	out := domain.OracleQuotes{
		QuoteAsset: quote.Hex(),
		Prices:     make([]domain.OraclePrice, len(tokens)),
	}
	for i, token := range tokens {
		out.Prices[i] = domain.OraclePrice{Token: token, Raw: prices[i]}
	}
	return out, nil
}
