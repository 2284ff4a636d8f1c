package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// BenchmarkPrices are the external USD prices of the native and benchmark assets.
type BenchmarkPrices struct {
	ETHUSD decimal.Decimal `json:"ethUsd"`
	BTCUSD decimal.Decimal `json:"btcUsd"`
}

// OraclePrice is one raw price reported by the on-chain price feed,
// scaled by the quote asset's decimals.
type OraclePrice struct {
	Token Token
	Raw   *big.Int
}

// OracleQuotes is a price feed snapshot: every price is expressed in QuoteAsset.
type OracleQuotes struct {
	QuoteAsset string
	Prices     []OraclePrice
}
