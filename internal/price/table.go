package price

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// ratePrecision is the number of decimal places kept when a rate is a quotient.
const ratePrecision = 36

// Table is an immutable cross-rate table. rates[quote][base] is the value of
// one unit of base expressed in quote. Self rates are never stored.
type Table struct {
	rates       map[string]map[string]decimal.Decimal
	quoteSymbol string
}

// BuildTable combines the external benchmark prices with an oracle snapshot.
//
// The benchmark prices seed ETH, BTC and USD against each other. Oracle prices
// are stored under the oracle's normalized quote symbol, first entry per symbol
// wins. Every other row is then extended with one hop through the quote symbol:
// rates[denom][base] = rates[quote][base] * rates[denom][quote].
func BuildTable(bench domain.BenchmarkPrices, quotes domain.OracleQuotes) (*Table, error) {
	if !bench.ETHUSD.IsPositive() || !bench.BTCUSD.IsPositive() {
		return nil, fmt.Errorf("benchmark prices ETH/USD=%s BTC/USD=%s: %w",
			bench.ETHUSD, bench.BTCUSD, domain.ErrDataUnavailable)
	}

	t := &Table{rates: map[string]map[string]decimal.Decimal{
		domain.SymbolETH: {},
		domain.SymbolBTC: {},
		domain.SymbolUSD: {},
	}}

	one := decimal.NewFromInt(1)
	t.rates[domain.SymbolUSD][domain.SymbolETH] = bench.ETHUSD
	t.rates[domain.SymbolUSD][domain.SymbolBTC] = bench.BTCUSD
	t.rates[domain.SymbolETH][domain.SymbolUSD] = one.DivRound(bench.ETHUSD, ratePrecision)
	t.rates[domain.SymbolBTC][domain.SymbolUSD] = one.DivRound(bench.BTCUSD, ratePrecision)
	t.rates[domain.SymbolETH][domain.SymbolBTC] = bench.BTCUSD.DivRound(bench.ETHUSD, ratePrecision)
	t.rates[domain.SymbolBTC][domain.SymbolETH] = bench.ETHUSD.DivRound(bench.BTCUSD, ratePrecision)

	quoteToken, err := domain.TokenByAddress(quotes.QuoteAsset)
	if err != nil {
		return nil, fmt.Errorf("resolving oracle quote asset: %w", err)
	}
	hub := domain.NormalizeSymbol(quoteToken.Symbol)
	t.quoteSymbol = hub
	if _, ok := t.rates[hub]; !ok {
		t.rates[hub] = map[string]decimal.Decimal{}
	}

	for _, p := range quotes.Prices {
		priced, err := domain.TokenByAddress(p.Token.Address)
		if err != nil {
			return nil, fmt.Errorf("resolving oracle priced asset: %w", err)
		}
		symbol := domain.NormalizeSymbol(priced.Symbol)
		if symbol == hub {
			continue
		}
		if _, exists := t.rates[hub][symbol]; exists {
			continue
		}
		// The feed reports prices in the quote asset's minor units.
		rate := domain.DecodeAmount(p.Raw, quoteToken.Decimals)
		if !rate.IsPositive() {
			slog.Warn("skipping unpriced oracle asset", "symbol", priced.Symbol, "quote", quoteToken.Symbol)
			continue
		}
		t.rates[hub][symbol] = rate
	}

	for denom, row := range t.rates {
		if denom == hub {
			continue
		}
		pivot, ok := row[hub]
		if !ok {
			continue
		}
		for base, hubRate := range t.rates[hub] {
			if base == denom {
				continue
			}
			if _, exists := row[base]; exists {
				continue
			}
			row[base] = hubRate.Mul(pivot)
		}
	}

	return t, nil
}

// QuoteSymbol returns the normalized symbol the oracle prices were quoted in.
func (t *Table) QuoteSymbol() string {
	return t.quoteSymbol
}

// Rate returns the value of one unit of base expressed in quote.
func (t *Table) Rate(quote, base string) (decimal.Decimal, error) {
	quote = domain.NormalizeSymbol(quote)
	base = domain.NormalizeSymbol(base)
	if quote == base {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := t.rates[quote][base]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s in %s: %w", base, quote, domain.ErrRateNotFound)
	}
	return rate, nil
}

// Convert expresses amount of from in units of to.
// Identical normalized symbols return amount unchanged.
func (t *Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if domain.NormalizeSymbol(from) == domain.NormalizeSymbol(to) {
		return amount, nil
	}
	rate, err := t.Rate(to, from)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// Symbols returns the table's quote symbols in sorted order.
func (t *Table) Symbols() []string {
	return slices.Sorted(maps.Keys(t.rates))
}

// Rates returns a deep copy of the table.
func (t *Table) Rates() map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal, len(t.rates))
	for quote, row := range t.rates {
		out[quote] = maps.Clone(row)
	}
	return out
}
