package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Token describes an ERC-20 asset known to the Melon deployment.
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Canonical symbols used as exchange-rate keys.
const (
	SymbolETH = "ETH"
	SymbolBTC = "BTC"
	SymbolUSD = "USD"
)

// tokenRegistry mirrors the Melon mainnet deployment's token list.
// Unexported to prevent external mutation; use Tokens for a copy.
var tokenRegistry = []Token{
	{Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Decimals: 18},
	{Address: "0xec67005c4E498Ec7f55E092bd1d35cbC47C91892", Symbol: "MLN", Decimals: 18},
	{Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Symbol: "WBTC", Decimals: 8},
	{Address: "0x8dAEBADE922dF735c38C80C7eBD708Af50815fAa", Symbol: "TBTC", Decimals: 18},
	{Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Symbol: "DAI", Decimals: 18},
	{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Decimals: 6},
	{Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Symbol: "USDT", Decimals: 6},
	{Address: "0x056Fd409E1d7A124BD7017459dFEa2F387b6d5Cd", Symbol: "GUSD", Decimals: 2},
	{Address: "0x8E870D67F660D95d5be530380D0eC0bd388289E1", Symbol: "PAX", Decimals: 18},
	{Address: "0x0D8775F648430679A709E98d2b0Cb6250d2887EF", Symbol: "BAT", Decimals: 18},
	{Address: "0xE41d2489571d322189246DaFA5ebDe1F4699F498", Symbol: "ZRX", Decimals: 18},
	{Address: "0xdd974D5C2e2928deA5F71b9825b8b646686BD200", Symbol: "KNC", Decimals: 18},
	{Address: "0x1985365e9f78359a9B6AD760e32412f4a445E862", Symbol: "REP", Decimals: 18},
	{Address: "0x9f8F72aA9304c8B593d555F12eF6589cC3A579A2", Symbol: "MKR", Decimals: 18},
	{Address: "0x514910771AF9Ca656af840dff83E8264EcF986CA", Symbol: "LINK", Decimals: 18},
	{Address: "0x960b236A07cf122663c4303350609A66A7B288C0", Symbol: "ANT", Decimals: 18},
	{Address: "0x408e41876cCCDC0F92210600ef50372656052a38", Symbol: "REN", Decimals: 18},
}

// symbolAliases collapses wrapped, bridged and dollar-pegged variants onto one key.
var symbolAliases = map[string]string{
	"WBTC": SymbolBTC,
	"TBTC": SymbolBTC,
	"WETH": SymbolETH,
	"DAI":  SymbolUSD,
	"USDC": SymbolUSD,
	"USDT": SymbolUSD,
	"GUSD": SymbolUSD,
	"PAX":  SymbolUSD,
}

// Tokens returns a copy of the registry.
func Tokens() []Token {
	out := make([]Token, len(tokenRegistry))
	copy(out, tokenRegistry)
	return out
}

// TokenByAddress looks up a token by contract address, ignoring case.
func TokenByAddress(address string) (Token, error) {
	token, ok := lo.Find(tokenRegistry, func(t Token) bool {
		return strings.EqualFold(t.Address, address)
	})
	if !ok {
		return Token{}, fmt.Errorf("token address %s: %w", address, ErrTokenNotFound)
	}
	return token, nil
}

// TokenBySymbol looks up a token by symbol, ignoring case.
// The native and benchmark names resolve to their wrapped ERC-20 tokens.
func TokenBySymbol(symbol string) (Token, error) {
	wanted := symbol
	switch strings.ToUpper(symbol) {
	case SymbolBTC:
		wanted = "WBTC"
	case SymbolETH:
		wanted = "WETH"
	}
	token, ok := lo.Find(tokenRegistry, func(t Token) bool {
		return strings.EqualFold(t.Symbol, wanted)
	})
	if !ok {
		return Token{}, fmt.Errorf("token symbol %s: %w", symbol, ErrTokenNotFound)
	}
	return token, nil
}

// NormalizeSymbol maps a raw symbol onto its exchange-rate key.
func NormalizeSymbol(symbol string) string {
	upper := strings.ToUpper(symbol)
	if canonical, ok := symbolAliases[upper]; ok {
		return canonical
	}
	return upper
}

// DisplaySymbols are the currencies a listing can be rendered in.
var DisplaySymbols = []string{SymbolETH, SymbolBTC, SymbolUSD}

// IsDisplaySymbol reports whether symbol is a supported display currency.
func IsDisplaySymbol(symbol string) bool {
	return lo.Contains(DisplaySymbols, strings.ToUpper(symbol))
}
