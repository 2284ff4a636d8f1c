package melon

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jgrizzled/melon-list/internal/domain"
)

var (
	versionAddr     = addr(0x1001)
	rankingAddr     = addr(0x1002)
	priceSourceAddr = addr(0x1003)
)

func newTestClient(t *testing.T, chain *fakeChain) *Client {
	t.Helper()
	c, err := NewClient(chain, Addresses{
		Version:     versionAddr.Hex(),
		Ranking:     rankingAddr.Hex(),
		PriceSource: priceSourceAddr.Hex(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRejectsInvalidAddress(t *testing.T) {
	_, err := NewClient(newFakeChain(), Addresses{
		Version:     versionAddr.Hex(),
		Ranking:     "not-an-address",
		PriceSource: priceSourceAddr.Hex(),
	})
	if err == nil {
		t.Fatal("expected error for invalid ranking address")
	}
}

func TestFundDetails(t *testing.T) {
	chain := newFakeChain()
	var gotVersion common.Address
	chain.register(rankingAddr, fundRankingABI, map[string]fakeMethod{
		"getFundDetails": func(args []any) []any {
			gotVersion = args[0].(common.Address)
			return []any{
				[]common.Address{addr(1), addr(2)},
				[]*big.Int{big.NewInt(100), big.NewInt(200)},
				[]*big.Int{big.NewInt(1546300800), big.NewInt(1546387200)},
				[][32]byte{name32("Alpha Fund"), name32("Beta")},
				[]common.Address{addr(10), addr(11)},
			}
		},
	})
	c := newTestClient(t, chain)

	entries, err := c.FundDetails(context.Background())
	if err != nil {
		t.Fatalf("FundDetails: %v", err)
	}
	if gotVersion != versionAddr {
		t.Errorf("version arg = %s, want %s", gotVersion.Hex(), versionAddr.Hex())
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "Alpha Fund" {
		t.Errorf("Name = %q, want NUL padding trimmed", entries[0].Name)
	}
	if entries[1].Hub != addr(2) || entries[1].DenominationAsset != addr(11) {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[1].SharePrice.Cmp(big.NewInt(200)) != 0 {
		t.Errorf("SharePrice = %s, want 200", entries[1].SharePrice)
	}
}

func TestFundDetailsMisalignedArrays(t *testing.T) {
	chain := newFakeChain()
	chain.register(rankingAddr, fundRankingABI, map[string]fakeMethod{
		"getFundDetails": returns(
			[]common.Address{addr(1), addr(2)},
			[]*big.Int{big.NewInt(100)},
			[]*big.Int{big.NewInt(1), big.NewInt(2)},
			[][32]byte{name32("A"), name32("B")},
			[]common.Address{addr(10), addr(11)},
		),
	})
	c := newTestClient(t, chain)

	_, err := c.FundDetails(context.Background())
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestFundGavs(t *testing.T) {
	chain := newFakeChain()
	chain.register(rankingAddr, fundRankingABI, map[string]fakeMethod{
		"getFundGavs": returns(
			[]common.Address{addr(1), addr(2)},
			[]*big.Int{big.NewInt(5), big.NewInt(7)},
		),
	})
	c := newTestClient(t, chain)

	entries, err := c.FundGavs(context.Background())
	if err != nil {
		t.Fatalf("FundGavs: %v", err)
	}
	if len(entries) != 2 || entries[1].GAV.Cmp(big.NewInt(7)) != 0 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestCallTransportErrorIsDataUnavailable(t *testing.T) {
	chain := newFakeChain()
	chain.register(rankingAddr, fundRankingABI, map[string]fakeMethod{})
	chain.failures["getFundGavs"] = errors.New("connection refused")
	c := newTestClient(t, chain)

	_, err := c.FundGavs(context.Background())
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCallMissingContractIsDataUnavailable(t *testing.T) {
	c := newTestClient(t, newFakeChain())

	_, err := c.Routes(context.Background(), addr(99))
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for empty return data, got %v", err)
	}
}

func TestFetchOracleQuotes(t *testing.T) {
	weth, _ := domain.TokenBySymbol("WETH")
	wbtc, _ := domain.TokenBySymbol("WBTC")
	mln, _ := domain.TokenBySymbol("MLN")

	chain := newFakeChain()
	var requested []common.Address
	chain.register(priceSourceAddr, priceSourceABI, map[string]fakeMethod{
		"getQuoteAsset": returns(common.HexToAddress(weth.Address)),
		"getPrices": func(args []any) []any {
			requested = args[0].([]common.Address)
			prices := make([]*big.Int, len(requested))
			times := make([]*big.Int, len(requested))
			for i := range requested {
				prices[i] = big.NewInt(int64(i + 1))
				times[i] = big.NewInt(0)
			}
			return []any{prices, times}
		},
	})
	c := newTestClient(t, chain)

	quotes, err := c.FetchOracleQuotes(context.Background(), []domain.Token{wbtc, mln})
	if err != nil {
		t.Fatalf("FetchOracleQuotes: %v", err)
	}
	if !common.IsHexAddress(quotes.QuoteAsset) || common.HexToAddress(quotes.QuoteAsset) != common.HexToAddress(weth.Address) {
		t.Errorf("QuoteAsset = %s, want %s", quotes.QuoteAsset, weth.Address)
	}
	if len(requested) != 2 || requested[0] != common.HexToAddress(wbtc.Address) {
		t.Errorf("requested = %v", requested)
	}
	if len(quotes.Prices) != 2 {
		t.Fatalf("got %d prices, want 2", len(quotes.Prices))
	}
	if quotes.Prices[1].Token.Symbol != "MLN" || quotes.Prices[1].Raw.Cmp(big.NewInt(2)) != 0 {
		t.Errorf("Prices[1] = %+v", quotes.Prices[1])
	}
}

func TestFetchOracleQuotesFailsWhenEitherReadFails(t *testing.T) {
	wbtc, _ := domain.TokenBySymbol("WBTC")

	chain := newFakeChain()
	chain.register(priceSourceAddr, priceSourceABI, map[string]fakeMethod{
		"getQuoteAsset": returns(addr(1)),
		"getPrices":     returns([]*big.Int{big.NewInt(1)}, []*big.Int{big.NewInt(0)}),
	})
	chain.failures["getQuoteAsset"] = errors.New("timeout")
	c := newTestClient(t, chain)

	_, err := c.FetchOracleQuotes(context.Background(), []domain.Token{wbtc})
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestPricesLengthMismatch(t *testing.T) {
	chain := newFakeChain()
	chain.register(priceSourceAddr, priceSourceABI, map[string]fakeMethod{
		"getPrices": returns([]*big.Int{big.NewInt(1)}, []*big.Int{big.NewInt(0)}),
	})
	c := newTestClient(t, chain)

	_, err := c.Prices(context.Background(), []common.Address{addr(1), addr(2)})
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
