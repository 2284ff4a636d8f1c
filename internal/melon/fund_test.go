package melon

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestRoutes(t *testing.T) {
	hub := addr(0x2000)
	routes := make([]any, 11)
	for i := range routes {
		routes[i] = addr(int64(0x2001 + i))
	}
	chain := newFakeChain()
	chain.register(hub, hubABI, map[string]fakeMethod{"routes": returns(routes...)})
	c := newTestClient(t, chain)

	got, err := c.Routes(context.Background(), hub)
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if got.Accounting != addr(0x2001) || got.Shares != addr(0x2005) || got.MlnToken != addr(0x200b) {
		t.Errorf("Routes = %+v", got)
	}
}

func TestFundHoldingsAndCalculations(t *testing.T) {
	accounting := addr(0x3000)
	chain := newFakeChain()
	chain.register(accounting, accountingABI, map[string]fakeMethod{
		"getFundHoldings": returns(
			[]*big.Int{big.NewInt(10), big.NewInt(0)},
			[]common.Address{addr(1), addr(2)},
		),
		"performCalculations": returns(
			big.NewInt(1), big.NewInt(2), big.NewInt(3),
			big.NewInt(4), big.NewInt(5), big.NewInt(6),
		),
	})
	c := newTestClient(t, chain)

	holdings, err := c.FundHoldings(context.Background(), accounting)
	if err != nil {
		t.Fatalf("FundHoldings: %v", err)
	}
	if len(holdings) != 2 || holdings[0].Asset != addr(1) || holdings[0].Amount.Int64() != 10 {
		t.Errorf("holdings = %+v", holdings)
	}

	calc, err := c.Calculations(context.Background(), accounting)
	if err != nil {
		t.Fatalf("Calculations: %v", err)
	}
	if calc.NAV.Int64() != 4 || calc.FeesInShares.Int64() != 3 || calc.GAVPerShareNetManagementFee.Int64() != 6 {
		t.Errorf("calc = %+v", calc)
	}
}

func TestSharesReads(t *testing.T) {
	shares := addr(0x4000)
	investor := addr(0x4001)
	chain := newFakeChain()
	chain.register(shares, sharesABI, map[string]fakeMethod{
		"decimals": returns(uint8(18)),
		"balanceOf": func(args []any) []any {
			if args[0].(common.Address) == investor {
				return []any{big.NewInt(42)}
			}
			return []any{big.NewInt(0)}
		},
	})
	c := newTestClient(t, chain)

	dec, err := c.ShareDecimals(context.Background(), shares)
	if err != nil || dec != 18 {
		t.Fatalf("ShareDecimals = %d, %v", dec, err)
	}
	bal, err := c.ShareBalance(context.Background(), shares, investor)
	if err != nil || bal.Int64() != 42 {
		t.Fatalf("ShareBalance = %v, %v", bal, err)
	}
}

func TestFeeRatesResolveFeeContractsByIndex(t *testing.T) {
	feeManager := addr(0x5000)
	mgmtFee := addr(0x5001)
	perfFee := addr(0x5002)

	chain := newFakeChain()
	chain.register(feeManager, feeManagerABI, map[string]fakeMethod{
		"fees": func(args []any) []any {
			if args[0].(*big.Int).Int64() == 0 {
				return []any{mgmtFee}
			}
			return []any{perfFee}
		},
	})
	keyedBy := func(rate int64) fakeMethod {
		return func(args []any) []any {
			if args[0].(common.Address) != feeManager {
				return []any{big.NewInt(0)}
			}
			return []any{big.NewInt(rate)}
		}
	}
	chain.register(mgmtFee, managementFeeABI, map[string]fakeMethod{"managementFeeRate": keyedBy(2)})
	chain.register(perfFee, performanceFeeABI, map[string]fakeMethod{"performanceFeeRate": keyedBy(20)})
	c := newTestClient(t, chain)

	mgmt, err := c.ManagementFeeRate(context.Background(), feeManager)
	if err != nil || mgmt.Int64() != 2 {
		t.Fatalf("ManagementFeeRate = %v, %v", mgmt, err)
	}
	perf, err := c.PerformanceFeeRate(context.Background(), feeManager)
	if err != nil || perf.Int64() != 20 {
		t.Fatalf("PerformanceFeeRate = %v, %v", perf, err)
	}
	if n := chain.callCount("fees"); n != 2 {
		t.Errorf("fees called %d times, want 2", n)
	}
}

func TestHistoricalInvestorsAndExchangeInfo(t *testing.T) {
	participation := addr(0x6000)
	trading := addr(0x6001)
	chain := newFakeChain()
	chain.register(participation, participationABI, map[string]fakeMethod{
		"getHistoricalInvestors": returns([]common.Address{addr(1), addr(2), addr(3)}),
	})
	chain.register(trading, tradingABI, map[string]fakeMethod{
		"getExchangeInfo": returns(
			[]common.Address{addr(7)},
			[]common.Address{addr(8)},
			[]bool{true},
		),
	})
	c := newTestClient(t, chain)

	investors, err := c.HistoricalInvestors(context.Background(), participation)
	if err != nil || len(investors) != 3 {
		t.Fatalf("HistoricalInvestors = %v, %v", investors, err)
	}
	exchanges, err := c.ExchangeInfo(context.Background(), trading)
	if err != nil {
		t.Fatalf("ExchangeInfo: %v", err)
	}
	if len(exchanges) != 1 || exchanges[0].Adapter != addr(8) || !exchanges[0].TakesCustody {
		t.Errorf("exchanges = %+v", exchanges)
	}
}
