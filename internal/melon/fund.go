package melon

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// Fee indices registered on every v1 fee manager.
const (
	managementFeeIndex  = 0
	performanceFeeIndex = 1
)

// Routes are the component contracts of one fund hub.
type Routes struct {
	Accounting    common.Address
	FeeManager    common.Address
	Participation common.Address
	PolicyManager common.Address
	Shares        common.Address
	Trading       common.Address
	Vault         common.Address
	Registry      common.Address
	Version       common.Address
	Engine        common.Address
	MlnToken      common.Address
}

// Calculations are the raw outputs of Accounting.performCalculations.
type Calculations struct {
	GAV                         *big.Int
	FeesInDenominationAsset     *big.Int
	FeesInShares                *big.Int
	NAV                         *big.Int
	SharePrice                  *big.Int
	GAVPerShareNetManagementFee *big.Int
}

// RawHolding is an undecoded asset balance held by a fund.
type RawHolding struct {
	Asset  common.Address
	Amount *big.Int
}

// ExchangeInfo is one exchange adapter registered on a fund's trading component.
type ExchangeInfo struct {
	Exchange     common.Address
	Adapter      common.Address
	TakesCustody bool
}

// Routes resolves the component addresses of a fund hub.
func (c *Client) Routes(ctx context.Context, hub common.Address) (Routes, error) {
	values, err := call(ctx, c.caller, hub, hubABI, "routes")
	if err != nil {
		return Routes{}, err
	}
	if len(values) != 11 {
		return Routes{}, fmt.Errorf("routes: got %d outputs: %w", len(values), domain.ErrDataUnavailable)
	}
	addrs := make([]common.Address, len(values))
	for i, v := range values {
		if addrs[i], err = asAddress(v); err != nil {
			return Routes{}, fmt.Errorf("routes output %d: %w", i, err)
		}
	}
	return Routes{
		Accounting:    addrs[0],
		FeeManager:    addrs[1],
		Participation: addrs[2],
		PolicyManager: addrs[3],
		Shares:        addrs[4],
		Trading:       addrs[5],
		Vault:         addrs[6],
		Registry:      addrs[7],
		Version:       addrs[8],
		Engine:        addrs[9],
		MlnToken:      addrs[10],
	}, nil
}

// FundHoldings returns every asset the fund tracks with its raw balance.
func (c *Client) FundHoldings(ctx context.Context, accounting common.Address) ([]RawHolding, error) {
	values, err := call(ctx, c.caller, accounting, accountingABI, "getFundHoldings")
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("getFundHoldings: got %d outputs: %w", len(values), domain.ErrDataUnavailable)
	}
	amounts, err := asBigInts(values[0])
	if err != nil {
		return nil, fmt.Errorf("getFundHoldings amounts: %w", err)
	}
	assets, err := asAddresses(values[1])
	if err != nil {
		return nil, fmt.Errorf("getFundHoldings assets: %w", err)
	}
	if len(amounts) != len(assets) {
		return nil, fmt.Errorf("getFundHoldings: misaligned arrays (%d, %d): %w", len(amounts), len(assets), domain.ErrDataUnavailable)
	}
	out := make([]RawHolding, len(assets))
	for i := range assets {
		out[i] = RawHolding{Asset: assets[i], Amount: amounts[i]}
	}
	return out, nil
}

// Calculations returns the fund's current accounting figures.
func (c *Client) Calculations(ctx context.Context, accounting common.Address) (Calculations, error) {
	values, err := call(ctx, c.caller, accounting, accountingABI, "performCalculations")
	if err != nil {
		return Calculations{}, err
	}
	if len(values) != 6 {
		return Calculations{}, fmt.Errorf("performCalculations: got %d outputs: %w", len(values), domain.ErrDataUnavailable)
	}
	ints := make([]*big.Int, len(values))
	for i, v := range values {
		if ints[i], err = asBigInt(v); err != nil {
			return Calculations{}, fmt.Errorf("performCalculations output %d: %w", i, err)
		}
	}
	return Calculations{
		GAV:                         ints[0],
		FeesInDenominationAsset:     ints[1],
		FeesInShares:                ints[2],
		NAV:                         ints[3],
		SharePrice:                  ints[4],
		GAVPerShareNetManagementFee: ints[5],
	}, nil
}

// ShareDecimals returns the decimals of the fund's share token.
func (c *Client) ShareDecimals(ctx context.Context, shares common.Address) (uint8, error) {
	values, err := call(ctx, c.caller, shares, sharesABI, "decimals")
	if err != nil {
		return 0, err
	}
	v, err := valueAt(values, 0, "decimals")
	if err != nil {
		return 0, err
	}
	return asUint8(v)
}

// ShareBalance returns owner's raw share balance.
func (c *Client) ShareBalance(ctx context.Context, shares, owner common.Address) (*big.Int, error) {
	values, err := call(ctx, c.caller, shares, sharesABI, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	v, err := valueAt(values, 0, "balanceOf")
	if err != nil {
		return nil, err
	}
	return asBigInt(v)
}

// HistoricalInvestors returns every address that has ever held shares.
func (c *Client) HistoricalInvestors(ctx context.Context, participation common.Address) ([]common.Address, error) {
	values, err := call(ctx, c.caller, participation, participationABI, "getHistoricalInvestors")
	if err != nil {
		return nil, err
	}
	v, err := valueAt(values, 0, "getHistoricalInvestors")
	if err != nil {
		return nil, err
	}
	return asAddresses(v)
}

// ManagementFeeRate returns the raw management fee rate configured for the fee manager.
func (c *Client) ManagementFeeRate(ctx context.Context, feeManager common.Address) (*big.Int, error) {
	return c.feeRate(ctx, feeManager, managementFeeIndex, managementFeeABI, "managementFeeRate")
}

// PerformanceFeeRate returns the raw performance fee rate configured for the fee manager.
func (c *Client) PerformanceFeeRate(ctx context.Context, feeManager common.Address) (*big.Int, error) {
	return c.feeRate(ctx, feeManager, performanceFeeIndex, performanceFeeABI, "performanceFeeRate")
}

// feeRate resolves the fee contract at index, then reads its rate keyed by the fee manager.
func (c *Client) feeRate(ctx context.Context, feeManager common.Address, index int64, def *lazyABI, method string) (*big.Int, error) {
	values, err := call(ctx, c.caller, feeManager, feeManagerABI, "fees", big.NewInt(index))
	if err != nil {
		return nil, err
	}
	v, err := valueAt(values, 0, "fees")
	if err != nil {
		return nil, err
	}
	feeContract, err := asAddress(v)
	if err != nil {
		return nil, fmt.Errorf("fees(%d): %w", index, err)
	}

	values, err = call(ctx, c.caller, feeContract, def, method, feeManager)
	if err != nil {
		return nil, err
	}
	if v, err = valueAt(values, 0, method); err != nil {
		return nil, err
	}
	return asBigInt(v)
}

// ExchangeInfo returns the exchanges the fund may trade on.
func (c *Client) ExchangeInfo(ctx context.Context, trading common.Address) ([]ExchangeInfo, error) {
	values, err := call(ctx, c.caller, trading, tradingABI, "getExchangeInfo")
	if err != nil {
		return nil, err
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("getExchangeInfo: got %d outputs: %w", len(values), domain.ErrDataUnavailable)
	}
	exchanges, err := asAddresses(values[0])
	if err != nil {
		return nil, fmt.Errorf("getExchangeInfo exchanges: %w", err)
	}
	adapters, err := asAddresses(values[1])
	if err != nil {
		return nil, fmt.Errorf("getExchangeInfo adapters: %w", err)
	}
	custody, err := asBools(values[2])
	if err != nil {
		return nil, fmt.Errorf("getExchangeInfo custody flags: %w", err)
	}
	if len(adapters) != len(exchanges) || len(custody) != len(exchanges) {
		return nil, fmt.Errorf("getExchangeInfo: misaligned arrays: %w", domain.ErrDataUnavailable)
	}
	out := make([]ExchangeInfo, len(exchanges))
	for i := range exchanges {
		out[i] = ExchangeInfo{Exchange: exchanges[i], Adapter: adapters[i], TakesCustody: custody[i]}
	}
	return out, nil
}
