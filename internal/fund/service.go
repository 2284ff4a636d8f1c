package fund

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/jgrizzled/melon-list/internal/domain"
	"github.com/jgrizzled/melon-list/internal/melon"
)

// ErrInvalidAddress is returned for a fund address that is not a hex address.
var ErrInvalidAddress = errors.New("invalid fund address")

// investorBalanceConcurrency bounds concurrent balanceOf reads per fund.
const investorBalanceConcurrency = 8

// RegistryReader reads the fund ranking contract.
type RegistryReader interface {
	FundDetails(ctx context.Context) ([]melon.RankingEntry, error)
	FundGavs(ctx context.Context) ([]melon.GavEntry, error)
}

// ComponentReader reads the component contracts of a single fund.
type ComponentReader interface {
	Routes(ctx context.Context, hub common.Address) (melon.Routes, error)
	FundHoldings(ctx context.Context, accounting common.Address) ([]melon.RawHolding, error)
	Calculations(ctx context.Context, accounting common.Address) (melon.Calculations, error)
	ShareDecimals(ctx context.Context, shares common.Address) (uint8, error)
	ShareBalance(ctx context.Context, shares, owner common.Address) (*big.Int, error)
	HistoricalInvestors(ctx context.Context, participation common.Address) ([]common.Address, error)
	ManagementFeeRate(ctx context.Context, feeManager common.Address) (*big.Int, error)
	PerformanceFeeRate(ctx context.Context, feeManager common.Address) (*big.Int, error)
	ExchangeInfo(ctx context.Context, trading common.Address) ([]melon.ExchangeInfo, error)
}

// ChainReader is everything the aggregator reads from chain.
type ChainReader interface {
	RegistryReader
	ComponentReader
}

// Service aggregates fund records and details from the Melon contracts.
type Service struct {
	chain ChainReader
}

// NewService creates a new fund Service.
func NewService(chain ChainReader) *Service {
	if chain == nil {
		panic("fund.NewService: chain is nil")
	}
	return &Service{chain: chain}
}

// ListFunds returns every registered fund sorted by GAV, largest first.
// Funds with equal GAV keep registry order.
func (s *Service) ListFunds(ctx context.Context) ([]domain.FundRecord, error) {
	var (
		details []melon.RankingEntry
		gavs    []melon.GavEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details, err = s.chain.FundDetails(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		gavs, err = s.chain.FundGavs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reading fund ranking: %w", err)
	}

	records, err := mergeRanking(details, gavs)
	if err != nil {
		return nil, err
	}
	sortByGAV(records)

	slog.Debug("fund list loaded", "funds", len(records))
	return records, nil
}

// FetchDetail loads holdings, accounting figures, fees, investors and exchanges of one fund.
// Monetary fields are decoded with denominationDecimals; share amounts with the share token's decimals.
func (s *Service) FetchDetail(ctx context.Context, address string, denominationDecimals uint8) (domain.FundDetail, error) {
	if !common.IsHexAddress(address) {
		return domain.FundDetail{}, fmt.Errorf("%q: %w", address, ErrInvalidAddress)
	}
	hub := common.HexToAddress(address)

	routes, err := s.chain.Routes(ctx, hub)
	if err != nil {
		return domain.FundDetail{}, fmt.Errorf("resolving routes of %s: %w", address, err)
	}

	var (
		holdings      []melon.RawHolding
		calc          melon.Calculations
		shareDecimals uint8
		investors     []common.Address
		mgmtRate      *big.Int
		perfRate      *big.Int
		exchanges     []melon.ExchangeInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { holdings, err = s.chain.FundHoldings(gctx, routes.Accounting); return })
	g.Go(func() (err error) { calc, err = s.chain.Calculations(gctx, routes.Accounting); return })
	g.Go(func() (err error) { shareDecimals, err = s.chain.ShareDecimals(gctx, routes.Shares); return })
	g.Go(func() (err error) { investors, err = s.chain.HistoricalInvestors(gctx, routes.Participation); return })
	g.Go(func() (err error) { mgmtRate, err = s.chain.ManagementFeeRate(gctx, routes.FeeManager); return })
	g.Go(func() (err error) { perfRate, err = s.chain.PerformanceFeeRate(gctx, routes.FeeManager); return })
	g.Go(func() (err error) { exchanges, err = s.chain.ExchangeInfo(gctx, routes.Trading); return })
	if err := g.Wait(); err != nil {
		return domain.FundDetail{}, fmt.Errorf("reading components of %s: %w", address, err)
	}

	balances := make([]*big.Int, len(investors))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(investorBalanceConcurrency)
	for i, investor := range investors {
		g.Go(func() error {
			bal, err := s.chain.ShareBalance(gctx, routes.Shares, investor)
			if err != nil {
				return fmt.Errorf("share balance of %s: %w", investor.Hex(), err)
			}
			balances[i] = bal
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.FundDetail{}, fmt.Errorf("reading investors of %s: %w", address, err)
	}

	decodedHoldings, err := decodeHoldings(holdings)
	if err != nil {
		return domain.FundDetail{}, fmt.Errorf("decoding holdings of %s: %w", address, err)
	}

	return domain.FundDetail{
		Holdings:                    decodedHoldings,
		NAV:                         domain.DecodeAmount(calc.NAV, denominationDecimals),
		FeesInDenominationAsset:     domain.DecodeAmount(calc.FeesInDenominationAsset, denominationDecimals),
		FeesInShares:                domain.DecodeAmount(calc.FeesInShares, shareDecimals),
		GAVPerShareNetManagementFee: domain.DecodeAmount(calc.GAVPerShareNetManagementFee, denominationDecimals),
		ManagementFeeRate:           domain.DecodeAmount(mgmtRate, denominationDecimals),
		PerformanceFeeRate:          domain.DecodeAmount(perfRate, denominationDecimals),
		Investors: lo.Map(investors, func(addr common.Address, i int) domain.Investor {
			return domain.Investor{Address: addr.Hex(), Shares: domain.DecodeAmount(balances[i], shareDecimals)}
		}),
		Exchanges: lo.Map(exchanges, func(e melon.ExchangeInfo, _ int) domain.Exchange {
			return domain.Exchange{Exchange: e.Exchange.Hex(), Adapter: e.Adapter.Hex(), TakesCustody: e.TakesCustody}
		}),
	}, nil
}

func decodeHoldings(raw []melon.RawHolding) ([]domain.Holding, error) {
	out := make([]domain.Holding, 0, len(raw))
	for _, h := range raw {
		token, err := domain.TokenByAddress(h.Asset.Hex())
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Holding{Token: token, Balance: domain.DecodeAmount(h.Amount, token.Decimals)})
	}
	return out, nil
}
