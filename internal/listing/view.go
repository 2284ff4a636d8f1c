package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jgrizzled/melon-list/internal/domain"
	"github.com/jgrizzled/melon-list/internal/fund"
	"github.com/jgrizzled/melon-list/internal/price"
)

// Row is one fund rendered in the display currency.
type Row struct {
	Rank              int             `json:"rank"`
	Address           string          `json:"address"`
	Name              string          `json:"name"`
	Denomination      string          `json:"denomination"`
	GAV               decimal.Decimal `json:"gav"`
	SharePrice        decimal.Decimal `json:"sharePrice"`
	GAVDisplay        string          `json:"gavDisplay"`
	SharePriceDisplay string          `json:"sharePriceDisplay"`
	CreationTime      time.Time       `json:"creationTime"`
	Created           string          `json:"created"`
}

// Listing is a rendered, filtered fund list. Funds whose values cannot be
// converted into Currency are left out and counted in Omitted.
type Listing struct {
	Currency string `json:"currency"`
	Query    string `json:"query,omitempty"`
	Total    int    `json:"total"`
	Omitted  int    `json:"omitted"`
	Rows     []Row  `json:"rows"`
}

// HoldingView is a non-zero holding rendered for display.
type HoldingView struct {
	Symbol  string          `json:"symbol"`
	Balance decimal.Decimal `json:"balance"`
	Display string          `json:"display"`
}

// DetailView is an expanded fund row.
type DetailView struct {
	Row                   Row               `json:"row"`
	NAV                   decimal.Decimal   `json:"nav"`
	NAVDisplay            string            `json:"navDisplay"`
	ManagementFeeDisplay  string            `json:"managementFee"`
	PerformanceFeeDisplay string            `json:"performanceFee"`
	TotalShares           decimal.Decimal   `json:"totalShares"`
	Investors             int               `json:"investors"`
	CurrentInvestors      int               `json:"currentInvestors"`
	Holdings              []HoldingView     `json:"holdings"`
	Exchanges             []domain.Exchange `json:"exchanges"`
	Detail                domain.FundDetail `json:"detail"`
}

// Listing renders the funds matching query in the session's display currency.
func (s *Session) Listing(ctx context.Context, query string) (Listing, error) {
	return s.ListingIn(ctx, query, s.DisplaySymbol())
}

// ListingIn renders the funds matching query in currency without changing
// the session's display currency.
func (s *Session) ListingIn(ctx context.Context, query, currency string) (Listing, error) {
	currency, err := displayCurrency(currency)
	if err != nil {
		return Listing{}, err
	}
	records, err := s.Records(ctx)
	if err != nil {
		return Listing{}, err
	}
	matches := Search(records, query)

	out := Listing{Currency: currency, Query: query, Total: len(matches), Rows: make([]Row, 0, len(matches))}
	for _, r := range matches {
		row, err := s.row(r, currency)
		if errors.Is(err, price.ErrRatesNotReady) {
			return Listing{}, err
		}
		if errors.Is(err, domain.ErrRateNotFound) {
			slog.Debug("omitting fund without exchange rate", "fund", r.Name, "denomination", r.DenominationAsset.Symbol, "currency", currency)
			out.Omitted++
			continue
		}
		if err != nil {
			return Listing{}, err
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Detail renders the expanded view of one fund in the session's display currency.
func (s *Session) Detail(ctx context.Context, address string) (DetailView, error) {
	return s.DetailIn(ctx, address, s.DisplaySymbol())
}

// DetailIn renders the expanded view of one fund in currency.
func (s *Session) DetailIn(ctx context.Context, address, currency string) (DetailView, error) {
	currency, err := displayCurrency(currency)
	if err != nil {
		return DetailView{}, err
	}
	record, detail, err := s.Expand(ctx, address)
	if err != nil {
		return DetailView{}, err
	}

	row, err := s.row(record, currency)
	if err != nil {
		return DetailView{}, err
	}
	nav, err := s.converter.Convert(detail.NAV, record.DenominationAsset.Symbol, currency)
	if err != nil {
		return DetailView{}, fmt.Errorf("converting NAV of %s: %w", record.Name, err)
	}

	return DetailView{
		Row:                   row,
		NAV:                   nav,
		NAVDisplay:            domain.FormatAmount(nav),
		ManagementFeeDisplay:  domain.FormatAmount(detail.ManagementFeeRate),
		PerformanceFeeDisplay: domain.FormatAmount(detail.PerformanceFeeRate),
		TotalShares:           fund.TotalShares(detail.Investors),
		Investors:             len(detail.Investors),
		CurrentInvestors:      fund.CurrentInvestors(detail.Investors),
		Holdings: lo.Map(fund.ActiveHoldings(detail.Holdings), func(h domain.Holding, _ int) HoldingView {
			return HoldingView{Symbol: h.Token.Symbol, Balance: h.Balance, Display: domain.FormatAmount(h.Balance)}
		}),
		Exchanges: detail.Exchanges,
		Detail:    detail,
	}, nil
}

func (s *Session) row(r domain.FundRecord, currency string) (Row, error) {
	gav, err := s.converter.Convert(r.GAV, r.DenominationAsset.Symbol, currency)
	if err != nil {
		return Row{}, fmt.Errorf("converting GAV of %s: %w", r.Name, err)
	}
	sharePrice, err := s.converter.Convert(r.SharePrice, r.DenominationAsset.Symbol, currency)
	if err != nil {
		return Row{}, fmt.Errorf("converting share price of %s: %w", r.Name, err)
	}
	return Row{
		Rank:              r.Rank,
		Address:           r.Address,
		Name:              r.Name,
		Denomination:      r.DenominationAsset.Symbol,
		GAV:               gav,
		SharePrice:        sharePrice,
		GAVDisplay:        domain.FormatAmount(gav),
		SharePriceDisplay: domain.FormatAmount(sharePrice),
		CreationTime:      r.CreationTime,
		Created:           domain.FormatDate(r.CreationTime),
	}, nil
}
