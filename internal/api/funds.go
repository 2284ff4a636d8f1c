package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jgrizzled/melon-list/internal/domain"
	"github.com/jgrizzled/melon-list/internal/fund"
	"github.com/jgrizzled/melon-list/internal/listing"
	"github.com/jgrizzled/melon-list/internal/price"
)

// FundLister renders the fund listing and expanded rows in a requested currency.
type FundLister interface {
	DisplaySymbol() string
	ListingIn(ctx context.Context, query, currency string) (listing.Listing, error)
	DetailIn(ctx context.Context, address, currency string) (listing.DetailView, error)
}

// RateProvider exposes the published exchange rate table.
type RateProvider interface {
	Table() (*price.Table, error)
	BuiltAt() time.Time
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// FundHandler serves the live fund listing and exchange rates.
type FundHandler struct {
	funds FundLister
	rates RateProvider
}

// NewFundHandler creates a new FundHandler.
func NewFundHandler(funds FundLister, rates RateProvider) *FundHandler {
	return &FundHandler{funds: funds, rates: rates}
}

type ratesResponse struct {
	Quote   string                                `json:"quote"`
	BuiltAt time.Time                             `json:"builtAt"`
	Symbols []string                              `json:"symbols"`
	Rates   map[string]map[string]decimal.Decimal `json:"rates"`
}

type convertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Result    decimal.Decimal `json:"result"`
	Formatted string          `json:"formatted"`
}

func (h *FundHandler) currency(r *http.Request) string {
	if c := r.URL.Query().Get("currency"); c != "" {
		return c
	}
	return h.funds.DisplaySymbol()
}

// ListFunds handles GET /api/v1/funds?q=&currency=.
func (h *FundHandler) ListFunds(w http.ResponseWriter, r *http.Request) {
	l, err := h.funds.ListingIn(r.Context(), r.URL.Query().Get("q"), h.currency(r))
	if err != nil {
		slog.Error("failed to render fund listing", "error", err)
		writeDomainError(w, err, "failed to list funds")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// GetFund handles GET /api/v1/funds/{address}?currency=.
func (h *FundHandler) GetFund(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	view, err := h.funds.DetailIn(r.Context(), address, h.currency(r))
	if err != nil {
		slog.Error("failed to render fund detail", "address", address, "error", err)
		writeDomainError(w, err, "failed to load fund")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetRates handles GET /api/v1/rates.
func (h *FundHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	table, err := h.rates.Table()
	if err != nil {
		writeDomainError(w, err, "rates unavailable")
		return
	}
	writeJSON(w, http.StatusOK, ratesResponse{
		Quote:   table.QuoteSymbol(),
		BuiltAt: h.rates.BuiltAt(),
		Symbols: table.Symbols(),
		Rates:   table.Rates(),
	})
}

// Convert handles GET /api/v1/convert?amount=&from=&to=.
func (h *FundHandler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	result, err := h.rates.Convert(amount, from, to)
	if err != nil {
		writeDomainError(w, err, "conversion failed")
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{
		Amount:    amount,
		From:      domain.NormalizeSymbol(from),
		To:        domain.NormalizeSymbol(to),
		Result:    result,
		Formatted: domain.FormatAmount(result),
	})
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, listing.ErrUnsupportedCurrency), errors.Is(err, fund.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, listing.ErrFundNotFound), errors.Is(err, domain.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, price.ErrRatesNotReady):
		writeError(w, http.StatusServiceUnavailable, "exchange rates not available yet")
	case errors.Is(err, domain.ErrRateNotFound):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrDataUnavailable):
		writeError(w, http.StatusBadGateway, "upstream data unavailable")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
