package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jgrizzled/melon-list/internal/domain"
	"github.com/jgrizzled/melon-list/internal/fund"
	"github.com/jgrizzled/melon-list/internal/listing"
	"github.com/jgrizzled/melon-list/internal/price"
)

type mockBenchmarks struct{}

func (mockBenchmarks) FetchBenchmarkPrices(context.Context) (domain.BenchmarkPrices, error) {
	return domain.BenchmarkPrices{ETHUSD: decimal.NewFromInt(2000), BTCUSD: decimal.NewFromInt(30000)}, nil
}

type mockOracle struct{}

func (mockOracle) FetchOracleQuotes(context.Context, []domain.Token) (domain.OracleQuotes, error) {
	weth, _ := domain.TokenBySymbol("WETH")
	return domain.OracleQuotes{QuoteAsset: weth.Address}, nil
}

type mockFunds struct {
	records []domain.FundRecord
}

func (m *mockFunds) ListFunds(context.Context) ([]domain.FundRecord, error) {
	return m.records, nil
}

func (m *mockFunds) FetchDetail(_ context.Context, address string, _ uint8) (domain.FundDetail, error) {
	if !strings.HasPrefix(address, "0x") {
		return domain.FundDetail{}, fmt.Errorf("%q: %w", address, fund.ErrInvalidAddress)
	}
	return domain.FundDetail{NAV: decimal.NewFromInt(10)}, nil
}

const (
	wethFund = "0x00000000000000000000000000000000000000A1"
	mlnFund  = "0x00000000000000000000000000000000000000A2"
)

func testRecords(t *testing.T) []domain.FundRecord {
	t.Helper()
	weth, _ := domain.TokenBySymbol("WETH")
	mln, _ := domain.TokenBySymbol("MLN")
	created := time.Date(2019, 3, 5, 0, 0, 0, 0, time.UTC)
	return []domain.FundRecord{
		{Rank: 1, Address: wethFund, Name: "Melon Alpha", GAV: decimal.NewFromInt(100), SharePrice: decimal.NewFromInt(1), CreationTime: created, DenominationAsset: weth},
		{Rank: 2, Address: mlnFund, Name: "MLN Maxi", GAV: decimal.NewFromInt(5), SharePrice: decimal.NewFromInt(1), CreationTime: created, DenominationAsset: mln},
	}
}

func newFundHandler(t *testing.T, refresh bool) *FundHandler {
	t.Helper()
	rates := price.NewService(mockBenchmarks{}, mockOracle{})
	if refresh {
		if _, err := rates.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh: %v", err)
		}
	}
	session, err := listing.NewSession(&mockFunds{records: testRecords(t)}, rates, "ETH")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return NewFundHandler(session, rates)
}

func TestListFunds(t *testing.T) {
	handler := newFundHandler(t, true)

	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantRows    int
		wantOmitted int
		wantGAV     string
	}{
		{"default currency", "", http.StatusOK, 1, 1, "100"},
		{"usd", "?currency=usd", http.StatusOK, 1, 1, "200,000"},
		{"search", "?q=alpha&currency=BTC", http.StatusOK, 1, 0, "6.66"},
		{"no match", "?q=zzz", http.StatusOK, 0, 0, ""},
		{"unsupported currency", "?currency=EUR", http.StatusBadRequest, 0, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/funds"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.ListFunds(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var result listing.Listing
			if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
				t.Fatalf("decoding: %v", err)
			}
			if len(result.Rows) != tt.wantRows || result.Omitted != tt.wantOmitted {
				t.Fatalf("rows = %d omitted = %d", len(result.Rows), result.Omitted)
			}
			if tt.wantRows > 0 && result.Rows[0].GAVDisplay != tt.wantGAV {
				t.Errorf("GAVDisplay = %q, want %q", result.Rows[0].GAVDisplay, tt.wantGAV)
			}
		})
	}
}

func TestListFundsRatesNotReady(t *testing.T) {
	handler := newFundHandler(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/funds", nil)
	w := httptest.NewRecorder()
	handler.ListFunds(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestGetFund(t *testing.T) {
	handler := newFundHandler(t, true)

	tests := []struct {
		name    string
		address string
		query   string
		want    int
	}{
		{"found", strings.ToLower(wethFund), "?currency=USD", http.StatusOK},
		{"unknown fund", "0x00000000000000000000000000000000000000ff", "", http.StatusNotFound},
		{"unconvertible", mlnFund, "", http.StatusUnprocessableEntity},
		{"bad currency", wethFund, "?currency=DOGE", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/funds/"+tt.address+tt.query, nil)
			req.SetPathValue("address", tt.address)
			w := httptest.NewRecorder()
			handler.GetFund(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGetRates(t *testing.T) {
	handler := newFundHandler(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	w := httptest.NewRecorder()
	handler.GetRates(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var result ratesResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if result.Quote != "ETH" {
		t.Errorf("quote = %q, want ETH", result.Quote)
	}
	if got := result.Rates["USD"]["ETH"]; !got.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("USD per ETH = %s, want 2000", got)
	}
	if result.BuiltAt.IsZero() {
		t.Error("builtAt should be set")
	}
}

func TestConvert(t *testing.T) {
	handler := newFundHandler(t, true)

	tests := []struct {
		name          string
		query         string
		want          int
		wantFormatted string
	}{
		{"eth to usd", "?amount=1.5&from=weth&to=usd", http.StatusOK, "3,000"},
		{"identity", "?amount=42&from=DAI&to=USDC", http.StatusOK, "42"},
		{"unresolvable", "?amount=1&from=MLN&to=USD", http.StatusUnprocessableEntity, ""},
		{"bad amount", "?amount=abc&from=ETH&to=USD", http.StatusBadRequest, ""},
		{"missing symbol", "?amount=1&from=ETH", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/convert"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.Convert(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if tt.want != http.StatusOK {
				return
			}
			var result convertResponse
			json.NewDecoder(w.Body).Decode(&result)
			if result.Formatted != tt.wantFormatted {
				t.Errorf("formatted = %q, want %q", result.Formatted, tt.wantFormatted)
			}
		})
	}
}
