package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jgrizzled/melon-list/internal/domain"
)

func TestMessariFetchBenchmarkPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/assets/btc/metrics":
			w.Write([]byte(`{"status": {}, "data": {"symbol": "BTC", "market_data": {"price_usd": 30000.123456789}}}`))
		case "/assets/eth/metrics":
			w.Write([]byte(`{"status": {}, "data": {"symbol": "ETH", "market_data": {"price_usd": 2000}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewMessariClient(server.URL, HTTPOptions{RequestsPerSecond: 100})
	prices, err := client.FetchBenchmarkPrices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !prices.BTCUSD.Equal(decimal.RequireFromString("30000.123456789")) {
		t.Errorf("BTCUSD = %s, want exact decimal", prices.BTCUSD)
	}
	if !prices.ETHUSD.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("ETHUSD = %s, want 2000", prices.ETHUSD)
	}
}

func TestMessariFailureIsDataUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error on one asset", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/assets/eth/metrics" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"data": {"market_data": {"price_usd": 1}}}`))
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": `))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewMessariClient(server.URL, HTTPOptions{})
			_, err := client.FetchBenchmarkPrices(context.Background())
			if !errors.Is(err, domain.ErrDataUnavailable) {
				t.Fatalf("expected ErrDataUnavailable, got %v", err)
			}
		})
	}
}
