package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/jgrizzled/melon-list/internal/snapshot"
)

// NewServer creates an HTTP server for the fund listing API.
// The snapshot archive routes exist only when snapshots is non-nil, and
// generation requires the bearer adminAPIKey when one is set.
func NewServer(port string, funds FundLister, rates RateProvider, snapshots *snapshot.Service, adminAPIKey string) *http.Server {
	mux := http.NewServeMux()

	live := NewFundHandler(funds, rates)
	for pattern, h := range map[string]http.HandlerFunc{
		"GET /api/v1/funds":           live.ListFunds,
		"GET /api/v1/funds/{address}": live.GetFund,
		"GET /api/v1/rates":           live.GetRates,
		"GET /api/v1/convert":         live.Convert,
	} {
		mux.Handle(pattern, h)
	}

	if snapshots != nil {
		archive := NewHandler(snapshots)
		mux.HandleFunc("GET /api/v1/snapshots", archive.ListSnapshots)
		mux.HandleFunc("GET /api/v1/snapshots/latest", archive.GetLatestSnapshot)
		mux.HandleFunc("GET /api/v1/snapshots/{date}", archive.GetSnapshotByDate)

		var generate http.Handler = http.HandlerFunc(archive.GenerateSnapshot)
		if adminAPIKey != "" {
			generate = requireAuth(adminAPIKey, generate)
		}
		mux.Handle("POST /api/v1/snapshots/generate", generate)
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// requireAuth rejects requests without "Authorization: Bearer <apiKey>".
func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
