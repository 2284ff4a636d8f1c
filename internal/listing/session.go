package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jgrizzled/melon-list/internal/domain"
)

var (
	// ErrFundNotFound is returned when an address is not in the fund list.
	ErrFundNotFound = errors.New("fund not found")
	// ErrUnsupportedCurrency is returned for display currencies other than ETH, BTC and USD.
	ErrUnsupportedCurrency = errors.New("unsupported display currency")
)

// FundSource lists funds and loads their details.
type FundSource interface {
	ListFunds(ctx context.Context) ([]domain.FundRecord, error)
	FetchDetail(ctx context.Context, address string, denominationDecimals uint8) (domain.FundDetail, error)
}

// Converter converts amounts between symbols.
type Converter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// Session is the presentation state of one listing: the display currency,
// the fund list loaded once, and the details of expanded funds.
type Session struct {
	funds     FundSource
	converter Converter

	mu            sync.RWMutex
	displaySymbol string
	records       []domain.FundRecord
	details       map[string]domain.FundDetail

	loadGroup   singleflight.Group
	detailGroup singleflight.Group
}

// NewSession creates a session rendering in displaySymbol.
func NewSession(funds FundSource, converter Converter, displaySymbol string) (*Session, error) {
	if funds == nil || converter == nil {
		panic("listing.NewSession: dependencies must not be nil")
	}
	s := &Session{
		funds:     funds,
		converter: converter,
		details:   make(map[string]domain.FundDetail),
	}
	if err := s.SetDisplaySymbol(displaySymbol); err != nil {
		return nil, err
	}
	return s, nil
}

// DisplaySymbol returns the current display currency.
func (s *Session) DisplaySymbol() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displaySymbol
}

// SetDisplaySymbol switches the display currency to ETH, BTC or USD.
func (s *Session) SetDisplaySymbol(symbol string) error {
	currency, err := displayCurrency(symbol)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.displaySymbol = currency
	s.mu.Unlock()
	return nil
}

func displayCurrency(symbol string) (string, error) {
	if !domain.IsDisplaySymbol(symbol) {
		return "", fmt.Errorf("%w %q: want one of %s", ErrUnsupportedCurrency, symbol, strings.Join(domain.DisplaySymbols, ", "))
	}
	return strings.ToUpper(symbol), nil
}

// Records returns the fund list, loading it on first use.
// Concurrent first calls share one load; a failed load is retried by the next call.
func (s *Session) Records(ctx context.Context) ([]domain.FundRecord, error) {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()
	if records != nil {
		return records, nil
	}

	v, err, _ := s.loadGroup.Do("records", func() (any, error) {
		loaded, err := s.funds.ListFunds(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading fund list: %w", err)
		}
		if loaded == nil {
			loaded = []domain.FundRecord{}
		}
		s.mu.Lock()
		s.records = loaded
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.FundRecord), nil
}

// Reload discards the cached fund list and details.
func (s *Session) Reload() {
	s.mu.Lock()
	s.records = nil
	s.details = make(map[string]domain.FundDetail)
	s.mu.Unlock()
}

// Search returns funds whose name contains query, ignoring case.
// An empty query matches every fund.
func Search(records []domain.FundRecord, query string) []domain.FundRecord {
	if query == "" {
		return records
	}
	needle := strings.ToLower(query)
	return lo.Filter(records, func(r domain.FundRecord, _ int) bool {
		return strings.Contains(strings.ToLower(r.Name), needle)
	})
}

// Find returns the fund with address, ignoring case.
func (s *Session) Find(ctx context.Context, address string) (domain.FundRecord, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return domain.FundRecord{}, err
	}
	record, ok := lo.Find(records, func(r domain.FundRecord) bool {
		return strings.EqualFold(r.Address, address)
	})
	if !ok {
		return domain.FundRecord{}, fmt.Errorf("fund %s: %w", address, ErrFundNotFound)
	}
	return record, nil
}

// Expand returns the detail of a fund, fetching it at most once per session.
func (s *Session) Expand(ctx context.Context, address string) (domain.FundRecord, domain.FundDetail, error) {
	record, err := s.Find(ctx, address)
	if err != nil {
		return domain.FundRecord{}, domain.FundDetail{}, err
	}
	key := strings.ToLower(record.Address)

	s.mu.RLock()
	detail, ok := s.details[key]
	s.mu.RUnlock()
	if ok {
		return record, detail, nil
	}

	v, err, _ := s.detailGroup.Do(key, func() (any, error) {
		s.mu.RLock()
		cached, ok := s.details[key]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}
		fetched, err := s.funds.FetchDetail(ctx, record.Address, record.DenominationAsset.Decimals)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.details[key] = fetched
		s.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return domain.FundRecord{}, domain.FundDetail{}, fmt.Errorf("loading detail of %s: %w", record.Name, err)
	}
	return record, v.(domain.FundDetail), nil
}

// Expanded reports whether the detail of address is cached.
func (s *Session) Expanded(address string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.details[strings.ToLower(address)]
	return ok
}
