package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundRecord is one registry entry with amounts decoded in the denomination asset.
type FundRecord struct {
	Rank              int             `json:"rank"`
	Address           string          `json:"address"`
	Name              string          `json:"name"`
	GAV               decimal.Decimal `json:"gav"`
	SharePrice        decimal.Decimal `json:"sharePrice"`
	CreationTime      time.Time       `json:"creationTime"`
	DenominationAsset Token           `json:"denominationAsset"`
}

// Holding is a fund's balance of one registry token.
type Holding struct {
	Token   Token           `json:"token"`
	Balance decimal.Decimal `json:"balance"`
}

// Investor is a historical participant and their current share balance.
type Investor struct {
	Address string          `json:"address"`
	Shares  decimal.Decimal `json:"shares"`
}

// Exchange is an exchange adapter linked to the fund's trading component.
type Exchange struct {
	Exchange     string `json:"exchange"`
	Adapter      string `json:"adapter"`
	TakesCustody bool   `json:"takesCustody"`
}

// FundDetail holds the per-fund data loaded when a row is expanded.
type FundDetail struct {
	Holdings                    []Holding       `json:"holdings"`
	NAV                         decimal.Decimal `json:"nav"`
	FeesInDenominationAsset     decimal.Decimal `json:"feesInDenominationAsset"`
	FeesInShares                decimal.Decimal `json:"feesInShares"`
	GAVPerShareNetManagementFee decimal.Decimal `json:"gavPerShareNetManagementFee"`
	ManagementFeeRate           decimal.Decimal `json:"managementFeeRate"`
	PerformanceFeeRate          decimal.Decimal `json:"performanceFeeRate"`
	Investors                   []Investor      `json:"investors"`
	Exchanges                   []Exchange      `json:"exchanges"`
}
