package fund

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// ActiveHoldings drops holdings with a zero balance.
func ActiveHoldings(holdings []domain.Holding) []domain.Holding {
	return lo.Filter(holdings, func(h domain.Holding, _ int) bool {
		return h.Balance.IsPositive()
	})
}

// TotalShares sums the share balances of all investors.
func TotalShares(investors []domain.Investor) decimal.Decimal {
	return lo.Reduce(investors, func(acc decimal.Decimal, inv domain.Investor, _ int) decimal.Decimal {
		return acc.Add(inv.Shares)
	}, decimal.Zero)
}

// CurrentInvestors counts investors that still hold shares.
func CurrentInvestors(investors []domain.Investor) int {
	return lo.CountBy(investors, func(inv domain.Investor) bool {
		return inv.Shares.IsPositive()
	})
}
