package export

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jgrizzled/melon-list/internal/listing"
)

const (
	fundsSheet   = "FUNDS"
	historySheet = "HISTORY"
)

// fundColumn describes one column of the FUNDS sheet.
type fundColumn struct {
	header string
	value  func(listing.Row) any
}

// fundColumns are the FUNDS sheet columns in order. GAV and share price
// headers get the listing currency appended.
var fundColumns = []fundColumn{
	{header: "Rank", value: func(r listing.Row) any { return r.Rank }},
	{header: "Name", value: func(r listing.Row) any { return r.Name }},
	{header: "GAV", value: func(r listing.Row) any { return toFloat(r.GAV) }},
	{header: "Share Price", value: func(r listing.Row) any { return toFloat(r.SharePrice) }},
	{header: "Denomination", value: func(r listing.Row) any { return r.Denomination }},
	{header: "Created", value: func(r listing.Row) any { return r.Created }},
	{header: "Address", value: func(r listing.Row) any { return r.Address }},
}

// historyHeader heads the HISTORY sheet, which gets one summary row per export.
var historyHeader = []any{"Date", "Currency", "Funds", "Omitted", "Total GAV"}

// buildFundRows builds the header row and one row per listed fund.
func buildFundRows(l listing.Listing) [][]any {
	header := make([]any, len(fundColumns))
	for i, col := range fundColumns {
		header[i] = col.header
		if col.header == "GAV" || col.header == "Share Price" {
			header[i] = col.header + " (" + l.Currency + ")"
		}
	}

	data := make([][]any, 0, len(l.Rows)+1)
	data = append(data, header)
	for _, row := range l.Rows {
		values := make([]any, len(fundColumns))
		for i, col := range fundColumns {
			values[i] = col.value(row)
		}
		data = append(data, values)
	}
	return data
}

// buildHistoryRow summarizes a listing for the HISTORY sheet.
func buildHistoryRow(l listing.Listing, at time.Time) []any {
	total := decimal.Zero
	for _, r := range l.Rows {
		total = total.Add(r.GAV)
	}
	return []any{at.UTC().Format("2006-01-02"), l.Currency, len(l.Rows), l.Omitted, toFloat(total)}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
