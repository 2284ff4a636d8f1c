package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dustThreshold is the smallest amount rendered as non-zero.
var dustThreshold = decimal.New(1, -8)

const dateLayout = "1-2-2006"

// DecodeAmount scales an on-chain integer by 10^decimals.
func DecodeAmount(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// FormatAmount renders an amount for display. Digits are truncated, never rounded.
// Amounts with an integer part keep at most two decimals, or none when the first
// significant decimal digit is past the second place. Amounts below one keep
// decimals up to one digit past the first significant one.
func FormatAmount(d decimal.Decimal) string {
	if d.LessThan(dustThreshold) {
		return "0"
	}
	intPart, frac, ok := strings.Cut(d.String(), ".")
	if !ok {
		return withThousands(intPart)
	}
	firstNonZero := strings.IndexFunc(frac, func(r rune) bool { return r != '0' })
	if intPart != "0" {
		if firstNonZero > 1 {
			return withThousands(intPart)
		}
		return withThousands(intPart) + "." + frac[:min(2, len(frac))]
	}
	return intPart + "." + frac[:min(firstNonZero+2, len(frac))]
}

// FormatDate renders a timestamp as month-day-year without padding.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func withThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
