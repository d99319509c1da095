// Package money does cent arithmetic for gift prices.
package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrOverflow is returned when a total does not fit in int64 cents.
var ErrOverflow = errors.New("money: amount overflows int64 cents")

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Line is one priced row: unit price in cents times a quantity.
type Line struct {
	UnitCents int64
	Quantity  int
}

// LineTotal returns unitCents * quantity.
func LineTotal(unitCents int64, quantity int) (int64, error) {
	total := decimal.NewFromInt(unitCents).Mul(decimal.NewFromInt(int64(quantity)))
	return toCents(total)
}

// Sum totals every line.
func Sum(lines []Line) (int64, error) {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromInt(line.UnitCents).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return toCents(total)
}

// Dollars converts cents to a decimal dollar amount.
func Dollars(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}

// Format renders cents as a two decimal dollar string, e.g. 1299 -> "12.99".
func Format(cents int64) string {
	return Dollars(cents).StringFixed(2)
}

func toCents(total decimal.Decimal) (int64, error) {
	if total.Abs().GreaterThan(maxCents) {
		return 0, ErrOverflow
	}
	return total.IntPart(), nil
}
