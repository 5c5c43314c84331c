package httpx

import (
	"errors"

	"github.com/shopspring/decimal"
)

var errBadPrice = errors.New("price must be a non-negative amount with at most two decimals")

func toCents(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, errBadPrice
	}
	c := d.Shift(2)
	if !c.IsInteger() {
		return 0, errBadPrice
	}
	return c.IntPart(), nil
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
