package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of fraction digits prices are stored with.
const PricePlaces = 2

// RoundPrice rounds a price to the stored precision.
func RoundPrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(PricePlaces)
}

// ParsePrice parses a decimal price string such as "88.88" or "90".
// It rejects values that are not numbers.
func ParsePrice(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Message: fmt.Sprintf("%s must be a number", field)}
	}
	return d, nil
}
