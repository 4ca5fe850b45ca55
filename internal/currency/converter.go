// Package currency converts amounts between configured currencies
// through a static rate table.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Converter converts through per-currency rates relative to a common
// base unit: amount * rate(from) / rate(to). A currency missing from
// the table is an error even when from and to are equal, which is how
// callers probe whether a code is supported.
type Converter struct {
	rates map[string]decimal.Decimal
}

// NewConverter creates a Converter from a rate table keyed by currency
// code.
func NewConverter(rates map[string]decimal.Decimal) *Converter {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	return &Converter{rates: normalized}
}

// Convert converts amount from one currency to another.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromRate, ok := c.rates[strings.ToUpper(from)]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown currency %q", from)
	}
	toRate, ok := c.rates[strings.ToUpper(to)]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown currency %q", to)
	}
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	return amount.Mul(fromRate).Div(toRate), nil
}

// Supported reports whether a currency code is in the rate table.
func (c *Converter) Supported(code string) bool {
	_, ok := c.rates[strings.ToUpper(code)]
	return ok
}
