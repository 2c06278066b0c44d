package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Converter turns catalog prices into GBP using fixed rates (units of GBP
// per unit of the source currency).
type Converter struct {
	rates map[string]decimal.Decimal
}

// NewConverter builds a converter. GBP is always supported at 1.
func NewConverter(rates map[string]float64) *Converter {
	c := &Converter{rates: map[string]decimal.Decimal{"GBP": decimal.NewFromInt(1)}}
	for cur, r := range rates {
		c.rates[strings.ToUpper(cur)] = decimal.NewFromFloat(r)
	}
	return c
}

// ToGBP converts amount in currency to GBP. An empty currency is treated as
// USD, the catalog's default.
func (c *Converter) ToGBP(amount float64, currency string) (decimal.Decimal, error) {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" {
		cur = "USD"
	}
	rate, ok := c.rates[cur]
	if !ok {
		return decimal.Zero, fmt.Errorf("pricing: no rate for %q: %w", cur, domain.ErrInvalidInput)
	}
	return decimal.NewFromFloat(amount).Mul(rate).Round(2), nil
}

// Quote is the profit calculation for one listing against one price.
type Quote struct {
	MarketGBP       decimal.Decimal
	CostGBP         decimal.Decimal
	ProfitGBP       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Profit computes profit after an optional marketplace fee on the resale
// value, and the discount of the all-in cost against market value. Results
// are rounded to 2 dp.
func Profit(market, price, shipping decimal.Decimal, feePercent float64) Quote {
	cost := price.Add(shipping)
	fee := market.Mul(decimal.NewFromFloat(feePercent)).Div(hundred)
	q := Quote{
		MarketGBP: market.Round(2),
		CostGBP:   cost.Round(2),
		ProfitGBP: market.Sub(cost).Sub(fee).Round(2),
	}
	if market.IsPositive() {
		q.DiscountPercent = market.Sub(cost).Div(market).Mul(hundred).Round(2)
	}
	return q
}
