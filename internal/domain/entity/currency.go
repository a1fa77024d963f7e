package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// amountPrinter agrupa milhares no formato en-US.
var amountPrinter = message.NewPrinter(language.English)

// CurrencyKind identifies a currency. Empty means engineers.
type CurrencyKind string

const (
	CurrencyEngineers        CurrencyKind = ""
	CurrencyUSD              CurrencyKind = "USD"
	CurrencyCarbonOffsetTons CurrencyKind = "CARBON_OFFSET_TONS"
	CurrencyBeers            CurrencyKind = "BEERS"
	CurrencyIceCream         CurrencyKind = "PINTS_OF_ICE_CREAM"
)

// Currency is a unit costs can be expressed in. Amounts are divided by Rate.
type Currency struct {
	Kind   CurrencyKind `json:"kind" yaml:"kind" toml:"kind"`
	Label  string       `json:"label" yaml:"label" toml:"label"`
	Unit   string       `json:"unit" yaml:"unit" toml:"unit"`
	Prefix string       `json:"prefix,omitempty" yaml:"prefix" toml:"prefix"`
	Rate   float64      `json:"rate,omitempty" yaml:"rate" toml:"rate"`
}

// DefaultCurrencies returns the built-in currencies.
func DefaultCurrencies() []Currency {
	return []Currency{
		{Kind: CurrencyEngineers, Label: "Engineers", Unit: "engineer"},
		{Kind: CurrencyUSD, Label: "US Dollars", Unit: "dollar", Prefix: "$", Rate: 1},
		{Kind: CurrencyCarbonOffsetTons, Label: "Carbon Offsets in Tons", Unit: "carbon offset ton", Rate: 3.5},
		{Kind: CurrencyBeers, Label: "Beers", Unit: "beer", Rate: 4.5},
		{Kind: CurrencyIceCream, Label: "Pints of Ice Cream", Unit: "ice cream pint", Rate: 5.5},
	}
}

// FindCurrency procura uma moeda pelo tipo.
func FindCurrency(currencies []Currency, kind CurrencyKind) (Currency, bool) {
	for _, c := range currencies {
		if c.Kind == kind {
			return c, true
		}
	}
	return Currency{}, false
}

// EngineerRate converts an annual engineer cost into the cost of one
// engineer over the given duration.
func EngineerRate(annualCost float64, d Duration) float64 {
	switch d {
	case DurationP7D:
		return annualCost / 52
	case DurationP30D:
		return annualCost / 12
	case DurationP90D, DurationP3M:
		return annualCost / 4
	}
	return annualCost
}

// Convert expressa um valor em dólares nesta moeda.
// A rate zero deixa o valor inalterado.
func (c Currency) Convert(amount float64) decimal.Decimal {
	value := decimal.NewFromFloat(amount)
	if c.Rate == 0 {
		return value
	}
	return value.Div(decimal.NewFromFloat(c.Rate))
}

// Format renders an amount converted to this currency, e.g. "$1,234.50"
// or "3.2 beers".
func (c Currency) Format(amount float64) string {
	converted := c.Convert(amount)
	if c.Prefix != "" {
		return c.Prefix + amountPrinter.Sprintf("%.2f", converted.Round(2).InexactFloat64())
	}

	unit := c.Unit
	if !converted.Equal(decimal.NewFromInt(1)) {
		unit += "s"
	}
	return fmt.Sprintf("%s %s", converted.Round(1).String(), unit)
}
