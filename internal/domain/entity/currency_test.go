package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency_Format(t *testing.T) {
	usd, ok := FindCurrency(DefaultCurrencies(), CurrencyUSD)
	require.True(t, ok)
	beers, ok := FindCurrency(DefaultCurrencies(), CurrencyBeers)
	require.True(t, ok)

	assert.Equal(t, "$1,234.50", usd.Format(1234.5))
	assert.Equal(t, "$0.00", usd.Format(0))
	assert.Equal(t, "$1,000,000.00", usd.Format(1000000))
	assert.Equal(t, "$-12.00", usd.Format(-12))
	assert.Equal(t, "$-98,765.43", usd.Format(-98765.432))
	assert.Equal(t, "$12,345,678.90", usd.Format(12345678.9))
	assert.Equal(t, "1 beer", beers.Format(4.5))
	assert.Equal(t, "2 beers", beers.Format(9))
}

func TestCurrency_Convert(t *testing.T) {
	carbon, ok := FindCurrency(DefaultCurrencies(), CurrencyCarbonOffsetTons)
	require.True(t, ok)
	assert.Equal(t, "2.9", carbon.Convert(10).Round(1).String())

	engineers, ok := FindCurrency(DefaultCurrencies(), CurrencyEngineers)
	require.True(t, ok)
	assert.Equal(t, "10", engineers.Convert(10).String())

	engineers.Rate = EngineerRate(120000, DurationP30D)
	assert.Equal(t, 10000.0, engineers.Rate)
	assert.Equal(t, "1.5 engineers", engineers.Format(15000))
}

func TestEngineerRate(t *testing.T) {
	assert.InDelta(t, 200000.0/52, EngineerRate(200000, DurationP7D), 1e-9)
	assert.InDelta(t, 50000.0, EngineerRate(200000, DurationP90D), 1e-9)
	assert.InDelta(t, 50000.0, EngineerRate(200000, DurationP3M), 1e-9)
}

func TestFindCurrency_Unknown(t *testing.T) {
	_, ok := FindCurrency(DefaultCurrencies(), CurrencyKind("EUR"))
	assert.False(t, ok)
}
