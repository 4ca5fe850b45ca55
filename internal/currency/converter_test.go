package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConverter() *Converter {
	return NewConverter(map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("1.08"),
	})
}

func TestConvertSameCurrency(t *testing.T) {
	c := testConverter()
	amount := decimal.RequireFromString("123.45")

	got, err := c.Convert(amount, "USD", "USD")
	require.NoError(t, err)
	assert.True(t, got.Equal(amount))
}

func TestConvertAcrossCurrencies(t *testing.T) {
	c := testConverter()

	got, err := c.Convert(decimal.NewFromInt(100), "EUR", "USD")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("108")))

	back, err := c.Convert(got, "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, back.Equal(decimal.NewFromInt(100)))
}

func TestConvertUnknownCurrency(t *testing.T) {
	c := testConverter()

	_, err := c.Convert(decimal.NewFromInt(1), "XXX", "USD")
	assert.Error(t, err)

	// A self-conversion still fails for an unknown code; services rely
	// on this probe to validate currencies.
	_, err = c.Convert(decimal.NewFromInt(1), "XXX", "XXX")
	assert.Error(t, err)
}

func TestConvertCaseInsensitive(t *testing.T) {
	c := testConverter()

	got, err := c.Convert(decimal.NewFromInt(50), "usd", "USD")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(50)))
	assert.True(t, c.Supported("eur"))
}
