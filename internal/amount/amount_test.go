package amount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token    string
		value    float32
		currency string
	}{
		{"-34.56", -34.56, ""},
		{"+34.56", 34.56, ""},
		{"34.56", 34.56, ""},
		{"$-34.56", -34.56, "$"},
		{"-$34.56", -34.56, "$"},
		{"AU$ -34.56", -34.56, "AU$"},
		{"-34.56 AU$", -34.56, "AU$"},
		{"100 USD", 100, "USD"},
		{"USD100", 100, "USD"},
		{"€1.234,56", 1234.56, "€"},
		{"1.000,50", 1000.50, ""},
		{"1,000.50", 1000.50, ""},
		{"12,5", 12.5, ""},
		{"1,000,000", 1000000, ""},
		{"1.000.000,25", 1000000.25, ""},
		{"0", 0, ""},
		{"0.00 EUR", 0, "EUR"},
		{"-1000000", -1000000, ""},
		{"  42  ", 42, ""},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := Parse(tt.token)
			require.NoError(t, err)
			assert.InDelta(t, tt.value, got.Value, 0.001)
			assert.Equal(t, tt.currency, got.Currency)
		})
	}
}

func TestParseLargeMagnitude(t *testing.T) {
	got, err := Parse("123,456,789.00")
	require.NoError(t, err)
	assert.Equal(t, float32(123456789), got.Value)

	got, err = Parse("-9999999999999")
	require.NoError(t, err)
	assert.InEpsilon(t, float32(-9999999999999), got.Value, 1e-6)
}

func TestParseSingleSeparatorIsDecimal(t *testing.T) {
	dot, err := Parse("1.5")
	require.NoError(t, err)
	comma, err := Parse("1,5")
	require.NoError(t, err)
	assert.Equal(t, dot.Value, comma.Value)
	assert.Equal(t, float32(1.5), dot.Value)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("$100.00 EUR")
	assert.ErrorIs(t, err, ErrBothCurrencies)

	for _, token := range []string{"", "abc", "USD", "1.2.3,4,5", "--5", "-$-5", "1.", "12 34"} {
		_, err := Parse(token)
		assert.ErrorIs(t, err, ErrInvalid, token)
	}

	_, err = Parse("1" + strings.Repeat("0", 40))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestParseNumber(t *testing.T) {
	d, err := ParseNumber("1.234,5")
	require.NoError(t, err)
	assert.Equal(t, "1234.5", d.String())
}
