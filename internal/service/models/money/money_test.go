package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDecimalString(t *testing.T) {
	tests := []struct {
		in   string
		want Cents
	}{
		{"67.50", 6750},
		{"0.00", 0},
		{"100", 10000},
		{"0.1", 10},
		{"1234.56", 123456},
	}

	for _, tt := range tests {
		got, err := FromDecimalString(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := FromDecimalString("not a number")
	assert.Error(t, err)
}

func TestCents_String(t *testing.T) {
	assert.Equal(t, "67.50", Cents(6750).String())
	assert.Equal(t, "0.00", Cents(0).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "1234.00", Cents(123400).String())
}

func TestCents_ApplyRate(t *testing.T) {
	rate := decimal.NewFromFloat(0.15)

	assert.Equal(t, Cents(750), Cents(5000).ApplyRate(rate))
	assert.Equal(t, Cents(2250), Cents(15000).ApplyRate(rate))
	// 1.5 cents rounds half up
	assert.Equal(t, Cents(2), Cents(10).ApplyRate(rate))
	assert.Equal(t, Cents(0), Cents(0).ApplyRate(rate))
}

func TestCents_JSON(t *testing.T) {
	data, err := json.Marshal(Cents(6750))
	require.NoError(t, err)
	assert.Equal(t, `"67.50"`, string(data))

	var c Cents
	require.NoError(t, json.Unmarshal([]byte(`"67.50"`), &c))
	assert.Equal(t, Cents(6750), c)

	require.NoError(t, json.Unmarshal([]byte(`10.5`), &c))
	assert.Equal(t, Cents(1050), c)
}
