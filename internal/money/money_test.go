package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzungnguyen14/aiowallet-app/internal/money"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "positive", amount: "10.50", wantErr: false},
		{name: "small positive", amount: "0.01", wantErr: false},
		{name: "zero", amount: "0", wantErr: true},
		{name: "negative", amount: "-5", wantErr: true},
		{name: "absurdly large", amount: "1000000000001", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)

			err = money.ValidateAmount(amount)
			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrInvalidAmount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFee(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "20", want: "0.5"},      // 2.5% of 20 is exactly the floor
		{amount: "10", want: "0.5"},      // below the floor
		{amount: "100", want: "2.5"},     // plain percentage
		{amount: "123.45", want: "3.09"}, // rounded to cents
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.True(t, money.Fee(amount).Equal(decimal.RequireFromString(tt.want)),
				"Fee(%s) = %s, want %s", tt.amount, money.Fee(amount), tt.want)
		})
	}
}

func TestFormat(t *testing.T) {
	amount := decimal.RequireFromString("1234.5")

	assert.Equal(t, "$1234.50", money.Format(amount, "USD"))
	assert.Equal(t, "CHF 1234.50", money.Format(amount, "CHF"))
	assert.Equal(t, "1234.50", money.Format(amount, ""))
}

func TestEncodeAmountsAsNumbers(t *testing.T) {
	prev := decimal.MarshalJSONWithoutQuotes
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = prev })

	decimal.MarshalJSONWithoutQuotes = false
	quoted, err := json.Marshal(decimal.RequireFromString("79.5"))
	require.NoError(t, err)
	assert.Equal(t, `"79.5"`, string(quoted))

	// Importing the package changes nothing; the binary opts in.
	money.EncodeAmountsAsNumbers()
	bare, err := json.Marshal(decimal.RequireFromString("79.5"))
	require.NoError(t, err)
	assert.Equal(t, `79.5`, string(bare))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, "12.35", money.RoundCents(decimal.RequireFromString("12.345")).StringFixed(2))
}
