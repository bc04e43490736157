package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// EncodeAmountsAsNumbers makes decimals marshal as bare JSON numbers,
// the shape the wallet API speaks. Called once from each binary's main;
// kept out of init so importing this package mutates nothing.
func EncodeAmountsAsNumbers() {
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	ErrInvalidAmount = errors.New("invalid amount")
)

// maxAmount caps a single operation. Prevents absurd inputs from reaching
// the wire; the server enforces its own limits on top.
var maxAmount = decimal.New(1, 12) // 1e12

var (
	minFee  = decimal.NewFromFloat(0.50)
	feeRate = decimal.NewFromFloat(0.025)
)

// ValidateAmount rejects zero, negative and out-of-range amounts.
// Use before any send/top-up request is issued.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	return nil
}

// Fee returns the transfer fee for amount: 2.5%, floored at 0.50.
// The server is authoritative; this exists for previews and the mock API.
func Fee(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(feeRate).Round(2)
	if fee.LessThan(minFee) {
		return minFee
	}
	return fee
}

// RoundCents normalizes an amount to two decimal places.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"VND": "₫",
}

// Format renders an amount for display, e.g. "$12.34" or "CHF 12.34" when
// no symbol is known for the currency code.
func Format(amount decimal.Decimal, currency string) string {
	if sym, ok := symbols[currency]; ok {
		return sym + amount.StringFixed(2)
	}
	if currency == "" {
		return amount.StringFixed(2)
	}
	return currency + " " + amount.StringFixed(2)
}
