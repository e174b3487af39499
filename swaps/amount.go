package swaps

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenAmount is a raw integer amount of a token.
type TokenAmount struct {
	Token Token
	Raw   *big.Int
}

func NewAmount(t Token, raw *big.Int) TokenAmount {
	return TokenAmount{Token: t, Raw: new(big.Int).Set(raw)}
}

// ParseAmount converts a human-readable amount ("1.5") to raw units.
func ParseAmount(t Token, s string) (TokenAmount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return TokenAmount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return TokenAmount{}, fmt.Errorf("negative amount %q", s)
	}
	raw := d.Shift(int32(t.Decimals))
	if !raw.Equal(raw.Truncate(0)) {
		return TokenAmount{}, fmt.Errorf("amount %q has more than %d decimals", s, t.Decimals)
	}
	return TokenAmount{Token: t, Raw: raw.BigInt()}, nil
}

// Decimal returns the amount in whole-token units.
func (a TokenAmount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.Raw, -int32(a.Token.Decimals))
}

// ToExact renders every significant decimal.
func (a TokenAmount) ToExact() string {
	return a.Decimal().String()
}

// ToSignificant renders the amount rounded half-up to sig significant
// digits, with trailing zeros trimmed.
func (a TokenAmount) ToSignificant(sig int) string {
	return significant(a.Decimal(), sig)
}

func significant(d decimal.Decimal, sig int) string {
	if d.IsZero() {
		return "0"
	}
	digits := len(d.Abs().Coefficient().String())
	msd := digits + int(d.Exponent()) - 1
	return d.Round(int32(sig - 1 - msd)).String()
}
