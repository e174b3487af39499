package reserves

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	ErrInsufficientLiquidity   = errors.New("insufficient liquidity")
	ErrInsufficientInputAmount = errors.New("insufficient input amount")
	ErrInsufficientOutput      = errors.New("insufficient output amount")
)

var (
	fee997  = uint256.NewInt(997)
	fee1000 = uint256.NewInt(1000)
	one     = uint256.NewInt(1)
)

// AmountOut is the constant-product output for amountIn after the 0.3% fee.
func AmountOut(amountIn, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountIn.IsZero() {
		return nil, ErrInsufficientInputAmount
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}

	inWithFee := new(uint256.Int).Mul(amountIn, fee997)
	numerator := new(uint256.Int).Mul(inWithFee, reserveOut)
	denominator := new(uint256.Int).Mul(reserveIn, fee1000)
	denominator.Add(denominator, inWithFee)

	out := new(uint256.Int).Div(numerator, denominator)
	if out.IsZero() {
		return nil, ErrInsufficientOutput
	}
	return out, nil
}

// AmountIn is the input needed to receive amountOut, rounded up.
func AmountIn(amountOut, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountOut.IsZero() {
		return nil, ErrInsufficientOutput
	}
	if reserveIn.IsZero() || reserveOut.IsZero() || !amountOut.Lt(reserveOut) {
		return nil, ErrInsufficientLiquidity
	}

	numerator := new(uint256.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, fee1000)
	denominator := new(uint256.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, fee997)

	in := new(uint256.Int).Div(numerator, denominator)
	return in.Add(in, one), nil
}
