package swaps

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxSlippageBps is the exclusive upper bound on a slippage tolerance.
const MaxSlippageBps = bipsBase

var ErrInvalidSlippage = errors.New("slippage tolerance must be below 10000 bps")

// ValidateSlippage rejects tolerances of 100% or more.
func ValidateSlippage(bps uint32) error {
	if int64(bps) >= MaxSlippageBps {
		return ErrInvalidSlippage
	}
	return nil
}

// ImpliedSlippageBps inverts MinimumAmountOut, returning the tolerance in
// basis points that turns out into minOut.
func ImpliedSlippageBps(out, minOut *big.Int) decimal.Decimal {
	if minOut.Sign() == 0 {
		return decimal.Zero
	}
	ratio := decimal.NewFromBigInt(out, 0).DivRound(decimal.NewFromBigInt(minOut, 0), 18)
	return ratio.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(bipsBase))
}
