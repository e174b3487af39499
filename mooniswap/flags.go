package mooniswap

import "math/big"

// OneSplit flag bits.
var (
	FlagDisableAllSplitSources = big.NewInt(0x20000000)
	FlagDisableAllWrapSources  = big.NewInt(0x40000000)
	FlagDisableMooniswapAll    = mustBig("0x8000000000000000")
	FlagEnableChiBurn          = big.NewInt(0x10000000000)
	FlagEnableChiBurnByOrigin  = big.NewInt(0x4000000000000000)
)

func mustBig(hex string) *big.Int {
	v, ok := new(big.Int).SetString(hex[2:], 16)
	if !ok {
		panic(hex)
	}
	return v
}

func or(flags ...*big.Int) *big.Int {
	acc := new(big.Int)
	for _, f := range flags {
		acc.Or(acc, f)
	}
	return acc
}

// BaseFlags restricts OneSplit to the sources given in the distribution.
func BaseFlags() *big.Int {
	return or(FlagDisableAllWrapSources, FlagDisableAllSplitSources, FlagDisableMooniswapAll)
}

// ChiFlags is BaseFlags with the CHI gas-token rebate enabled.
func ChiFlags() *big.Int {
	return or(BaseFlags(), FlagEnableChiBurn, FlagEnableChiBurnByOrigin)
}
