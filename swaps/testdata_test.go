package swaps

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/RaghavSood/swapdesk/chain"
)

var mainnet = chain.Networks[chain.Mainnet]

func mustToken(symbol string) Token {
	info, ok := mainnet.TokenBySymbol(symbol)
	if !ok {
		panic(symbol)
	}
	return TokenFromInfo(chain.Mainnet, info)
}

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return v
}

var (
	testAccount  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testExchange = common.HexToAddress("0x2a1530C4C41db0B0b2bB646CB5Eb1A67b7158667")
)

func newTrade(tt TradeType, in, out Token, inRaw, outRaw string, version RouteVersion) *Trade {
	return &Trade{
		Type:         tt,
		Route:        Route{Path: []Token{in, out}},
		InputAmount:  NewAmount(in, wei(inRaw)),
		OutputAmount: NewAmount(out, wei(outRaw)),
		Version:      version,
	}
}
