package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const (
	Mainnet int64 = 1
	Goerli  int64 = 5
)

// ZeroAddress stands in for the native coin in Mooniswap and OneSplit calls.
var ZeroAddress = common.Address{}

// DefaultReferral receives Mooniswap referral fees when none is configured.
var DefaultReferral = common.HexToAddress("0x68a17B587CAF4f9329f0e372e3A78D23A46De6b5")

// TokenInfo describes an ERC-20 (or the native coin when Native is set).
type TokenInfo struct {
	Address  common.Address
	Decimals uint8
	Symbol   string
	Name     string
	Native   bool
}

// Network holds the static contract address table of one chain.
type Network struct {
	ChainID          int64
	Name             string
	WETH             common.Address
	V2Router         common.Address
	V2Factory        common.Address
	V2InitCodeHash   common.Hash
	V1Factory        common.Address
	OneSplit         common.Address
	MooniswapFactory common.Address
	ENSRegistry      common.Address
	Multicall3       common.Address
	Tokens           []TokenInfo
}

var ether = TokenInfo{Decimals: 18, Symbol: "ETH", Name: "Ether", Native: true}

// Networks maps chain ID to its address table.
var Networks = map[int64]Network{
	Mainnet: {
		ChainID:          Mainnet,
		Name:             "mainnet",
		WETH:             common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		V2Router:         common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
		V2Factory:        common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
		V2InitCodeHash:   common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f"),
		V1Factory:        common.HexToAddress("0xc0a47dFe034B400B47bDaD5FecDa2621de6c4d95"),
		OneSplit:         common.HexToAddress("0xC586BeF4a0992C495Cf22e1aeEE4E446CECDee0E"),
		MooniswapFactory: common.HexToAddress("0x71CD6666064C3A1354a3B4dca5fA1E2D3ee7D303"),
		ENSRegistry:      common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"),
		Multicall3:       common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11"),
		Tokens: []TokenInfo{
			ether,
			{Address: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), Decimals: 18, Symbol: "WETH", Name: "Wrapped Ether"},
			{Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6, Symbol: "USDC", Name: "USD Coin"},
			{Address: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), Decimals: 6, Symbol: "USDT", Name: "Tether USD"},
			{Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Decimals: 18, Symbol: "DAI", Name: "Dai Stablecoin"},
			{Address: common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"), Decimals: 8, Symbol: "WBTC", Name: "Wrapped BTC"},
			{Address: common.HexToAddress("0x0AaCfbeC6a24756c20D41914F2caba817C0d8521"), Decimals: 18, Symbol: "YAM", Name: "YAM"},
		},
	},
	Goerli: {
		ChainID:        Goerli,
		Name:           "goerli",
		WETH:           common.HexToAddress("0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6"),
		V2Router:       common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
		V2Factory:      common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"),
		V2InitCodeHash: common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f"),
		V1Factory:      common.HexToAddress("0x6Ce570d02D73d4c384b46135E87f8C592A8c86dA"),
		ENSRegistry:    common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"),
		Multicall3:     common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11"),
		Tokens: []TokenInfo{
			ether,
			{Address: common.HexToAddress("0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6"), Decimals: 18, Symbol: "WETH", Name: "Wrapped Ether"},
		},
	},
}

// Lookup returns the address table for chainID.
func Lookup(chainID int64) (Network, error) {
	n, ok := Networks[chainID]
	if !ok {
		return Network{}, fmt.Errorf("chain %d not supported", chainID)
	}
	return n, nil
}

// TokenBySymbol finds a token in the network's table, case-sensitively as
// token symbols are.
func (n Network) TokenBySymbol(symbol string) (TokenInfo, bool) {
	for _, t := range n.Tokens {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return TokenInfo{}, false
}

// TokenByAddress finds an ERC-20 in the network's table.
func (n Network) TokenByAddress(addr common.Address) (TokenInfo, bool) {
	for _, t := range n.Tokens {
		if !t.Native && t.Address == addr {
			return t, true
		}
	}
	return TokenInfo{}, false
}
