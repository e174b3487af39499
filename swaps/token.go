package swaps

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/RaghavSood/swapdesk/chain"
)

// Token is a currency on one chain. Native marks the chain coin, which has no
// contract address and is routed through WETH on V2.
type Token struct {
	ChainID  int64
	Address  common.Address
	Decimals uint8
	Symbol   string
	Name     string
	Native   bool
}

func TokenFromInfo(chainID int64, info chain.TokenInfo) Token {
	return Token{
		ChainID:  chainID,
		Address:  info.Address,
		Decimals: info.Decimals,
		Symbol:   info.Symbol,
		Name:     info.Name,
		Native:   info.Native,
	}
}

// Equal compares chain and identity, not metadata.
func (t Token) Equal(o Token) bool {
	if t.ChainID != o.ChainID || t.Native != o.Native {
		return false
	}
	return t.Native || t.Address == o.Address
}

// Wrapped returns the ERC-20 address used on V2 routes.
func (t Token) Wrapped(n chain.Network) common.Address {
	if t.Native {
		return n.WETH
	}
	return t.Address
}

// String returns SYMBOL for the native coin and SYMBOL-0xADDRESS otherwise.
func (t Token) String() string {
	if t.Native {
		return t.Symbol
	}
	return fmt.Sprintf("%s-%s", t.Symbol, t.Address.Hex())
}

// ParseToken resolves "SYMBOL" or "SYMBOL-0xCONTRACT" against the network's
// token table. Unknown contracts are looked up on-chain when caller is set.
// Examples: "ETH", "USDC-0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
func ParseToken(ctx context.Context, caller ethereum.ContractCaller, n chain.Network, s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Token{}, fmt.Errorf("empty token")
	}

	var symbol, contract string
	if idx := strings.Index(s, "-"); idx != -1 {
		symbol = strings.ToUpper(s[:idx])
		contract = s[idx+1:]
	} else {
		symbol = strings.ToUpper(s)
	}

	if contract == "" {
		info, ok := n.TokenBySymbol(symbol)
		if !ok {
			return Token{}, fmt.Errorf("unknown token %q on %s", symbol, n.Name)
		}
		return TokenFromInfo(n.ChainID, info), nil
	}

	if !common.IsHexAddress(contract) {
		return Token{}, fmt.Errorf("invalid token contract %q", contract)
	}
	addr := common.HexToAddress(contract)
	if info, ok := n.TokenByAddress(addr); ok {
		return TokenFromInfo(n.ChainID, info), nil
	}
	if caller == nil {
		return Token{}, fmt.Errorf("unknown token contract %s", addr.Hex())
	}

	decimals, err := fetchDecimals(ctx, caller, addr)
	if err != nil {
		return Token{}, fmt.Errorf("fetching decimals of %s: %w", addr.Hex(), err)
	}
	return Token{ChainID: n.ChainID, Address: addr, Decimals: decimals, Symbol: symbol, Name: symbol}, nil
}

func fetchDecimals(ctx context.Context, caller ethereum.ContractCaller, token common.Address) (uint8, error) {
	data, err := chain.ERC20ABI.Pack("decimals")
	if err != nil {
		return 0, err
	}
	out, err := caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return 0, err
	}
	decoded, err := chain.ERC20ABI.Unpack("decimals", out)
	if err != nil {
		return 0, err
	}
	return decoded[0].(uint8), nil
}
