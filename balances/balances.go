// Package balances reads account balances and allowances in one round trip
// through Multicall3.
package balances

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/execution"
	"github.com/RaghavSood/swapdesk/swaps"
)

// TokenBalance holds balance info for one token of one account.
type TokenBalance struct {
	Token     swaps.Token `json:"-"`
	Symbol    string      `json:"symbol"`
	Address   string      `json:"address,omitempty"`
	Balance   string      `json:"balance"`             // smallest unit
	Formatted string      `json:"formatted"`           // 6 significant digits
	Allowance string      `json:"allowance,omitempty"` // smallest unit, when a spender was given
	Raw       *big.Int    `json:"-"`
	Allowed   *big.Int    `json:"-"`
}

// Fetch returns balances of owner for every token. When spender is non-nil,
// ERC-20 allowances towards it are read too. Failed sub-calls read as zero.
func Fetch(ctx context.Context, caller ethereum.ContractCaller, n chain.Network, owner common.Address, tokens []swaps.Token, spender *common.Address) ([]TokenBalance, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	type slot struct{ balance, allowance int }
	slots := make([]slot, len(tokens))
	var calls []Call3

	for i, t := range tokens {
		slots[i] = slot{balance: -1, allowance: -1}

		if t.Native {
			data, err := chain.Multicall3ABI.Pack("getEthBalance", owner)
			if err != nil {
				return nil, fmt.Errorf("packing getEthBalance: %w", err)
			}
			slots[i].balance = len(calls)
			calls = append(calls, Call3{Target: n.Multicall3, AllowFailure: true, CallData: data})
			continue
		}

		data, err := chain.ERC20ABI.Pack("balanceOf", owner)
		if err != nil {
			return nil, fmt.Errorf("packing balanceOf: %w", err)
		}
		slots[i].balance = len(calls)
		calls = append(calls, Call3{Target: t.Address, AllowFailure: true, CallData: data})

		if spender != nil {
			data, err := chain.ERC20ABI.Pack("allowance", owner, *spender)
			if err != nil {
				return nil, fmt.Errorf("packing allowance: %w", err)
			}
			slots[i].allowance = len(calls)
			calls = append(calls, Call3{Target: t.Address, AllowFailure: true, CallData: data})
		}
	}

	results, err := Aggregate(ctx, caller, n.Multicall3, calls)
	if err != nil {
		return nil, err
	}

	bals := make([]TokenBalance, len(tokens))
	for i, t := range tokens {
		raw := word(results, slots[i].balance)
		b := TokenBalance{
			Token:     t,
			Symbol:    t.Symbol,
			Balance:   raw.String(),
			Formatted: swaps.NewAmount(t, raw).ToSignificant(6),
			Raw:       raw,
		}
		if !t.Native {
			b.Address = t.Address.Hex()
		}
		if slots[i].allowance >= 0 {
			b.Allowed = word(results, slots[i].allowance)
			b.Allowance = b.Allowed.String()
		}
		bals[i] = b
	}
	return bals, nil
}

func word(results []Result3, idx int) *big.Int {
	v := big.NewInt(0)
	if idx < 0 || idx >= len(results) {
		return v
	}
	if r := results[idx]; r.Success && len(r.ReturnData) >= 32 {
		v.SetBytes(r.ReturnData[:32])
	}
	return v
}

// ApproveCall grants spender an unlimited allowance of token.
func ApproveCall(token swaps.Token, spender common.Address) execution.Call {
	return execution.Call{
		To:     token.Address,
		ABI:    chain.ERC20ABI,
		Method: "approve",
		Args:   []any{spender, new(big.Int).Set(math.MaxBig256)},
	}
}

// Approve submits an unlimited approval of token to spender.
func Approve(ctx context.Context, exec *execution.Executor, token swaps.Token, spender common.Address) (common.Hash, error) {
	if token.Native {
		return common.Hash{}, fmt.Errorf("%s needs no approval", token.Symbol)
	}
	summary := fmt.Sprintf("Approve %s", token.Symbol)
	return exec.Execute(ctx, "Approve", []execution.Call{ApproveCall(token, spender)}, summary)
}

// Reader reads a fixed token list for one account.
type Reader struct {
	caller  ethereum.ContractCaller
	network chain.Network
	owner   common.Address
	tokens  []swaps.Token
}

// NewReader tracks every token of the network's table for owner.
func NewReader(caller ethereum.ContractCaller, n chain.Network, owner common.Address) *Reader {
	tokens := make([]swaps.Token, 0, len(n.Tokens))
	for _, info := range n.Tokens {
		tokens = append(tokens, swaps.TokenFromInfo(n.ChainID, info))
	}
	return &Reader{caller: caller, network: n, owner: owner, tokens: tokens}
}

func (r *Reader) Owner() common.Address { return r.owner }

// Balances returns the current balances of every tracked token.
func (r *Reader) Balances(ctx context.Context) ([]TokenBalance, error) {
	return Fetch(ctx, r.caller, r.network, r.owner, r.tokens, nil)
}
