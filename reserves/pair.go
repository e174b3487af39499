// Package reserves reads Uniswap pool reserves and prices trades against
// them.
package reserves

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/swaps"
)

var ErrNoPair = errors.New("pair does not exist")

// SortTokens orders two addresses the way the V2 factory does.
func SortTokens(a, b common.Address) (common.Address, common.Address) {
	if bytes.Compare(a[:], b[:]) < 0 {
		return a, b
	}
	return b, a
}

// PairAddress derives the CREATE2 address of the V2 pair for a and b.
func PairAddress(factory common.Address, initCodeHash common.Hash, a, b common.Address) common.Address {
	t0, t1 := SortTokens(a, b)
	salt := crypto.Keccak256Hash(t0[:], t1[:])
	return crypto.CreateAddress2(factory, salt, initCodeHash[:])
}

// Pair is a V2 pair with its reserves.
type Pair struct {
	Address  common.Address
	Token0   common.Address
	Token1   common.Address
	Reserve0 *uint256.Int
	Reserve1 *uint256.Int
}

// ReservesFor returns the reserves ordered as (token, other).
func (p Pair) ReservesFor(token common.Address) (*uint256.Int, *uint256.Int) {
	if token == p.Token0 {
		return p.Reserve0, p.Reserve1
	}
	return p.Reserve1, p.Reserve0
}

// Reader fetches pair state through eth_call.
type Reader struct {
	caller  ethereum.ContractCaller
	network chain.Network
}

func NewReader(caller ethereum.ContractCaller, network chain.Network) *Reader {
	return &Reader{caller: caller, network: network}
}

// Pair returns the V2 pair for two tokens. The native coin is priced through
// WETH.
func (r *Reader) Pair(ctx context.Context, a, b swaps.Token) (Pair, error) {
	ta, tb := a.Wrapped(r.network), b.Wrapped(r.network)
	addr := PairAddress(r.network.V2Factory, r.network.V2InitCodeHash, ta, tb)

	data, err := chain.V2PairABI.Pack("getReserves")
	if err != nil {
		return Pair{}, err
	}
	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return Pair{}, fmt.Errorf("getReserves on %s: %w", addr.Hex(), err)
	}
	if len(out) == 0 {
		return Pair{}, ErrNoPair
	}

	decoded, err := chain.V2PairABI.Unpack("getReserves", out)
	if err != nil {
		return Pair{}, fmt.Errorf("unpacking getReserves: %w", err)
	}

	t0, t1 := SortTokens(ta, tb)
	r0, overflow0 := uint256.FromBig(decoded[0].(*big.Int))
	r1, overflow1 := uint256.FromBig(decoded[1].(*big.Int))
	if overflow0 || overflow1 {
		return Pair{}, fmt.Errorf("reserves of %s overflow", addr.Hex())
	}

	return Pair{Address: addr, Token0: t0, Token1: t1, Reserve0: r0, Reserve1: r1}, nil
}
