package reserves

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/RaghavSood/swapdesk/balances"
	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/swaps"
)

// BuildTrade prices a V2 trade along path. For exact-input trades amount is
// the input; for exact-output trades it is the desired output.
func (r *Reader) BuildTrade(ctx context.Context, path []swaps.Token, amount swaps.TokenAmount, tradeType swaps.TradeType) (*swaps.Trade, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("path needs at least two tokens")
	}

	pairs := make([]Pair, len(path)-1)
	for i := range pairs {
		p, err := r.Pair(ctx, path[i], path[i+1])
		if err != nil {
			return nil, fmt.Errorf("pair %s/%s: %w", path[i].Symbol, path[i+1].Symbol, err)
		}
		pairs[i] = p
	}

	amt, overflow := uint256.FromBig(amount.Raw)
	if overflow {
		return nil, fmt.Errorf("amount overflows uint256")
	}

	var in, out *uint256.Int
	switch tradeType {
	case swaps.ExactInput:
		in = amt
		cur := amt
		for i, p := range pairs {
			reserveIn, reserveOut := p.ReservesFor(path[i].Wrapped(r.network))
			next, err := AmountOut(cur, reserveIn, reserveOut)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		out = cur
	case swaps.ExactOutput:
		out = amt
		cur := amt
		for i := len(pairs) - 1; i >= 0; i-- {
			reserveIn, reserveOut := pairs[i].ReservesFor(path[i].Wrapped(r.network))
			prev, err := AmountIn(cur, reserveIn, reserveOut)
			if err != nil {
				return nil, err
			}
			cur = prev
		}
		in = cur
	default:
		return nil, fmt.Errorf("unknown trade type %d", tradeType)
	}

	addrs := make([]common.Address, len(pairs))
	for i, p := range pairs {
		addrs[i] = p.Address
	}

	return &swaps.Trade{
		Type:         tradeType,
		Route:        swaps.Route{Path: path, Pairs: addrs},
		InputAmount:  swaps.NewAmount(path[0], in.ToBig()),
		OutputAmount: swaps.NewAmount(path[len(path)-1], out.ToBig()),
		Version:      swaps.VersionV2(),
	}, nil
}

var ErrNoExchange = errors.New("no v1 exchange for token")

// Exchange returns the V1 exchange of token.
func (r *Reader) Exchange(ctx context.Context, token common.Address) (common.Address, error) {
	data, err := chain.V1FactoryABI.Pack("getExchange", token)
	if err != nil {
		return common.Address{}, err
	}
	factory := r.network.V1Factory
	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &factory, Data: data}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("getExchange(%s): %w", token.Hex(), err)
	}
	decoded, err := chain.V1FactoryABI.Unpack("getExchange", out)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpacking getExchange: %w", err)
	}
	exchange := decoded[0].(common.Address)
	if exchange == (common.Address{}) {
		return common.Address{}, ErrNoExchange
	}
	return exchange, nil
}

// v1Reserves returns (eth, token) reserves held by a V1 exchange, read with
// one multicall.
func (r *Reader) v1Reserves(ctx context.Context, exchange, token common.Address) (*uint256.Int, *uint256.Int, error) {
	ethData, err := chain.Multicall3ABI.Pack("getEthBalance", exchange)
	if err != nil {
		return nil, nil, err
	}
	tokData, err := chain.ERC20ABI.Pack("balanceOf", exchange)
	if err != nil {
		return nil, nil, err
	}

	results, err := balances.Aggregate(ctx, r.caller, r.network.Multicall3, []balances.Call3{
		{Target: r.network.Multicall3, AllowFailure: false, CallData: ethData},
		{Target: token, AllowFailure: false, CallData: tokData},
	})
	if err != nil {
		return nil, nil, err
	}

	ethBal, _ := uint256.FromBig(new(big.Int).SetBytes(results[0].ReturnData))
	tokBal, _ := uint256.FromBig(new(big.Int).SetBytes(results[1].ReturnData))
	return ethBal, tokBal, nil
}

// BuildV1Trade prices an exact-input or exact-output trade on V1 exchanges.
// Token-to-token trades hop through ETH on both exchanges; the route carries
// the input side's exchange.
func (r *Reader) BuildV1Trade(ctx context.Context, input, output swaps.Token, amount swaps.TokenAmount, tradeType swaps.TradeType) (*swaps.Trade, error) {
	if input.Native && output.Native {
		return nil, fmt.Errorf("cannot swap ETH for ETH")
	}

	type leg struct {
		exchange common.Address
		in, out  *uint256.Int // reserves in trade direction
	}
	var legs []leg

	addLeg := func(tok swaps.Token, ethIsInput bool) error {
		ex, err := r.Exchange(ctx, tok.Address)
		if err != nil {
			return err
		}
		ethRes, tokRes, err := r.v1Reserves(ctx, ex, tok.Address)
		if err != nil {
			return err
		}
		if ethIsInput {
			legs = append(legs, leg{exchange: ex, in: ethRes, out: tokRes})
		} else {
			legs = append(legs, leg{exchange: ex, in: tokRes, out: ethRes})
		}
		return nil
	}

	if !input.Native {
		if err := addLeg(input, false); err != nil {
			return nil, err
		}
	}
	if !output.Native {
		if err := addLeg(output, true); err != nil {
			return nil, err
		}
	}

	amt, overflow := uint256.FromBig(amount.Raw)
	if overflow {
		return nil, fmt.Errorf("amount overflows uint256")
	}

	var in, out *uint256.Int
	var err error
	if tradeType == swaps.ExactInput {
		in, out = amt, amt
		for _, l := range legs {
			if out, err = AmountOut(out, l.in, l.out); err != nil {
				return nil, err
			}
		}
	} else {
		in, out = amt, amt
		for i := len(legs) - 1; i >= 0; i-- {
			if in, err = AmountIn(in, legs[i].in, legs[i].out); err != nil {
				return nil, err
			}
		}
	}

	exchanges := make([]common.Address, len(legs))
	for i, l := range legs {
		exchanges[i] = l.exchange
	}

	return &swaps.Trade{
		Type:         tradeType,
		Route:        swaps.Route{Path: []swaps.Token{input, output}, Pairs: exchanges},
		InputAmount:  swaps.NewAmount(input, in.ToBig()),
		OutputAmount: swaps.NewAmount(output, out.ToBig()),
		Version:      swaps.VersionV1(legs[0].exchange),
	}, nil
}
