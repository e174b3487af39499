package mooniswap

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/swaps"
)

// DefaultParts is how finely getExpectedReturn splits the amount.
const DefaultParts = 10

// Quote asks the aggregator how much of to amount buys and how it would
// split the trade.
func (s *Swapper) Quote(ctx context.Context, amount swaps.TokenAmount, to swaps.Token) (Quote, error) {
	if s.network.OneSplit == chain.ZeroAddress {
		return Quote{}, ErrNoAggregator
	}

	from := amount.Token
	data, err := chain.OneSplitABI.Pack("getExpectedReturn",
		tokenAddress(from), tokenAddress(to), new(big.Int).Set(amount.Raw), big.NewInt(DefaultParts), BaseFlags())
	if err != nil {
		return Quote{}, fmt.Errorf("packing getExpectedReturn: %w", err)
	}

	oneSplit := s.network.OneSplit
	out, err := s.caller.CallContract(ctx, ethereum.CallMsg{To: &oneSplit, Data: data}, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("getExpectedReturn: %w", err)
	}
	decoded, err := chain.OneSplitABI.Unpack("getExpectedReturn", out)
	if err != nil {
		return Quote{}, fmt.Errorf("unpacking getExpectedReturn: %w", err)
	}

	returnAmount := decoded[0].(*big.Int)
	distribution := decoded[1].([]*big.Int)

	s.logger.Debug("aggregator quote",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.String("amount", amount.Raw.String()),
		zap.String("return", returnAmount.String()),
		zap.Stringer("strategy", ChooseStrategy(distribution)))

	trade := &swaps.Trade{
		Type:         swaps.ExactInput,
		Route:        swaps.Route{Path: []swaps.Token{from, to}},
		InputAmount:  amount,
		OutputAmount: swaps.NewAmount(to, returnAmount),
		Version:      swaps.RouteVersion{Kind: swaps.Aggregator},
	}
	return Quote{Trade: trade, FromAmount: amount, Distribution: distribution}, nil
}
