package swaps

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/execution"
)

const DefaultDeadlineSeconds = 20 * 60

// Options are the caller's choices for one swap.
type Options struct {
	// SlippageBps is used as given; zero means no tolerance.
	SlippageBps     uint32
	DeadlineSeconds uint64
	// Recipient is an address or ENS name. Empty means the acting account.
	Recipient string
}

// Validate checks the slippage tolerance.
func (o Options) Validate() error {
	return ValidateSlippage(o.SlippageBps)
}

func (o Options) withDefaults() Options {
	if o.DeadlineSeconds == 0 {
		o.DeadlineSeconds = DefaultDeadlineSeconds
	}
	return o
}

// Env is the resolved execution context. A nil Network or zero Account means
// the backend or account is not available yet.
type Env struct {
	Account common.Address
	Network *chain.Network
	// Recipient is the resolved address of Options.Recipient; nil while
	// unresolved.
	Recipient *common.Address
	Now       time.Time
}

func (e Env) recipient(opts Options) (common.Address, bool) {
	if opts.Recipient == "" {
		return e.Account, true
	}
	if e.Recipient == nil {
		return common.Address{}, false
	}
	return *e.Recipient, true
}

// BuildCandidates returns the calls that can execute trade, in priority
// order. An empty result means some input is not available yet.
func BuildCandidates(trade *Trade, opts Options, env Env) []execution.Call {
	if trade == nil || env.Network == nil || env.Account == (common.Address{}) {
		return nil
	}
	if opts.Validate() != nil {
		return nil
	}
	recipient, ok := env.recipient(opts)
	if !ok {
		return nil
	}
	if trade.Route.Input().Native && trade.Route.Output().Native {
		return nil
	}

	opts = opts.withDefaults()
	now := env.Now
	if now.IsZero() {
		now = time.Now()
	}
	deadline := big.NewInt(now.Unix() + int64(opts.DeadlineSeconds))

	switch trade.Version.Kind {
	case V2:
		calls := []execution.Call{v2Call(trade, *env.Network, opts.SlippageBps, recipient, deadline, false)}
		if trade.Type == ExactInput {
			calls = append(calls, v2Call(trade, *env.Network, opts.SlippageBps, recipient, deadline, true))
		}
		return calls
	case V1:
		if trade.Version.Exchange == (common.Address{}) {
			return nil
		}
		return []execution.Call{v1Call(trade, opts.SlippageBps, recipient, deadline)}
	default:
		return nil
	}
}

func v2Call(trade *Trade, n chain.Network, slippageBps uint32, to common.Address, deadline *big.Int, feeOnTransfer bool) execution.Call {
	etherIn := trade.Route.Input().Native
	etherOut := trade.Route.Output().Native

	path := make([]common.Address, len(trade.Route.Path))
	for i, t := range trade.Route.Path {
		path[i] = t.Wrapped(n)
	}

	amountIn := trade.MaximumAmountIn(slippageBps)
	amountOut := trade.MinimumAmountOut(slippageBps)

	call := execution.Call{To: n.V2Router, ABI: chain.V2RouterABI, Value: new(big.Int)}

	switch trade.Type {
	case ExactInput:
		suffix := ""
		if feeOnTransfer {
			suffix = "SupportingFeeOnTransferTokens"
		}
		switch {
		case etherIn:
			call.Method = "swapExactETHForTokens" + suffix
			call.Args = []any{amountOut, path, to, deadline}
			call.Value = amountIn
		case etherOut:
			call.Method = "swapExactTokensForETH" + suffix
			call.Args = []any{amountIn, amountOut, path, to, deadline}
		default:
			call.Method = "swapExactTokensForTokens" + suffix
			call.Args = []any{amountIn, amountOut, path, to, deadline}
		}
	case ExactOutput:
		switch {
		case etherIn:
			call.Method = "swapETHForExactTokens"
			call.Args = []any{amountOut, path, to, deadline}
			call.Value = amountIn
		case etherOut:
			call.Method = "swapTokensForExactETH"
			call.Args = []any{amountOut, amountIn, path, to, deadline}
		default:
			call.Method = "swapTokensForExactTokens"
			call.Args = []any{amountOut, amountIn, path, to, deadline}
		}
	}
	return call
}

func v1Call(trade *Trade, slippageBps uint32, to common.Address, deadline *big.Int) execution.Call {
	input := trade.Route.Input()
	output := trade.Route.Output()

	maxIn := trade.MaximumAmountIn(slippageBps)
	minOut := trade.MinimumAmountOut(slippageBps)

	call := execution.Call{To: trade.Version.Exchange, ABI: chain.V1ExchangeABI, Value: new(big.Int)}

	switch trade.Type {
	case ExactInput:
		switch {
		case input.Native:
			call.Method = "ethToTokenTransferInput"
			call.Args = []any{minOut, deadline, to}
			call.Value = maxIn
		case output.Native:
			call.Method = "tokenToEthTransferInput"
			call.Args = []any{maxIn, minOut, deadline, to}
		default:
			call.Method = "tokenToTokenTransferInput"
			call.Args = []any{maxIn, minOut, big.NewInt(1), deadline, to, output.Address}
		}
	case ExactOutput:
		outputAmount := new(big.Int).Set(trade.OutputAmount.Raw)
		switch {
		case input.Native:
			call.Method = "ethToTokenTransferOutput"
			call.Args = []any{outputAmount, deadline, to}
			call.Value = maxIn
		case output.Native:
			call.Method = "tokenToEthTransferOutput"
			call.Args = []any{outputAmount, maxIn, deadline, to}
		default:
			call.Method = "tokenToTokenTransferOutput"
			call.Args = []any{outputAmount, maxIn, new(big.Int).Set(math.MaxBig256), deadline, to, output.Address}
		}
	}
	return call
}
