package swaps

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type TradeType int

const (
	ExactInput TradeType = iota
	ExactOutput
)

func (t TradeType) String() string {
	if t == ExactOutput {
		return "exact-output"
	}
	return "exact-input"
}

// VersionKind is the protocol family a trade executes on.
type VersionKind int

const (
	VersionUnknown VersionKind = iota
	V1
	V2
	Aggregator
)

// RouteVersion tags a route with its protocol. V1 routes carry the address
// of the legacy exchange contract for the input side.
type RouteVersion struct {
	Kind     VersionKind
	Exchange common.Address
}

func VersionV2() RouteVersion { return RouteVersion{Kind: V2} }

func VersionV1(exchange common.Address) RouteVersion {
	return RouteVersion{Kind: V1, Exchange: exchange}
}

func (v RouteVersion) String() string {
	switch v.Kind {
	case V1:
		return "v1"
	case V2:
		return "v2"
	case Aggregator:
		return "aggregator"
	default:
		return ""
	}
}

// ParseVersion parses "v1", "v2" or "aggregator". The V1 exchange address is
// filled in separately.
func ParseVersion(s string) (RouteVersion, error) {
	switch s {
	case "v1":
		return RouteVersion{Kind: V1}, nil
	case "v2", "":
		return VersionV2(), nil
	case "aggregator":
		return RouteVersion{Kind: Aggregator}, nil
	}
	return RouteVersion{}, fmt.Errorf("unknown route version %q", s)
}

// Route is the token path of a trade and the pairs it crosses.
type Route struct {
	Path  []Token
	Pairs []common.Address
}

func (r Route) Input() Token  { return r.Path[0] }
func (r Route) Output() Token { return r.Path[len(r.Path)-1] }

// Trade is a priced route with its amounts. It is built upstream and not
// modified afterwards.
type Trade struct {
	Type         TradeType
	Route        Route
	InputAmount  TokenAmount
	OutputAmount TokenAmount
	Version      RouteVersion
}

const bipsBase = 10000

// MinimumAmountOut is the least output accepted at slippageBps. Exact-output
// trades return the output unchanged.
func (t *Trade) MinimumAmountOut(slippageBps uint32) *big.Int {
	out := new(big.Int).Set(t.OutputAmount.Raw)
	if t.Type == ExactOutput {
		return out
	}
	out.Mul(out, big.NewInt(bipsBase))
	return out.Div(out, big.NewInt(bipsBase+int64(slippageBps)))
}

// MaximumAmountIn is the most input spent at slippageBps. Exact-input trades
// return the input unchanged.
func (t *Trade) MaximumAmountIn(slippageBps uint32) *big.Int {
	in := new(big.Int).Set(t.InputAmount.Raw)
	if t.Type == ExactInput {
		return in
	}
	in.Mul(in, big.NewInt(bipsBase+int64(slippageBps)))
	return in.Div(in, big.NewInt(bipsBase))
}
