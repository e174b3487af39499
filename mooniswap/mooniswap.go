// Package mooniswap executes swaps through the OneSplit aggregator or
// directly against a Mooniswap pool.
package mooniswap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/execution"
	"github.com/RaghavSood/swapdesk/swaps"
)

// Strategy selects the contract a swap goes through.
type Strategy int

const (
	StrategyPool Strategy = iota
	StrategyAggregator
)

func (s Strategy) String() string {
	if s == StrategyAggregator {
		return "aggregator"
	}
	return "pool"
}

// ChooseStrategy uses the aggregator when the distribution spreads the
// amount across more than one source.
func ChooseStrategy(distribution []*big.Int) Strategy {
	sources := 0
	for _, d := range distribution {
		if d != nil && d.Sign() > 0 {
			sources++
		}
	}
	if sources > 1 {
		return StrategyAggregator
	}
	return StrategyPool
}

var (
	ErrNoPool            = errors.New("no mooniswap pool for pair")
	ErrNoAggregator      = errors.New("no aggregator deployed on this chain")
	ErrMissingDependency = errors.New("missing dependencies")
)

const (
	poolCacheSize = 256
	poolCacheTTL  = 10 * time.Minute
)

// Quote is an aggregator-priced trade. FromAmount is the amount actually
// sent, Distribution the per-source split returned by getExpectedReturn.
type Quote struct {
	Trade        *swaps.Trade
	FromAmount   swaps.TokenAmount
	Distribution []*big.Int
}

type pairKey struct {
	token0, token1 common.Address
}

// Swapper builds and executes Mooniswap and OneSplit calls.
type Swapper struct {
	network  chain.Network
	caller   ethereum.ContractCaller
	exec     *execution.Executor
	referral common.Address
	pools    *expirable.LRU[pairKey, common.Address]
	logger   *zap.Logger
}

// NewSwapper creates a Swapper. A zero referral falls back to
// chain.DefaultReferral.
func NewSwapper(network chain.Network, caller ethereum.ContractCaller, exec *execution.Executor, referral common.Address, logger *zap.Logger) *Swapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if referral == (common.Address{}) {
		referral = chain.DefaultReferral
	}
	return &Swapper{
		network:  network,
		caller:   caller,
		exec:     exec,
		referral: referral,
		pools:    expirable.NewLRU[pairKey, common.Address](poolCacheSize, nil, poolCacheTTL),
		logger:   logger,
	}
}

// ReferralFrom parses a configured referral, falling back to the default
// when it is empty or malformed.
func ReferralFrom(configured string) common.Address {
	if common.IsHexAddress(configured) {
		return common.HexToAddress(configured)
	}
	return chain.DefaultReferral
}

// Referral is the address embedded in pool swaps.
func (s *Swapper) Referral() common.Address { return s.referral }

// tokenAddress encodes the native coin as the zero address.
func tokenAddress(t swaps.Token) common.Address {
	if t.Native {
		return chain.ZeroAddress
	}
	return t.Address
}

func nativeValue(q Quote) *big.Int {
	if q.Trade.Route.Input().Native {
		return new(big.Int).Set(q.FromAmount.Raw)
	}
	return new(big.Int)
}

// MinReturn applies slippageBps to amount: amount*(10000-slippage)/10000.
func MinReturn(amount *big.Int, slippageBps uint32) (*big.Int, error) {
	if err := swaps.ValidateSlippage(slippageBps); err != nil {
		return nil, err
	}
	out := new(big.Int).Mul(amount, big.NewInt(swaps.MaxSlippageBps-int64(slippageBps)))
	return out.Div(out, big.NewInt(swaps.MaxSlippageBps)), nil
}

// AggregatorCall builds the OneSplit swap with flags. minReturn is derived
// from the input amount.
func (s *Swapper) AggregatorCall(q Quote, slippageBps uint32, flags *big.Int) (execution.Call, error) {
	minReturn, err := MinReturn(q.FromAmount.Raw, slippageBps)
	if err != nil {
		return execution.Call{}, err
	}
	distribution := make([]*big.Int, len(q.Distribution))
	for i, d := range q.Distribution {
		distribution[i] = new(big.Int).Set(d)
	}
	return execution.Call{
		To:     s.network.OneSplit,
		ABI:    chain.OneSplitABI,
		Method: "swap",
		Args: []any{
			tokenAddress(q.Trade.Route.Input()),
			tokenAddress(q.Trade.Route.Output()),
			new(big.Int).Set(q.FromAmount.Raw),
			minReturn,
			distribution,
			new(big.Int).Set(flags),
		},
		Value: nativeValue(q),
	}, nil
}

// PoolCall builds the direct pool swap. minReturn is derived from the output
// amount.
func (s *Swapper) PoolCall(pool common.Address, q Quote, slippageBps uint32) (execution.Call, error) {
	minReturn, err := MinReturn(q.Trade.OutputAmount.Raw, slippageBps)
	if err != nil {
		return execution.Call{}, err
	}
	return execution.Call{
		To:     pool,
		ABI:    chain.MooniswapABI,
		Method: "swap",
		Args: []any{
			tokenAddress(q.Trade.Route.Input()),
			tokenAddress(q.Trade.Route.Output()),
			new(big.Int).Set(q.FromAmount.Raw),
			minReturn,
			s.referral,
		},
		Value: nativeValue(q),
	}, nil
}

// Pool returns the Mooniswap pool for a pair, looked up with the tokens in
// ascending address order.
func (s *Swapper) Pool(ctx context.Context, a, b swaps.Token) (common.Address, error) {
	t0, t1 := tokenAddress(a), tokenAddress(b)
	if bytes.Compare(t0[:], t1[:]) > 0 {
		t0, t1 = t1, t0
	}
	key := pairKey{token0: t0, token1: t1}
	if pool, ok := s.pools.Get(key); ok {
		return pool, nil
	}

	data, err := chain.MooniswapFactoryABI.Pack("pools", t0, t1)
	if err != nil {
		return common.Address{}, err
	}
	factory := s.network.MooniswapFactory
	out, err := s.caller.CallContract(ctx, ethereum.CallMsg{To: &factory, Data: data}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying pool %s/%s: %w", t0.Hex(), t1.Hex(), err)
	}
	decoded, err := chain.MooniswapFactoryABI.Unpack("pools", out)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpacking pools: %w", err)
	}
	pool := decoded[0].(common.Address)
	if pool == (common.Address{}) {
		return common.Address{}, ErrNoPool
	}

	s.pools.Add(key, pool)
	return pool, nil
}

func (s *Swapper) ready(q Quote) error {
	if s.exec == nil || q.Trade == nil || q.FromAmount.Raw == nil {
		return ErrMissingDependency
	}
	if s.exec.Submitter.From() == (common.Address{}) {
		return ErrMissingDependency
	}
	return nil
}

// Summary has neither a recipient nor a version clause; these swaps always
// pay the acting account.
func Summary(q Quote) string {
	t := *q.Trade
	t.Version = swaps.VersionV2()
	return swaps.Summary(&t, "", common.Address{}, common.Address{})
}

// Swap executes q with the given strategy. The aggregator path tries the CHI
// rebate flags first and only estimates the plain flags when that fails.
func (s *Swapper) Swap(ctx context.Context, q Quote, strategy Strategy, slippageBps uint32) (common.Hash, error) {
	if err := s.ready(q); err != nil {
		return common.Hash{}, err
	}
	if err := swaps.ValidateSlippage(slippageBps); err != nil {
		return common.Hash{}, err
	}

	var (
		winner execution.Estimate
		err    error
	)
	switch strategy {
	case StrategyAggregator:
		winner, err = s.estimateAggregator(ctx, q, slippageBps)
	default:
		winner, err = s.estimatePool(ctx, q, slippageBps)
	}
	if err != nil {
		return common.Hash{}, err
	}

	hash, err := s.exec.Submitter.Submit(ctx, winner, Summary(q))
	if err != nil {
		return common.Hash{}, err
	}
	s.logger.Info("mooniswap swap submitted",
		zap.String("hash", hash.Hex()),
		zap.Stringer("strategy", strategy),
		zap.String("flags", flagsOf(winner)),
	)
	return hash, nil
}

func (s *Swapper) estimateAggregator(ctx context.Context, q Quote, slippageBps uint32) (execution.Estimate, error) {
	if s.network.OneSplit == (common.Address{}) {
		return execution.Estimate{}, ErrNoAggregator
	}
	from := s.exec.Submitter.From()

	chi, err := s.AggregatorCall(q, slippageBps, ChiFlags())
	if err != nil {
		return execution.Estimate{}, err
	}
	est, err := s.exec.Sequencer.Run(ctx, from, []execution.Call{chi})
	if err == nil {
		return est, nil
	}
	s.logger.Debug("estimate with chi burn failed, retrying without", zap.Error(err))

	base, err := s.AggregatorCall(q, slippageBps, BaseFlags())
	if err != nil {
		return execution.Estimate{}, err
	}
	return s.exec.Sequencer.Run(ctx, from, []execution.Call{base})
}

func (s *Swapper) estimatePool(ctx context.Context, q Quote, slippageBps uint32) (execution.Estimate, error) {
	pool, err := s.Pool(ctx, q.Trade.Route.Input(), q.Trade.Route.Output())
	if err != nil {
		return execution.Estimate{}, err
	}
	call, err := s.PoolCall(pool, q, slippageBps)
	if err != nil {
		return execution.Estimate{}, err
	}
	return s.exec.Sequencer.Run(ctx, s.exec.Submitter.From(), []execution.Call{call})
}

// GasEstimates holds margin-adjusted limits for both flag sets; nil means
// the estimate failed.
type GasEstimates struct {
	Regular *uint64
	Chi     *uint64
}

// EstimateBoth estimates the aggregator swap with and without the CHI flags
// for display before the user commits. Pool strategies return empty results.
func (s *Swapper) EstimateBoth(ctx context.Context, q Quote, slippageBps uint32) (GasEstimates, error) {
	if err := s.ready(q); err != nil {
		return GasEstimates{}, err
	}
	if ChooseStrategy(q.Distribution) != StrategyAggregator || s.network.OneSplit == (common.Address{}) {
		return GasEstimates{}, nil
	}

	base, err := s.AggregatorCall(q, slippageBps, BaseFlags())
	if err != nil {
		return GasEstimates{}, err
	}
	chi, err := s.AggregatorCall(q, slippageBps, ChiFlags())
	if err != nil {
		return GasEstimates{}, err
	}
	results, err := s.exec.Sequencer.EstimateAll(ctx, s.exec.Submitter.From(), []execution.Call{base, chi})
	if err != nil {
		return GasEstimates{}, err
	}

	margin := s.exec.Submitter.MarginBps()
	limit := func(e execution.Estimate) *uint64 {
		if !e.OK() {
			return nil
		}
		g := execution.GasLimit(e.Gas, margin)
		return &g
	}
	return GasEstimates{Regular: limit(results[0]), Chi: limit(results[1])}, nil
}

func flagsOf(e execution.Estimate) string {
	if len(e.Call.Args) != 6 {
		return ""
	}
	if f, ok := e.Call.Args[5].(*big.Int); ok {
		return "0x" + f.Text(16)
	}
	return ""
}
