package execution

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sequencer estimates candidate calls concurrently and picks the first one,
// in declaration order, that estimated successfully.
type Sequencer struct {
	backend Estimator
	logger  *zap.Logger
}

func NewSequencer(backend Estimator, logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{backend: backend, logger: logger}
}

// EstimateAll estimates every call. The returned slice is index-aligned with
// calls regardless of completion order.
func (s *Sequencer) EstimateAll(ctx context.Context, from common.Address, calls []Call) ([]Estimate, error) {
	results := make([]Estimate, len(calls))

	var g errgroup.Group
	for i, call := range calls {
		g.Go(func() error {
			results[i] = s.estimate(ctx, from, call)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run returns the winning estimate. When every candidate fails, the error of
// the last candidate is returned.
func (s *Sequencer) Run(ctx context.Context, from common.Address, calls []Call) (Estimate, error) {
	if len(calls) == 0 {
		return Estimate{}, ErrNoCandidates
	}

	results, err := s.EstimateAll(ctx, from, calls)
	if err != nil {
		return Estimate{}, err
	}

	if winner, ok := FirstSuccess(results); ok {
		s.logger.Debug("selected candidate",
			zap.Stringer("call", winner.Call),
			zap.Uint64("gas", winner.Gas),
		)
		return winner, nil
	}

	last := results[len(results)-1]
	return last, last.Err
}

// FirstSuccess scans results in order and returns the first success.
func FirstSuccess(results []Estimate) (Estimate, bool) {
	for _, r := range results {
		if r.OK() {
			return r, true
		}
	}
	return Estimate{}, false
}

func (s *Sequencer) estimate(ctx context.Context, from common.Address, call Call) Estimate {
	msg, err := call.Msg(from)
	if err != nil {
		return Estimate{Call: call, Err: err}
	}

	gas, err := s.backend.EstimateGas(ctx, msg)
	if err == nil {
		return Estimate{Call: call, Gas: gas}
	}

	s.logger.Debug("gas estimate failed, simulating call to extract error",
		zap.Stringer("call", call),
		zap.Error(err),
	)

	_, callErr := s.backend.CallContract(ctx, msg, nil)
	if callErr == nil {
		s.logger.Debug("unexpected successful call after failed estimate", zap.Stringer("call", call))
	} else {
		s.logger.Debug("call threw error", zap.Stringer("call", call), zap.Error(callErr))
	}

	return Estimate{Call: call, Err: classify(call, err, callErr)}
}
