package execution

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/txlog"
	"github.com/RaghavSood/swapdesk/wallet"
)

const (
	bpsDenominator = 10000

	// DefaultGasMarginBps pads estimates by 10%.
	DefaultGasMarginBps = 1000
)

// GasLimit returns ceil(estimate * (10000+marginBps) / 10000).
func GasLimit(estimate, marginBps uint64) uint64 {
	n := new(big.Int).SetUint64(estimate)
	n.Mul(n, new(big.Int).SetUint64(bpsDenominator+marginBps))
	n.Add(n, big.NewInt(bpsDenominator-1))
	n.Div(n, big.NewInt(bpsDenominator))
	return n.Uint64()
}

// Recorder receives a record for every accepted transaction.
type Recorder interface {
	Append(r txlog.Record)
}

// Submitter signs and sends the winning candidate and records it.
type Submitter struct {
	backend   Backend
	signer    wallet.Signer
	chainID   *big.Int
	marginBps uint64
	recorder  Recorder
	logger    *zap.Logger
}

func NewSubmitter(backend Backend, signer wallet.Signer, chainID int64, marginBps uint64, recorder Recorder, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{
		backend:   backend,
		signer:    signer,
		chainID:   big.NewInt(chainID),
		marginBps: marginBps,
		recorder:  recorder,
		logger:    logger,
	}
}

// From is the acting account.
func (s *Submitter) From() common.Address { return s.signer.Address() }

// MarginBps is the configured gas margin.
func (s *Submitter) MarginBps() uint64 { return s.marginBps }

// Submit sends a swap. See SubmitAs.
func (s *Submitter) Submit(ctx context.Context, est Estimate, summary string) (common.Hash, error) {
	return s.SubmitAs(ctx, "Swap", est, summary)
}

// SubmitAs signs and sends est.Call with a padded gas limit and appends one
// record with summary on acceptance. A user rejection yields ErrRejected and
// records nothing; any other failure yields a *SubmitError labelled op.
func (s *Submitter) SubmitAs(ctx context.Context, op string, est Estimate, summary string) (common.Hash, error) {
	hash, err := s.send(ctx, est)
	if err != nil {
		if IsRejected(err) {
			return common.Hash{}, ErrRejected
		}
		s.logger.Error(op+" failed",
			zap.Stringer("call", est.Call),
			zap.Any("args", est.Call.Args),
			zap.Stringer("value", valueOrZero(est.Call.Value)),
			zap.Error(err),
		)
		return common.Hash{}, &SubmitError{Op: op, Err: err}
	}

	s.recorder.Append(txlog.Record{
		Hash:    hash,
		Summary: summary,
		From:    s.signer.Address(),
		ChainID: s.chainID.Int64(),
	})
	return hash, nil
}

func (s *Submitter) send(ctx context.Context, est Estimate) (common.Hash, error) {
	from := s.signer.Address()

	data, err := est.Call.Data()
	if err != nil {
		return common.Hash{}, err
	}

	nonce, err := s.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting nonce: %w", err)
	}

	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting gas price: %w", err)
	}

	value := new(big.Int)
	if est.Call.HasValue() {
		value.Set(est.Call.Value)
	}

	to := est.Call.To
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      GasLimit(est.Gas, s.marginBps),
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := s.signer.SignTx(ctx, tx, s.chainID)
	if err != nil {
		return common.Hash{}, err
	}

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}

	s.logger.Info("transaction sent",
		zap.String("hash", signed.Hash().Hex()),
		zap.Stringer("call", est.Call),
		zap.Uint64("gas_limit", signed.Gas()),
	)
	return signed.Hash(), nil
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
