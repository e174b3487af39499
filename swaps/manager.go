package swaps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/ens"
	"github.com/RaghavSood/swapdesk/execution"
)

// State is the readiness of a swap.
type State int

const (
	StateInvalid State = iota
	StateLoading
	StateValid
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateValid:
		return "valid"
	default:
		return "invalid"
	}
}

const (
	ErrMsgMissingDependencies = "Missing dependencies"
	ErrMsgInvalidRecipient    = "Invalid recipient"
	ErrMsgInvalidSlippage     = "Invalid slippage tolerance"
)

// NotReadyError is returned by Swap when Prepare did not reach StateValid.
type NotReadyError struct {
	State  State
	Reason string
}

func (e *NotReadyError) Error() string {
	if e.Reason == "" {
		return "swap not ready: " + e.State.String()
	}
	return e.Reason
}

// RecipientResolver maps an address or name to an address. ens.ErrNotFound
// means the input can never resolve; other errors are transient.
type RecipientResolver interface {
	Resolve(ctx context.Context, input string) (common.Address, error)
}

// Prepared is the outcome of Prepare.
type Prepared struct {
	State     State
	Error     string
	Calls     []execution.Call
	Recipient common.Address
}

// Manager builds and executes router and legacy-exchange swaps for the
// acting account.
type Manager struct {
	network  *chain.Network
	exec     *execution.Executor
	resolver RecipientResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewManager creates a Manager. A nil executor or network leaves every swap in
// StateInvalid.
func NewManager(network *chain.Network, exec *execution.Executor, resolver RecipientResolver, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		network:  network,
		exec:     exec,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

func (m *Manager) account() common.Address {
	if m.exec == nil || m.exec.Submitter == nil {
		return common.Address{}
	}
	return m.exec.Submitter.From()
}

// Prepare resolves the recipient and builds the candidate calls.
func (m *Manager) Prepare(ctx context.Context, trade *Trade, opts Options) Prepared {
	account := m.account()
	if trade == nil || m.network == nil || m.exec == nil || account == (common.Address{}) {
		return Prepared{State: StateInvalid, Error: ErrMsgMissingDependencies}
	}
	if err := opts.Validate(); err != nil {
		return Prepared{State: StateInvalid, Error: ErrMsgInvalidSlippage}
	}

	env := Env{Account: account, Network: m.network, Now: m.now()}
	recipient := account
	if opts.Recipient != "" {
		if m.resolver == nil {
			return Prepared{State: StateInvalid, Error: ErrMsgMissingDependencies}
		}
		addr, err := m.resolver.Resolve(ctx, opts.Recipient)
		switch {
		case errors.Is(err, ens.ErrNotFound):
			return Prepared{State: StateInvalid, Error: ErrMsgInvalidRecipient}
		case err != nil:
			m.logger.Debug("recipient lookup pending", zap.String("recipient", opts.Recipient), zap.Error(err))
			return Prepared{State: StateLoading}
		}
		recipient = addr
		env.Recipient = &addr
	}

	calls := BuildCandidates(trade, opts, env)
	if len(calls) == 0 {
		return Prepared{State: StateInvalid, Error: ErrMsgMissingDependencies}
	}
	return Prepared{State: StateValid, Calls: calls, Recipient: recipient}
}

// Swap executes trade and returns the transaction hash. Estimation errors,
// execution.ErrRejected and *execution.SubmitError pass through unchanged.
func (m *Manager) Swap(ctx context.Context, trade *Trade, opts Options) (common.Hash, error) {
	if err := opts.Validate(); err != nil {
		return common.Hash{}, err
	}
	p := m.Prepare(ctx, trade, opts)
	if p.State != StateValid {
		return common.Hash{}, &NotReadyError{State: p.State, Reason: p.Error}
	}

	summary := Summary(trade, opts.Recipient, p.Recipient, m.account())
	hash, err := m.exec.Execute(ctx, "Swap", p.Calls, summary)
	if err != nil {
		return common.Hash{}, err
	}

	m.logger.Info("swap submitted",
		zap.String("hash", hash.Hex()),
		zap.String("version", trade.Version.String()),
		zap.String("summary", summary),
	)
	return hash, nil
}

// Estimate runs only the estimation step and returns the winning call's
// padded gas limit.
func (m *Manager) Estimate(ctx context.Context, trade *Trade, opts Options) (uint64, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}
	p := m.Prepare(ctx, trade, opts)
	if p.State != StateValid {
		return 0, &NotReadyError{State: p.State, Reason: p.Error}
	}
	est, err := m.exec.Sequencer.Run(ctx, m.account(), p.Calls)
	if err != nil {
		return 0, err
	}
	return execution.GasLimit(est.Gas, m.exec.Submitter.MarginBps()), nil
}

// String is used in logs.
func (p Prepared) String() string {
	return fmt.Sprintf("%s (%d calls)", p.State, len(p.Calls))
}
