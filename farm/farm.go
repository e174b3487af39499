// Package farm drives YAM-style staking pools: stake, unstake, harvest and
// redeem, plus the read-only views the dashboard needs.
package farm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/balances"
	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/execution"
	"github.com/RaghavSood/swapdesk/swaps"
)

var (
	ErrZeroAmount = errors.New("amount must be positive")
	ErrNoAccount  = errors.New("no account configured")
)

// Pool is one staking pool and the token it accepts.
type Pool struct {
	Name    string
	Address common.Address
	Token   swaps.Token
}

// Farm submits pool actions for the executor's account.
type Farm struct {
	caller ethereum.ContractCaller
	exec   *execution.Executor
	reward swaps.Token
	logger *zap.Logger
}

// New returns a Farm paying out reward. exec may be nil for read-only use.
func New(caller ethereum.ContractCaller, exec *execution.Executor, reward swaps.Token, logger *zap.Logger) *Farm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Farm{caller: caller, exec: exec, reward: reward, logger: logger}
}

func poolCall(pool Pool, method string, args ...any) execution.Call {
	return execution.Call{To: pool.Address, ABI: chain.StakingPoolABI, Method: method, Args: args}
}

func (f *Farm) execute(ctx context.Context, op string, call execution.Call, summary string) (common.Hash, error) {
	if f.exec == nil {
		return common.Hash{}, ErrNoAccount
	}
	f.logger.Debug("farm action", zap.String("op", op), zap.Stringer("call", call))
	return f.exec.Execute(ctx, op, []execution.Call{call}, summary)
}

// Stake deposits amount of the pool token.
func (f *Farm) Stake(ctx context.Context, pool Pool, amount swaps.TokenAmount) (common.Hash, error) {
	if amount.Raw == nil || amount.Raw.Sign() <= 0 {
		return common.Hash{}, ErrZeroAmount
	}
	summary := fmt.Sprintf("Stake %s %s in the %s pool", amount.ToSignificant(6), pool.Token.Symbol, pool.Name)
	return f.execute(ctx, "Stake", poolCall(pool, "stake", new(big.Int).Set(amount.Raw)), summary)
}

// Unstake withdraws amount of the pool token without claiming rewards.
func (f *Farm) Unstake(ctx context.Context, pool Pool, amount swaps.TokenAmount) (common.Hash, error) {
	if amount.Raw == nil || amount.Raw.Sign() <= 0 {
		return common.Hash{}, ErrZeroAmount
	}
	summary := fmt.Sprintf("Unstake %s %s from the %s pool", amount.ToSignificant(6), pool.Token.Symbol, pool.Name)
	return f.execute(ctx, "Unstake", poolCall(pool, "withdraw", new(big.Int).Set(amount.Raw)), summary)
}

// Harvest claims accrued rewards.
func (f *Farm) Harvest(ctx context.Context, pool Pool) (common.Hash, error) {
	summary := fmt.Sprintf("Harvest %s from the %s pool", f.reward.Symbol, pool.Name)
	return f.execute(ctx, "Harvest", poolCall(pool, "getReward"), summary)
}

// Redeem withdraws the whole stake and claims rewards in one transaction.
func (f *Farm) Redeem(ctx context.Context, pool Pool) (common.Hash, error) {
	summary := fmt.Sprintf("Redeem %s and %s from the %s pool", pool.Token.Symbol, f.reward.Symbol, pool.Name)
	return f.execute(ctx, "Redeem", poolCall(pool, "exit"), summary)
}

// Approve lets the pool pull the account's pool tokens.
func (f *Farm) Approve(ctx context.Context, pool Pool) (common.Hash, error) {
	if f.exec == nil {
		return common.Hash{}, ErrNoAccount
	}
	return balances.Approve(ctx, f.exec, pool.Token, pool.Address)
}

func (f *Farm) view(ctx context.Context, to common.Address, contract abi.ABI, method string, args ...any) (*big.Int, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}
	out, err := f.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling %s on %s: %w", method, to.Hex(), err)
	}
	decoded, err := contract.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", method, err)
	}
	return decoded[0].(*big.Int), nil
}

// Earned is the reward claimable by account.
func (f *Farm) Earned(ctx context.Context, pool Pool, account common.Address) (swaps.TokenAmount, error) {
	v, err := f.view(ctx, pool.Address, chain.StakingPoolABI, "earned", account)
	if err != nil {
		return swaps.TokenAmount{}, err
	}
	return swaps.NewAmount(f.reward, v), nil
}

// Staked is the pool token balance account has deposited.
func (f *Farm) Staked(ctx context.Context, pool Pool, account common.Address) (swaps.TokenAmount, error) {
	v, err := f.view(ctx, pool.Address, chain.StakingPoolABI, "balanceOf", account)
	if err != nil {
		return swaps.TokenAmount{}, err
	}
	return swaps.NewAmount(pool.Token, v), nil
}

// Allowance is how much of the pool token the pool may pull from account.
func (f *Farm) Allowance(ctx context.Context, pool Pool, account common.Address) (*big.Int, error) {
	return f.view(ctx, pool.Token.Address, chain.ERC20ABI, "allowance", account, pool.Address)
}

// NeedsApproval reports whether staking amount would exceed the allowance.
func (f *Farm) NeedsApproval(ctx context.Context, pool Pool, account common.Address, amount *big.Int) (bool, error) {
	allowed, err := f.Allowance(ctx, pool, account)
	if err != nil {
		return false, err
	}
	return allowed.Cmp(amount) < 0, nil
}

// ScalingFactor reads the rebasing multiplier of the reward token, scaled
// down from 18 decimals.
func (f *Farm) ScalingFactor(ctx context.Context) (decimal.Decimal, error) {
	v, err := f.view(ctx, f.reward.Address, chain.YamABI, "yamsScalingFactor")
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(v, -18), nil
}
