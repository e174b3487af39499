package execution

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Call is one way of executing an action on-chain: a contract method with its
// arguments and the native value to attach.
type Call struct {
	To     common.Address
	ABI    abi.ABI
	Method string
	Args   []any
	Value  *big.Int
}

// Data ABI-encodes the method call.
func (c Call) Data() ([]byte, error) {
	data, err := c.ABI.Pack(c.Method, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", c.Method, err)
	}
	return data, nil
}

// HasValue reports whether the call carries a non-zero native value.
func (c Call) HasValue() bool {
	return c.Value != nil && c.Value.Sign() > 0
}

// Msg builds the message used for estimation and simulation. Value is only
// attached when non-zero.
func (c Call) Msg(from common.Address) (ethereum.CallMsg, error) {
	data, err := c.Data()
	if err != nil {
		return ethereum.CallMsg{}, err
	}
	to := c.To
	msg := ethereum.CallMsg{From: from, To: &to, Data: data}
	if c.HasValue() {
		msg.Value = new(big.Int).Set(c.Value)
	}
	return msg, nil
}

func (c Call) String() string {
	return fmt.Sprintf("%s@%s", c.Method, c.To.Hex())
}

// Estimate is the outcome of estimating one Call: Gas on success, Err otherwise.
type Estimate struct {
	Call Call
	Gas  uint64
	Err  error
}

func (e Estimate) OK() bool { return e.Err == nil }

// Estimator is the read side of a chain backend.
type Estimator interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Backend is everything the sequencer and submitter need from a node.
// *ethclient.Client satisfies it.
type Backend interface {
	Estimator
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}
