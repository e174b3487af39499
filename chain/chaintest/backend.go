// Package chaintest provides an in-memory node backend for tests.
package chaintest

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend answers estimates and calls through the configured funcs and
// records what was sent.
type Backend struct {
	mu sync.Mutex

	EstimateFunc func(msg ethereum.CallMsg) (uint64, error)
	CallFunc     func(msg ethereum.CallMsg) ([]byte, error)
	SendErr      error

	Nonce    uint64
	GasPrice *big.Int

	Estimated []ethereum.CallMsg
	Sent      []*types.Transaction
}

func New() *Backend {
	return &Backend{GasPrice: big.NewInt(1e9)}
}

func (b *Backend) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	b.Estimated = append(b.Estimated, msg)
	b.mu.Unlock()
	if b.EstimateFunc == nil {
		return 21000, nil
	}
	return b.EstimateFunc(msg)
}

func (b *Backend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if b.CallFunc == nil {
		return nil, errors.New("execution reverted")
	}
	return b.CallFunc(msg)
}

func (b *Backend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return b.Nonce, nil
}

func (b *Backend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return b.GasPrice, nil
}

func (b *Backend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if b.SendErr != nil {
		return b.SendErr
	}
	b.mu.Lock()
	b.Sent = append(b.Sent, tx)
	b.mu.Unlock()
	return nil
}

// SentCount is safe to call concurrently with sends.
func (b *Backend) SentCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Sent)
}

// Method returns the name of the method data calls in contract, or "".
func Method(contract abi.ABI, data []byte) string {
	if len(data) < 4 {
		return ""
	}
	m, err := contract.MethodById(data[:4])
	if err != nil {
		return ""
	}
	return m.Name
}

// Args decodes the arguments of data against contract.
func Args(contract abi.ABI, data []byte) ([]any, error) {
	m, err := contract.MethodById(data[:4])
	if err != nil {
		return nil, err
	}
	return m.Inputs.Unpack(data[4:])
}

// Returns packs the outputs of method.
func Returns(contract abi.ABI, method string, values ...any) []byte {
	out, err := contract.Methods[method].Outputs.Pack(values...)
	if err != nil {
		panic(err)
	}
	return out
}

// RevertError looks like the JSON-RPC error a node returns for a revert with
// a reason string.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string  { return "execution reverted" }
func (e *RevertError) ErrorCode() int { return 3 }

func (e *RevertError) ErrorData() interface{} {
	strType, _ := abi.NewType("string", "", nil)
	packed, _ := abi.Arguments{{Type: strType}}.Pack(e.Reason)
	return hexutil.Encode(append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...))
}

// CodeError is a provider error carrying a numeric code.
type CodeError struct {
	Code    int
	Message string
}

func (e *CodeError) Error() string  { return e.Message }
func (e *CodeError) ErrorCode() int { return e.Code }

type call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

type result3 struct {
	Success    bool
	ReturnData []byte
}

// Multicall answers Multicall3 aggregate3 batches at multicall by running
// each entry through handle; every other call goes to handle directly. A nil
// return from handle marks the sub-call as failed.
func Multicall(contract abi.ABI, multicall common.Address, handle func(target common.Address, data []byte) []byte) func(ethereum.CallMsg) ([]byte, error) {
	return func(msg ethereum.CallMsg) ([]byte, error) {
		if *msg.To != multicall || Method(contract, msg.Data) != "aggregate3" {
			out := handle(*msg.To, msg.Data)
			if out == nil {
				return nil, errors.New("execution reverted")
			}
			return out, nil
		}

		args, err := Args(contract, msg.Data)
		if err != nil {
			return nil, err
		}
		calls := *abi.ConvertType(args[0], new([]call3)).(*[]call3)

		results := make([]result3, len(calls))
		for i, c := range calls {
			out := handle(c.Target, c.CallData)
			results[i] = result3{Success: out != nil, ReturnData: out}
		}
		return Returns(contract, "aggregate3", results), nil
	}
}

// Word left-pads v to one ABI word.
func Word(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}
