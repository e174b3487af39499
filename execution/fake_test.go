package execution

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/RaghavSood/swapdesk/chain"
	"github.com/RaghavSood/swapdesk/chain/chaintest"
)

type (
	revertError = chaintest.RevertError
	codeError   = chaintest.CodeError
)

type outcome struct {
	gas     uint64
	err     error
	callErr error
	delay   time.Duration
}

// fakeBackend keys outcomes by method selector.
type fakeBackend struct {
	mu       sync.Mutex
	outcomes map[string]outcome
	sendErr  error
	sent     []*types.Transaction
	gasPrice *big.Int
	nonce    uint64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{outcomes: map[string]outcome{}, gasPrice: big.NewInt(20e9), nonce: 7}
}

func (f *fakeBackend) set(method string, o outcome) {
	f.outcomes[method] = o
}

func (f *fakeBackend) lookup(data []byte) outcome {
	m, err := chain.V2RouterABI.MethodById(data[:4])
	if err != nil {
		return outcome{err: errors.New("unknown method")}
	}
	return f.outcomes[m.Name]
}

func (f *fakeBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	o := f.lookup(msg.Data)
	if o.delay > 0 {
		time.Sleep(o.delay)
	}
	return o.gas, o.err
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	return nil, f.lookup(msg.Data).callErr
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	f.sent = append(f.sent, tx)
	f.mu.Unlock()
	return nil
}

func routerCall(method string, args ...any) Call {
	return Call{
		To:     common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
		ABI:    chain.V2RouterABI,
		Method: method,
		Args:   args,
	}
}

var (
	testPath     = []common.Address{common.HexToAddress("0x01"), common.HexToAddress("0x02")}
	testTo       = common.HexToAddress("0x03")
	testDeadline = big.NewInt(1600000000)
)

func plainCall() Call {
	return routerCall("swapExactTokensForTokens", big.NewInt(1000), big.NewInt(990), testPath, testTo, testDeadline)
}

func feeOnTransferCall() Call {
	return routerCall("swapExactTokensForTokensSupportingFeeOnTransferTokens", big.NewInt(1000), big.NewInt(990), testPath, testTo, testDeadline)
}
