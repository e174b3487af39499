package balances

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/RaghavSood/swapdesk/chain"
)

// Call3 is one Multicall3 aggregate3 entry.
type Call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

// Result3 is one aggregate3 return entry.
type Result3 struct {
	Success    bool
	ReturnData []byte
}

// Aggregate runs calls in a single eth_call through Multicall3.
func Aggregate(ctx context.Context, caller ethereum.ContractCaller, multicall common.Address, calls []Call3) ([]Result3, error) {
	callData, err := chain.Multicall3ABI.Pack("aggregate3", calls)
	if err != nil {
		return nil, fmt.Errorf("packing aggregate3: %w", err)
	}

	output, err := caller.CallContract(ctx, ethereum.CallMsg{To: &multicall, Data: callData}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling aggregate3: %w", err)
	}

	decoded, err := chain.Multicall3ABI.Unpack("aggregate3", output)
	if err != nil {
		return nil, fmt.Errorf("unpacking aggregate3: %w", err)
	}

	raw, ok := decoded[0].([]struct {
		Success    bool   `json:"success"`
		ReturnData []byte `json:"returnData"`
	})
	if !ok {
		return nil, fmt.Errorf("unexpected aggregate3 return type")
	}
	if len(raw) != len(calls) {
		return nil, fmt.Errorf("aggregate3 returned %d results for %d calls", len(raw), len(calls))
	}

	results := make([]Result3, len(raw))
	for i, r := range raw {
		results[i] = Result3{Success: r.Success, ReturnData: r.ReturnData}
	}
	return results, nil
}
