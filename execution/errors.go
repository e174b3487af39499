package execution

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/RaghavSood/swapdesk/wallet"
)

var (
	// ErrRejected means the account holder declined the transaction.
	ErrRejected = errors.New("transaction rejected")

	// ErrNoCandidates is returned when there is nothing to estimate.
	ErrNoCandidates = errors.New("unexpected error: no candidate calls to estimate")
)

const (
	msgSlippage   = "This transaction will not succeed either due to price movement or fee on transfer. Try increasing your slippage tolerance."
	msgUnexpected = "Unexpected issue with estimating the gas. Please try again."
)

// slippageReasons are router reverts caused by the price moving past the
// caller's tolerance.
var slippageReasons = map[string]bool{
	"UniswapV2Router: INSUFFICIENT_OUTPUT_AMOUNT": true,
	"UniswapV2Router: EXCESSIVE_INPUT_AMOUNT":     true,
}

// FailureKind classifies why a candidate could not be estimated.
type FailureKind int

const (
	// FailureUnexpected: the simulated call succeeded, or reverted without a reason.
	FailureUnexpected FailureKind = iota
	// FailureSlippage: a known output/input bound revert.
	FailureSlippage
	// FailureRevert: any other revert reason.
	FailureRevert
)

func (k FailureKind) String() string {
	switch k {
	case FailureSlippage:
		return "slippage"
	case FailureRevert:
		return "revert"
	default:
		return "unexpected"
	}
}

// EstimateError is the classified failure of a single candidate.
type EstimateError struct {
	Call   Call
	Kind   FailureKind
	Reason string // raw revert reason, empty when none was recovered
	Err    error  // the original estimation error
}

func (e *EstimateError) Error() string {
	switch e.Kind {
	case FailureSlippage:
		return msgSlippage
	case FailureRevert:
		return fmt.Sprintf("The transaction cannot succeed due to error: %s. This is probably an issue with one of the tokens you are swapping.", e.Reason)
	default:
		return msgUnexpected
	}
}

func (e *EstimateError) Unwrap() error { return e.Err }

func classify(call Call, estimateErr, callErr error) *EstimateError {
	if callErr == nil {
		return &EstimateError{Call: call, Kind: FailureUnexpected, Err: estimateErr}
	}
	reason := RevertReason(callErr)
	switch {
	case reason == "":
		return &EstimateError{Call: call, Kind: FailureUnexpected, Err: estimateErr}
	case slippageReasons[reason]:
		return &EstimateError{Call: call, Kind: FailureSlippage, Reason: reason, Err: estimateErr}
	default:
		return &EstimateError{Call: call, Kind: FailureRevert, Reason: reason, Err: estimateErr}
	}
}

const revertPrefix = "execution reverted: "

// RevertReason recovers the revert string from a node error. It prefers the
// ABI-encoded Error(string) payload and falls back to the message text.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hexData, ok := dataErr.ErrorData().(string); ok {
			if raw, decErr := hexutil.Decode(hexData); decErr == nil {
				if reason, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
					return reason
				}
			}
		}
	}

	msg := err.Error()
	if idx := strings.Index(msg, revertPrefix); idx != -1 {
		return strings.TrimSpace(msg[idx+len(revertPrefix):])
	}
	return ""
}

// SubmitError is a non-rejection failure while signing or sending.
type SubmitError struct {
	Op  string
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// IsRejected reports whether err carries the user-rejection code.
func IsRejected(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRejected) {
		return true
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode() == wallet.CodeUserRejected
	}
	return false
}
