package execution

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Executor runs the full estimate-select-submit sequence for one action.
type Executor struct {
	Sequencer *Sequencer
	Submitter *Submitter
}

func NewExecutor(seq *Sequencer, sub *Submitter) *Executor {
	return &Executor{Sequencer: seq, Submitter: sub}
}

// Execute estimates calls, submits the winner labelled op and records
// summary. Nothing is sent when no candidate estimates successfully.
func (e *Executor) Execute(ctx context.Context, op string, calls []Call, summary string) (common.Hash, error) {
	winner, err := e.Sequencer.Run(ctx, e.Submitter.From(), calls)
	if err != nil {
		return common.Hash{}, err
	}
	return e.Submitter.SubmitAs(ctx, op, winner, summary)
}
