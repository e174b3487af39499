package tracker

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaghavSood/swapdesk/config"
	"github.com/RaghavSood/swapdesk/db"
)

type fakeStore struct {
	pending []db.Transaction
	updates []db.UpdateTransactionStatusParams
}

func (s *fakeStore) ListPendingTransactions(context.Context) ([]db.Transaction, error) {
	return s.pending, nil
}

func (s *fakeStore) UpdateTransactionStatus(_ context.Context, arg db.UpdateTransactionStatusParams) error {
	s.updates = append(s.updates, arg)
	return nil
}

type fakeReceipts map[common.Hash]*types.Receipt

func (f fakeReceipts) TransactionReceipt(_ context.Context, h common.Hash) (*types.Receipt, error) {
	if h == common.HexToHash("0xee") {
		return nil, errors.New("upstream timeout")
	}
	r, ok := f[h]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

type fakeNotifier struct{ sent []string }

func (n *fakeNotifier) Notify(text string) error {
	n.sent = append(n.sent, text)
	return nil
}

func TestPoll(t *testing.T) {
	ok, reverted, waiting, broken := common.HexToHash("0x01"), common.HexToHash("0x02"), common.HexToHash("0x03"), common.HexToHash("0xee")

	store := &fakeStore{pending: []db.Transaction{
		{ID: 1, Hash: ok.Hex(), Summary: "Swap 1 ETH for 2000 DAI"},
		{ID: 2, Hash: reverted.Hex(), Summary: "Stake 1 DAI in the DAI pool"},
		{ID: 3, Hash: waiting.Hex(), Summary: "Approve DAI"},
		{ID: 4, Hash: broken.Hex(), Summary: "Approve USDC"},
	}}
	receipts := fakeReceipts{
		ok:       {Status: types.ReceiptStatusSuccessful, GasUsed: 120000, BlockNumber: big.NewInt(100)},
		reverted: {Status: types.ReceiptStatusFailed, GasUsed: 30000, BlockNumber: big.NewInt(101)},
	}
	notifier := &fakeNotifier{}

	New(&config.Config{ChainID: 1}, store, receipts, notifier, nil).Poll(context.Background())

	require.Len(t, store.updates, 2)
	assert.Equal(t, db.UpdateTransactionStatusParams{
		Status:      db.StatusConfirmed,
		BlockNumber: store.updates[0].BlockNumber,
		GasUsed:     store.updates[0].GasUsed,
		ID:          1,
	}, store.updates[0])
	assert.Equal(t, int64(100), store.updates[0].BlockNumber.Int64)
	assert.Equal(t, int64(120000), store.updates[0].GasUsed.Int64)
	assert.Equal(t, db.StatusFailed, store.updates[1].Status)

	require.Len(t, notifier.sent, 4)
	assert.Contains(t, notifier.sent[0], "*Confirmed*")
	assert.Contains(t, notifier.sent[0], "https://etherscan.io/tx/"+ok.Hex())
	assert.Contains(t, notifier.sent[1], "*Failed*")
	assert.Contains(t, notifier.sent[1], "Stake 1 DAI in the DAI pool")
	assert.Contains(t, notifier.sent[2], "*Submitted*")
	assert.Contains(t, notifier.sent[2], "Approve DAI")
	assert.Contains(t, notifier.sent[3], "*Submitted*")
	assert.Contains(t, notifier.sent[3], "Approve USDC")
}

func TestPollAnnouncesSubmittedOnce(t *testing.T) {
	h := common.HexToHash("0x03")
	store := &fakeStore{pending: []db.Transaction{{ID: 7, Hash: h.Hex(), Summary: "Swap 1 ETH for 2000 DAI"}}}
	receipts := fakeReceipts{}
	notifier := &fakeNotifier{}
	trk := New(&config.Config{ChainID: 1}, store, receipts, notifier, nil)

	trk.Poll(context.Background())
	trk.Poll(context.Background())
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "*Submitted*")
	assert.Contains(t, notifier.sent[0], "Swap 1 ETH for 2000 DAI")

	receipts[h] = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(5)}
	trk.Poll(context.Background())
	require.Len(t, notifier.sent, 2)
	assert.Contains(t, notifier.sent[1], "*Confirmed*")

	store.pending = nil
	trk.Poll(context.Background())
	assert.Empty(t, trk.announced)
}

func TestPollWithoutNotifier(t *testing.T) {
	h := common.HexToHash("0x01")
	store := &fakeStore{pending: []db.Transaction{{ID: 1, Hash: h.Hex()}}}
	receipts := fakeReceipts{h: {Status: types.ReceiptStatusSuccessful}}

	New(&config.Config{ChainID: 1}, store, receipts, nil, nil).Poll(context.Background())

	require.Len(t, store.updates, 1)
	assert.False(t, store.updates[0].BlockNumber.Valid)
}
