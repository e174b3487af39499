package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaghavSood/swapdesk/txlog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "swapdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(hash string, summary string, at time.Time) txlog.Record {
	return txlog.Record{
		Hash:    common.HexToHash(hash),
		Summary: summary,
		From:    common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		ChainID: 1,
		AddedAt: at,
	}
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.RecordTransaction(ctx, record("0x01", "Swap 1 ETH for 2000 DAI", base))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, first.Status)
	assert.False(t, first.BlockNumber.Valid)

	_, err = s.RecordTransaction(ctx, record("0x02", "Approve DAI", base.Add(time.Minute)))
	require.NoError(t, err)

	// duplicate hashes update in place
	_, err = s.RecordTransaction(ctx, record("0x01", "Swap 1 ETH for 2000 DAI", base))
	require.NoError(t, err)

	recent, err := s.ListRecentTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Approve DAI", recent[0].Summary)
	assert.Equal(t, common.HexToHash("0x01").Hex(), recent[1].Hash)

	pending, err := s.ListPendingTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestUpdateStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	row, err := s.RecordTransaction(ctx, record("0x0a", "Stake 1 DAI in the DAI pool", time.Now()))
	require.NoError(t, err)

	require.NoError(t, s.UpdateTransactionStatus(ctx, UpdateTransactionStatusParams{
		Status:      StatusConfirmed,
		BlockNumber: sql.NullInt64{Int64: 18000000, Valid: true},
		GasUsed:     sql.NullInt64{Int64: 51234, Valid: true},
		ID:          row.ID,
	}))

	pending, err := s.ListPendingTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	got, err := s.GetTransaction(ctx, row.Hash)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Equal(t, int64(18000000), got.BlockNumber.Int64)
}

func TestPersist(t *testing.T) {
	s := openTestStore(t)
	log := txlog.New(nil)
	records, cancel := log.Subscribe(4)

	done := make(chan struct{})
	go func() {
		s.Persist(context.Background(), records, nil)
		close(done)
	}()

	log.Append(record("0x0b", "Harvest YAM from the DAI pool", time.Time{}))
	cancel()
	<-done

	got, err := s.GetTransaction(context.Background(), common.HexToHash("0x0b").Hex())
	require.NoError(t, err)
	assert.Equal(t, "Harvest YAM from the DAI pool", got.Summary)

	r := got.Record()
	assert.Equal(t, common.HexToHash("0x0b"), r.Hash)
	assert.Equal(t, int64(1), r.ChainID)
}

func TestAPIRequests(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertAPIRequest(ctx, InsertAPIRequestParams{
		Provider:  "rpc",
		Method:    "POST",
		Url:       "http://localhost:8545",
		RpcMethod: sql.NullString{String: "eth_chainId", Valid: true},
	}))

	n, err := s.CountAPIRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
