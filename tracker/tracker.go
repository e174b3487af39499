// Package tracker follows submitted transactions until they are mined.
package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/config"
	"github.com/RaghavSood/swapdesk/db"
)

const defaultInterval = 15 * time.Second

// ReceiptFetcher is the part of the node client the tracker polls.
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Store is the persisted transaction table.
type Store interface {
	ListPendingTransactions(ctx context.Context) ([]db.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, arg db.UpdateTransactionStatusParams) error
}

// Notifier delivers a Markdown message to the operator.
type Notifier interface {
	Notify(text string) error
}

type Tracker struct {
	cfg      *config.Config
	store    Store
	receipts ReceiptFetcher
	notifier Notifier
	logger   *zap.Logger
	interval time.Duration

	// announced holds pending rows already pushed as submitted.
	announced map[int64]bool
}

// New returns a tracker. notifier may be nil.
func New(cfg *config.Config, store Store, receipts ReceiptFetcher, notifier Notifier, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		cfg:      cfg,
		store:    store,
		receipts: receipts,
		notifier: notifier,
		logger:   logger,
		interval: defaultInterval,

		announced: make(map[int64]bool),
	}
}

func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	// Run once immediately on start
	t.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("tracker stopped")
			return
		case <-ticker.C:
			t.Poll(ctx)
		}
	}
}

// Poll checks every pending transaction once. A row that is still unmined
// the first time it is seen is pushed as submitted.
func (t *Tracker) Poll(ctx context.Context) {
	pending, err := t.store.ListPendingTransactions(ctx)
	if err != nil {
		t.logger.Error("listing pending transactions", zap.Error(err))
		return
	}
	t.forgetSettled(pending)

	if len(pending) == 0 {
		return
	}

	t.logger.Debug("checking pending transactions", zap.Int("count", len(pending)))

	for _, tx := range pending {
		select {
		case <-ctx.Done():
			return
		default:
		}

		receipt, err := t.receipts.TransactionReceipt(ctx, common.HexToHash(tx.Hash))
		if err != nil {
			if !errors.Is(err, ethereum.NotFound) {
				t.logger.Warn("fetching receipt", zap.String("hash", tx.Hash), zap.Error(err))
			}
			t.announce(tx)
			continue
		}

		status := db.StatusFailed
		if receipt.Status == types.ReceiptStatusSuccessful {
			status = db.StatusConfirmed
		}

		params := db.UpdateTransactionStatusParams{
			Status: status,
			GasUsed: sql.NullInt64{
				Int64: int64(receipt.GasUsed),
				Valid: true,
			},
			ID: tx.ID,
		}
		if receipt.BlockNumber != nil {
			params.BlockNumber = sql.NullInt64{Int64: receipt.BlockNumber.Int64(), Valid: true}
		}

		if err := t.store.UpdateTransactionStatus(ctx, params); err != nil {
			t.logger.Error("updating transaction", zap.String("hash", tx.Hash), zap.Error(err))
			continue
		}

		t.logger.Info("transaction mined",
			zap.String("hash", tx.Hash),
			zap.String("status", status),
			zap.Int64("block", params.BlockNumber.Int64))
		t.notify(tx, status)
	}
}

func (t *Tracker) forgetSettled(pending []db.Transaction) {
	still := make(map[int64]bool, len(pending))
	for _, tx := range pending {
		still[tx.ID] = true
	}
	for id := range t.announced {
		if !still[id] {
			delete(t.announced, id)
		}
	}
}

func (t *Tracker) announce(tx db.Transaction) {
	if t.announced[tx.ID] {
		return
	}
	t.announced[tx.ID] = true
	t.notify(tx, db.StatusPending)
}

func (t *Tracker) notify(tx db.Transaction, status string) {
	if t.notifier == nil {
		return
	}

	explorerURL := t.cfg.ExplorerTxURL(tx.Hash)
	var text string
	switch status {
	case db.StatusPending:
		text = fmt.Sprintf("*Submitted*\n%s\nTx: `%s`\n[View on Explorer](%s)", tx.Summary, tx.Hash, explorerURL)
	case db.StatusConfirmed:
		text = fmt.Sprintf("*Confirmed*\n%s\nTx: `%s`\n[View on Explorer](%s)", tx.Summary, tx.Hash, explorerURL)
	case db.StatusFailed:
		text = fmt.Sprintf("*Failed*\n%s\nThe transaction was mined but reverted.\nTx: `%s`\n[View on Explorer](%s)", tx.Summary, tx.Hash, explorerURL)
	default:
		return
	}

	if err := t.notifier.Notify(text); err != nil {
		t.logger.Warn("notifying status", zap.String("hash", tx.Hash), zap.Error(err))
	}
}
