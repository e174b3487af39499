package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/txlog"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// Store wraps sqlc Queries with connection management and helpers.
type Store struct {
	*Queries
	conn *sql.DB
}

func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{
		Queries: New(conn),
		conn:    conn,
	}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// RecordTransaction mirrors a log record as a pending row.
func (s *Store) RecordTransaction(ctx context.Context, r txlog.Record) (Transaction, error) {
	return s.InsertTransaction(ctx, InsertTransactionParams{
		Hash:        r.Hash.Hex(),
		Summary:     r.Summary,
		FromAddress: r.From.Hex(),
		ChainID:     r.ChainID,
		AddedAt:     r.AddedAt.UTC(),
	})
}

// Persist writes every record received on records until the channel closes
// or ctx is done.
func (s *Store) Persist(ctx context.Context, records <-chan txlog.Record, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-records:
			if !ok {
				return
			}
			if _, err := s.RecordTransaction(ctx, r); err != nil {
				logger.Error("persisting transaction", zap.Stringer("hash", r.Hash), zap.Error(err))
				continue
			}
			logger.Debug("persisted transaction", zap.Stringer("hash", r.Hash), zap.String("summary", r.Summary))
		}
	}
}

// Record converts a persisted row back into a log record.
func (t Transaction) Record() txlog.Record {
	return txlog.Record{
		Hash:    common.HexToHash(t.Hash),
		Summary: t.Summary,
		AddedAt: t.AddedAt,
		From:    common.HexToAddress(t.FromAddress),
		ChainID: t.ChainID,
	}
}
