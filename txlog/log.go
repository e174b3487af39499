package txlog

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Record is one submitted transaction as shown to the account holder.
type Record struct {
	Hash    common.Hash
	Summary string
	AddedAt time.Time
	From    common.Address
	ChainID int64
}

// Log is an append-only, in-memory transaction log. Subscribers receive every
// record appended after they subscribe.
type Log struct {
	mu      sync.RWMutex
	records []Record
	subs    map[int]chan Record
	nextSub int
	logger  *zap.Logger
}

func New(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		subs:   make(map[int]chan Record),
		logger: logger,
	}
}

// Append adds a record and fans it out to subscribers. A subscriber whose
// buffer is full misses the record rather than blocking the caller.
func (l *Log) Append(r Record) {
	if r.AddedAt.IsZero() {
		r.AddedAt = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)

	l.logger.Info("transaction added",
		zap.String("hash", r.Hash.Hex()),
		zap.String("summary", r.Summary),
	)

	// Sends never block, so fanning out under the lock keeps cancel from
	// closing a channel mid-send.
	for _, ch := range l.subs {
		select {
		case ch <- r:
		default:
			l.logger.Warn("dropping log record for slow subscriber", zap.String("hash", r.Hash.Hex()))
		}
	}
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Records returns a copy of all records, oldest first.
func (l *Log) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Find returns the record with the given hash.
func (l *Log) Find(hash common.Hash) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.Hash == hash {
			return r, true
		}
	}
	return Record{}, false
}

// Subscribe returns a channel of newly appended records and a cancel func that
// closes it.
func (l *Log) Subscribe(buffer int) (<-chan Record, func()) {
	ch := make(chan Record, buffer)

	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subs, id)
			close(ch)
		})
	}
}
