// Package server exposes the transaction history and account balances over
// HTTP.
package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/balances"
	"github.com/RaghavSood/swapdesk/config"
	"github.com/RaghavSood/swapdesk/db"
)

//go:embed static
var staticFiles embed.FS

const sessionCookie = "dash_session"

// TxLister lists persisted transactions, newest first.
type TxLister interface {
	ListRecentTransactions(ctx context.Context, limit int64) ([]db.Transaction, error)
}

// BalanceReader returns the acting account's balances.
type BalanceReader interface {
	Balances(ctx context.Context) ([]balances.TokenBalance, error)
}

type Server struct {
	cfg      *config.Config
	txs      TxLister
	balances BalanceReader
	logger   *zap.Logger

	sessionMu sync.RWMutex
	sessions  map[string]bool
}

func New(cfg *config.Config, txs TxLister, bals BalanceReader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		txs:      txs,
		balances: bals,
		logger:   logger,
		sessions: map[string]bool{},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	staticSub, _ := fs.Sub(staticFiles, "static")

	mux.HandleFunc("/", s.withAuth(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFileFS(w, r, staticSub, "index.html")
	}))
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/api/transactions", s.withAuth(s.handleTransactions))
	mux.HandleFunc("/api/balances", s.withAuth(s.handleBalances))

	return mux
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// --- Auth helpers ---

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func hashPassword(pw string) [32]byte {
	return sha256.Sum256([]byte(pw))
}

func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.DashboardPassword == "" {
			next(w, r)
			return
		}
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		s.sessionMu.RLock()
		valid := s.sessions[cookie.Value]
		s.sessionMu.RUnlock()
		if !valid {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		staticSub, _ := fs.Sub(staticFiles, "static")
		http.ServeFileFS(w, r, staticSub, "login.html")
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.ParseForm()
	pw := r.FormValue("password")
	expected := hashPassword(s.cfg.DashboardPassword)
	got := hashPassword(pw)
	if subtle.ConstantTimeCompare(expected[:], got[:]) != 1 {
		http.Redirect(w, r, "/login?error=1", http.StatusSeeOther)
		return
	}
	token := generateToken()
	s.sessionMu.Lock()
	s.sessions[token] = true
	s.sessionMu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true, SameSite: http.SameSiteStrictMode})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// --- API handlers ---

type transactionView struct {
	Hash        string    `json:"hash"`
	Summary     string    `json:"summary"`
	From        string    `json:"from"`
	ChainID     int64     `json:"chain_id"`
	Status      string    `json:"status"`
	BlockNumber *int64    `json:"block_number,omitempty"`
	GasUsed     *int64    `json:"gas_used,omitempty"`
	AddedAt     time.Time `json:"added_at"`
	ExplorerURL string    `json:"explorer_url"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	txs, err := s.txs.ListRecentTransactions(ctx, limit)
	if err != nil {
		s.logger.Error("listing transactions", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		v := transactionView{
			Hash:        tx.Hash,
			Summary:     tx.Summary,
			From:        tx.FromAddress,
			ChainID:     tx.ChainID,
			Status:      tx.Status,
			AddedAt:     tx.AddedAt,
			ExplorerURL: s.cfg.ExplorerTxURL(tx.Hash),
		}
		if tx.BlockNumber.Valid {
			v.BlockNumber = &tx.BlockNumber.Int64
		}
		if tx.GasUsed.Valid {
			v.GasUsed = &tx.GasUsed.Int64
		}
		views = append(views, v)
	}
	writeJSON(w, views)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	bals, err := s.balances.Balances(r.Context())
	if err != nil {
		s.logger.Error("fetching balances", zap.Error(err))
		http.Error(w, "internal error", http.StatusBadGateway)
		return
	}
	writeJSON(w, bals)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
