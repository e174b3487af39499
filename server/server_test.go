package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaghavSood/swapdesk/balances"
	"github.com/RaghavSood/swapdesk/config"
	"github.com/RaghavSood/swapdesk/db"
)

type fakeTxs []db.Transaction

func (f fakeTxs) ListRecentTransactions(_ context.Context, limit int64) ([]db.Transaction, error) {
	if int64(len(f)) > limit {
		return f[:limit], nil
	}
	return f, nil
}

type fakeBalances []balances.TokenBalance

func (f fakeBalances) Balances(context.Context) ([]balances.TokenBalance, error) {
	return f, nil
}

func newTestServer(password string) *Server {
	txs := fakeTxs{{
		Hash:        "0xabc",
		Summary:     "Swap 1 ETH for 2000 DAI",
		FromAddress: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		ChainID:     1,
		Status:      db.StatusConfirmed,
		BlockNumber: sql.NullInt64{Int64: 100, Valid: true},
		AddedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	bals := fakeBalances{{Symbol: "ETH", Balance: "1500000000000000000", Formatted: "1.5", Raw: big.NewInt(0)}}
	return New(&config.Config{ChainID: 1, DashboardPassword: password}, txs, bals, nil)
}

func TestTransactionsAPI(t *testing.T) {
	h := newTestServer("").Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Swap 1 ETH for 2000 DAI", got[0]["summary"])
	assert.Equal(t, "https://etherscan.io/tx/0xabc", got[0]["explorer_url"])
	assert.Equal(t, float64(100), got[0]["block_number"])
	assert.NotContains(t, got[0], "gas_used")
}

func TestBalancesAPI(t *testing.T) {
	h := newTestServer("").Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/balances", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"symbol":"ETH","balance":"1500000000000000000","formatted":"1.5"}]`, rec.Body.String())
}

func TestLoginFlow(t *testing.T) {
	h := newTestServer("hunter2").Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	form := url.Values{"password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "/login?error=1", rec.Header().Get("Location"))

	form = url.Values{"password": {"hunter2"}}
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
