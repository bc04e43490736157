package store_test

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzungnguyen14/aiowallet-app/internal/config"
	"github.com/dzungnguyen14/aiowallet-app/internal/credentials"
	"github.com/dzungnguyen14/aiowallet-app/internal/gateway"
	"github.com/dzungnguyen14/aiowallet-app/internal/mockapi"
	"github.com/dzungnguyen14/aiowallet-app/internal/slice"
	"github.com/dzungnguyen14/aiowallet-app/internal/store"
	"github.com/dzungnguyen14/aiowallet-app/internal/transactions"
)

// startBackend runs the mock API on a loopback port and returns its base
// URL plus the seeded recipient's user ID.
func startBackend(t *testing.T) (baseURL, bobID string) {
	t.Helper()

	srv := mockapi.New("integration-secret")
	_, err := srv.Seed("alice@example.com", "password123", "Alice", decimal.NewFromInt(100))
	require.NoError(t, err)
	bobID, err = srv.Seed("bob@example.com", "password123", "Bob", decimal.NewFromInt(50))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	app := srv.App()
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() { _ = app.Shutdown() })

	baseURL = "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		res, err := http.Get(baseURL + "/health")
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond, "mock API never became ready")

	return baseURL, bobID
}

func newStore(t *testing.T, baseURL string) (*store.Store, *credentials.Memory) {
	t.Helper()
	cfg := &config.Config{
		APIBaseURL:     baseURL,
		RequestTimeout: 2 * time.Second,
		Env:            "development",
	}
	creds := credentials.NewMemory()
	return store.New(gateway.New(cfg, creds), creds), creds
}

func TestEndToEndFlow(t *testing.T) {
	baseURL, bobID := startBackend(t)
	st, creds := newStore(t, baseURL)

	var notifications atomic.Int64
	unsubscribe := st.Subscribe(func() { notifications.Add(1) })
	defer unsubscribe()

	ctx := context.Background()
	session, err := st.Auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", session.DisplayName)
	_, ok := creds.Get()
	require.True(t, ok, "login must persist the token")

	// Pull-to-refresh: balance and first page land together.
	require.NoError(t, st.Refresh(ctx, session.UserID, 5))
	ws := st.Wallet.State()
	assert.True(t, ws.Balance.Equal(decimal.NewFromInt(100)), "balance = %s", ws.Balance)
	assert.Equal(t, "USD", ws.Currency)
	assert.Empty(t, st.Transactions.State().Items)

	// Send: server deducts the 0.50 fee, client takes the server's word.
	rec, err := st.SendMoney(ctx, bobID, decimal.NewFromInt(20), "lunch")
	require.NoError(t, err)
	require.NotNil(t, rec)

	ws = st.Wallet.State()
	assert.True(t, ws.Balance.Equal(decimal.RequireFromString("79.5")), "balance = %s", ws.Balance)
	require.NotNil(t, ws.LastTransaction)
	assert.Equal(t, rec.ID, ws.LastTransaction.ID)

	// The send shows up in the local log immediately, before any refresh.
	ts := st.Transactions.State()
	require.NotEmpty(t, ts.Items)
	assert.Equal(t, rec.ID, ts.Items[0].ID)
	assert.Equal(t, 1, ts.CurrentPage, "optimistic prepend must not touch pagination")

	// The next authoritative refresh agrees with the optimistic view.
	require.NoError(t, st.Transactions.FetchPage(ctx, 1, 5))
	ts = st.Transactions.State()
	require.Len(t, ts.Items, 1)
	assert.Equal(t, rec.ID, ts.Items[0].ID)
	assert.Equal(t, transactions.TypeSend, ts.Items[0].Type)

	assert.Positive(t, notifications.Load())

	// A pure balance transition reaches subscribers on its own.
	before := notifications.Load()
	require.NoError(t, st.Wallet.RefreshBalance(ctx, session.UserID))
	assert.Greater(t, notifications.Load(), before, "balance transitions must notify subscribers")
}

func TestTopUpPrependsRecord(t *testing.T) {
	baseURL, _ := startBackend(t)
	st, _ := newStore(t, baseURL)

	ctx := context.Background()
	session, err := st.Auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, st.Refresh(ctx, session.UserID, 5))

	rec, err := st.TopUp(ctx, decimal.NewFromInt(25), "card")
	require.NoError(t, err)

	assert.True(t, st.Wallet.State().Balance.Equal(decimal.NewFromInt(125)))
	items := st.Transactions.State().Items
	require.NotEmpty(t, items)
	assert.Equal(t, rec.ID, items[0].ID)
	assert.Equal(t, transactions.TypeTopUp, items[0].Type)
}

// A 401 mid-session tears down auth but leaves the cached balance alone:
// the user sees stale data plus a login prompt, not a zeroed wallet.
func TestUnauthorizedResponseInvalidatesSession(t *testing.T) {
	baseURL, _ := startBackend(t)
	st, creds := newStore(t, baseURL)

	ctx := context.Background()
	session, err := st.Auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, st.Wallet.RefreshBalance(ctx, session.UserID))
	balanceBefore := st.Wallet.State().Balance

	// Simulate a revoked token.
	require.NoError(t, creds.Set("expired-garbage"))

	err = st.Wallet.RefreshBalance(ctx, session.UserID)
	require.Error(t, err)
	assert.True(t, gateway.IsUnauthorized(err))

	_, ok := st.Auth.Current()
	assert.False(t, ok, "session must be gone after a 401")
	_, ok = creds.Get()
	assert.False(t, ok, "credential must be deleted after a 401")

	ws := st.Wallet.State()
	assert.True(t, ws.Balance.Equal(balanceBefore), "balance itself stays untouched")
	assert.Equal(t, slice.Errored, ws.Status)
}

func TestLogoutResetsTransactions(t *testing.T) {
	baseURL, _ := startBackend(t)
	st, creds := newStore(t, baseURL)

	ctx := context.Background()
	session, err := st.Auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	_, err = st.TopUp(ctx, decimal.NewFromInt(10), "card")
	require.NoError(t, err)
	require.NotEmpty(t, st.Transactions.State().Items)

	st.Logout()

	_, ok := st.Auth.Current()
	assert.False(t, ok)
	_, ok = creds.Get()
	assert.False(t, ok)

	ts := st.Transactions.State()
	assert.Empty(t, ts.Items)
	assert.Equal(t, 1, ts.CurrentPage)
	assert.True(t, ts.HasMore)

	// Gated operations reject cleanly without a session.
	assert.Error(t, st.Wallet.RefreshBalance(ctx, session.UserID))
}

func TestRefreshReportsSliceFailuresIndependently(t *testing.T) {
	baseURL, _ := startBackend(t)
	st, _ := newStore(t, baseURL)

	// Not logged in: both legs fail, and the error says so.
	err := st.Refresh(context.Background(), "nobody", 5)
	require.Error(t, err)
}
