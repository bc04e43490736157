// Package wallet owns the balance slice. The balance is a cache of the
// server's ledger: every successful response replaces it wholesale, it is
// never computed client-side, and no failure ever clears it.
package wallet

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dzungnguyen14/aiowallet-app/internal/auth"
	"github.com/dzungnguyen14/aiowallet-app/internal/money"
	"github.com/dzungnguyen14/aiowallet-app/internal/slice"
	"github.com/dzungnguyen14/aiowallet-app/internal/transactions"
)

// ErrUserMismatch is returned when a balance refresh names a user other
// than the one logged in.
var ErrUserMismatch = errors.New("user does not match active session")

// State is a snapshot of the wallet slice.
type State struct {
	Balance         decimal.Decimal
	Currency        string
	Status          slice.Status
	LastError       string
	LastTransaction *transactions.Record
}

type balanceResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

type mutationResponse struct {
	NewBalance  decimal.Decimal     `json:"newBalance"`
	Transaction transactions.Record `json:"transaction"`
}

type sendRequest struct {
	RecipientID string          `json:"recipientId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type topUpRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
}

// Gateway is the request capability the slice needs.
type Gateway interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// SessionSource gates operations on a logged-in user.
type SessionSource interface {
	Current() (auth.Session, bool)
}

// Wallet is the balance slice. Transitions apply atomically under one
// lock; a completion older than the newest applied one is discarded so an
// out-of-order response cannot roll the balance back.
type Wallet struct {
	mu       sync.Mutex
	gw       Gateway
	sessions SessionSource
	track    slice.Tracker
	state    State
	notify   func()
}

func New(gw Gateway, sessions SessionSource, notify func()) *Wallet {
	return &Wallet{
		gw:       gw,
		sessions: sessions,
		state:    State{Currency: "USD"},
		notify:   notify,
	}
}

// State returns a copy of the current slice state.
func (w *Wallet) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.state
	if w.state.LastTransaction != nil {
		rec := *w.state.LastTransaction
		st.LastTransaction = &rec
	}
	return st
}

// RefreshBalance re-reads balance and currency from the API. On failure
// the previous balance stays visible alongside the error; stale data
// beats no data.
func (w *Wallet) RefreshBalance(ctx context.Context, userID string) error {
	session, ok := w.sessions.Current()
	if !ok {
		return auth.ErrNoSession
	}
	if userID != session.UserID {
		return ErrUserMismatch
	}

	tag := w.begin()

	var res balanceResponse
	err := w.gw.Do(ctx, http.MethodGet, "/api/wallet/"+userID+"/balance", nil, &res)

	return w.complete(tag, err, func() {
		w.state.Balance = res.Balance
		w.state.Currency = res.Currency
	})
}

// Send transfers amount to recipientID. The server replies with the
// authoritative post-transfer balance, which replaces the cached one; the
// client never decrements locally, so a concurrent refresh cannot
// double-count. The resulting record is returned for optimistic insertion
// into the transaction log.
func (w *Wallet) Send(ctx context.Context, recipientID string, amount decimal.Decimal, description string) (*transactions.Record, error) {
	if err := money.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if _, ok := w.sessions.Current(); !ok {
		return nil, auth.ErrNoSession
	}

	tag := w.begin()

	var res mutationResponse
	body := sendRequest{RecipientID: recipientID, Amount: amount, Description: description}
	err := w.gw.Do(ctx, http.MethodPost, "/api/wallet/send", body, &res)

	if err := w.complete(tag, err, func() {
		w.state.Balance = res.NewBalance
		w.state.LastTransaction = &res.Transaction
	}); err != nil {
		return nil, err
	}
	return &res.Transaction, nil
}

// TopUp adds funds via paymentMethod. Same overwrite-on-success contract
// as Send.
func (w *Wallet) TopUp(ctx context.Context, amount decimal.Decimal, paymentMethod string) (*transactions.Record, error) {
	if err := money.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if _, ok := w.sessions.Current(); !ok {
		return nil, auth.ErrNoSession
	}

	tag := w.begin()

	var res mutationResponse
	err := w.gw.Do(ctx, http.MethodPost, "/api/wallet/topup", topUpRequest{Amount: amount, PaymentMethod: paymentMethod}, &res)

	if err := w.complete(tag, err, func() {
		w.state.Balance = res.NewBalance
		w.state.LastTransaction = &res.Transaction
	}); err != nil {
		return nil, err
	}
	return &res.Transaction, nil
}

// ClearError drops the last error without touching data.
func (w *Wallet) ClearError() {
	w.mu.Lock()
	w.state.LastError = ""
	if w.state.Status == slice.Errored {
		w.state.Status = slice.Idle
	}
	w.mu.Unlock()
	w.changed()
}

func (w *Wallet) changed() {
	if w.notify != nil {
		w.notify()
	}
}

func (w *Wallet) begin() uint64 {
	w.mu.Lock()
	tag := w.track.Begin()
	w.state.Status = slice.Loading
	w.state.LastError = ""
	w.mu.Unlock()
	w.changed()
	return tag
}

// complete applies exactly one of the success/failure transitions for the
// operation tagged tag, or discards it if a newer completion has already
// been applied.
func (w *Wallet) complete(tag uint64, err error, apply func()) error {
	w.mu.Lock()
	if !w.track.Apply(tag) {
		w.mu.Unlock()
		return err
	}
	if err != nil {
		w.state.Status = slice.Errored
		w.state.LastError = err.Error()
		w.mu.Unlock()
		w.changed()
		return err
	}
	apply()
	w.state.Status = slice.Idle
	w.mu.Unlock()
	w.changed()
	return nil
}
