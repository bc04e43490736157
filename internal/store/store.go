// Package store composes the three state slices behind a single handle.
// The store is an explicit value built at the composition root and passed
// to whoever reads or mutates state; there is no package-level singleton.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dzungnguyen14/aiowallet-app/internal/auth"
	"github.com/dzungnguyen14/aiowallet-app/internal/credentials"
	"github.com/dzungnguyen14/aiowallet-app/internal/gateway"
	"github.com/dzungnguyen14/aiowallet-app/internal/transactions"
	"github.com/dzungnguyen14/aiowallet-app/internal/wallet"
)

// Store owns the auth, wallet and transaction slices. The slices are
// independent of each other except that wallet and transactions read the
// auth session, and a gateway 401 tears the session down.
type Store struct {
	Auth         *auth.Manager
	Wallet       *wallet.Wallet
	Transactions *transactions.List

	mu   sync.Mutex
	subs map[int]func()
	next int
}

// New wires the slices to the gateway and credential store and registers
// the 401 hook so an unauthorized response invalidates the session.
func New(gw *gateway.Client, creds credentials.Store) *Store {
	s := &Store{subs: make(map[int]func())}
	s.Auth = auth.NewManager(gw, creds, s.broadcast)
	s.Wallet = wallet.New(gw, s.Auth, s.broadcast)
	s.Transactions = transactions.NewList(gw, s.Auth, s.broadcast)
	gw.SetUnauthorizedHook(s.Auth.Invalidate)
	return s
}

// Subscribe registers fn to run after every applied transition. The view
// layer uses it to re-read snapshots. The returned func unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) broadcast() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Refresh reloads the balance and the first transaction page in parallel,
// the pull-to-refresh gesture of the app. Either failure is reported; the
// slices fail independently.
func (s *Store) Refresh(ctx context.Context, userID string, limit int) error {
	var wg sync.WaitGroup
	var balErr, txErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		balErr = s.Wallet.RefreshBalance(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		txErr = s.Transactions.FetchPage(ctx, 1, limit)
	}()
	wg.Wait()

	return errors.Join(balErr, txErr)
}

// SendMoney sends funds and optimistically prepends the resulting record
// to the local transaction log so the history reflects it before the next
// authoritative refresh.
func (s *Store) SendMoney(ctx context.Context, recipientID string, amount decimal.Decimal, description string) (*transactions.Record, error) {
	rec, err := s.Wallet.Send(ctx, recipientID, amount, description)
	if err != nil {
		return nil, err
	}
	s.Transactions.PrependLocal(*rec)
	return rec, nil
}

// TopUp adds funds and optimistically prepends the resulting record.
func (s *Store) TopUp(ctx context.Context, amount decimal.Decimal, paymentMethod string) (*transactions.Record, error) {
	rec, err := s.Wallet.TopUp(ctx, amount, paymentMethod)
	if err != nil {
		return nil, err
	}
	s.Transactions.PrependLocal(*rec)
	return rec, nil
}

// Logout clears the session and resets the transaction log so a later
// login does not see another user's pages.
func (s *Store) Logout() {
	s.Auth.Logout()
	s.Transactions.Reset()
}
