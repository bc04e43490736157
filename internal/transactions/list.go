// Package transactions owns the paginated transaction log slice: a
// newest-first list refreshed page by page from the API and locally
// amendable with optimistic entries.
package transactions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/dzungnguyen14/aiowallet-app/internal/auth"
	"github.com/dzungnguyen14/aiowallet-app/internal/slice"
)

// ErrInvalidPage is returned for page < 1 or limit < 1 requests.
var ErrInvalidPage = errors.New("invalid page request")

// ListState is a snapshot of the transaction log slice. Items is newest
// first. HasMore and CurrentPage come from server responses only; a local
// prepend never touches them.
type ListState struct {
	Items       []Record
	Status      slice.Status
	LastError   string
	HasMore     bool
	CurrentPage int
}

type pageResponse struct {
	Transactions []Record `json:"transactions"`
	HasMore      bool     `json:"hasMore"`
	Page         int      `json:"page"`
}

// Gateway is the request capability the slice needs.
type Gateway interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// SessionSource gates fetches on a logged-in user.
type SessionSource interface {
	Current() (auth.Session, bool)
}

// List is the transaction log slice. All transitions apply atomically
// under one lock; a fetch that completes after a newer fetch has already
// been applied is discarded.
type List struct {
	mu       sync.Mutex
	gw       Gateway
	sessions SessionSource
	track    slice.Tracker
	state    ListState
	notify   func()
}

func NewList(gw Gateway, sessions SessionSource, notify func()) *List {
	return &List{
		gw:       gw,
		sessions: sessions,
		state:    ListState{HasMore: true, CurrentPage: 1},
		notify:   notify,
	}
}

// State returns a copy of the current slice state. The Items slice is
// cloned so callers can hold snapshots across later transitions.
func (l *List) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state
	st.Items = append([]Record(nil), l.state.Items...)
	return st
}

// FetchPage loads one page from the API. Page 1 replaces the list, any
// later page appends; both reset HasMore and CurrentPage from the
// response, so re-fetching page 1 is how refresh-from-top works. On
// failure the list, HasMore and CurrentPage keep their previous values.
func (l *List) FetchPage(ctx context.Context, page, limit int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidPage)
	}
	if limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1", ErrInvalidPage)
	}
	if _, ok := l.sessions.Current(); !ok {
		return auth.ErrNoSession
	}

	tag := l.begin()

	var res pageResponse
	path := fmt.Sprintf("/api/transactions?page=%d&limit=%d", page, limit)
	err := l.gw.Do(ctx, http.MethodGet, path, nil, &res)

	l.mu.Lock()
	if !l.track.Apply(tag) {
		// A newer fetch already finished; this response is stale.
		l.mu.Unlock()
		return err
	}
	if err != nil {
		l.state.Status = slice.Errored
		l.state.LastError = err.Error()
		l.mu.Unlock()
		l.changed()
		return err
	}
	if res.Page == 1 {
		l.state.Items = res.Transactions
	} else {
		l.state.Items = append(l.state.Items, res.Transactions...)
	}
	l.state.HasMore = res.HasMore
	l.state.CurrentPage = res.Page
	l.state.Status = slice.Idle
	l.mu.Unlock()
	l.changed()
	return nil
}

// PrependLocal inserts rec at the head of the list without a network
// call, reflecting a just-completed transaction ahead of the next
// authoritative refresh. Pagination state is untouched.
func (l *List) PrependLocal(rec Record) {
	l.mu.Lock()
	l.state.Items = append([]Record{rec}, l.state.Items...)
	l.mu.Unlock()
	l.changed()
}

// Reset clears the log back to its initial state. Use when leaving a
// context where stale pages would mislead, e.g. on logout.
func (l *List) Reset() {
	l.mu.Lock()
	l.state = ListState{HasMore: true, CurrentPage: 1}
	l.mu.Unlock()
	l.changed()
}

// ClearError drops the last error without touching data.
func (l *List) ClearError() {
	l.mu.Lock()
	l.state.LastError = ""
	if l.state.Status == slice.Errored {
		l.state.Status = slice.Idle
	}
	l.mu.Unlock()
	l.changed()
}

func (l *List) begin() uint64 {
	l.mu.Lock()
	tag := l.track.Begin()
	l.state.Status = slice.Loading
	l.state.LastError = ""
	l.mu.Unlock()
	l.changed()
	return tag
}

func (l *List) changed() {
	if l.notify != nil {
		l.notify()
	}
}
