// Package credentials persists the bearer token between runs. The store is
// deliberately forgiving: a missing or unreadable token means "not logged
// in", never a fatal error.
package credentials

import "sync"

// Store holds the single credential token for the device.
// Set overwrites, Delete is idempotent.
type Store interface {
	Get() (string, bool)
	Set(token string) error
	Delete() error
}

// Memory is an in-process Store used by tests and short-lived tools.
type Memory struct {
	mu    sync.Mutex
	token string
	set   bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set
}

func (m *Memory) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
	return nil
}

func (m *Memory) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}
