package session

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrNotAuthenticated = errors.New("not_authenticated")

// Session is the explicit login context for the device: which store is
// selling and which cashier is logged in. It replaces any ambient global
// state; components that need it receive the Manager at construction.
type Session struct {
	StoreID   string
	CashierID string
	Token     string
	LoggedAt  time.Time
}

// Manager holds the current device session and notifies listeners on login.
type Manager struct {
	mu      sync.RWMutex
	current *Session
	loginCh chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		loginCh: make(chan struct{}, 1),
	}
}

// Login stores the session and signals the login channel. The channel is
// buffered with size one so a pending, unconsumed signal coalesces with the
// next rather than blocking the caller.
func (m *Manager) Login(s Session) error {
	if strings.TrimSpace(s.StoreID) == "" {
		return ErrNotAuthenticated
	}
	if s.LoggedAt.IsZero() {
		s.LoggedAt = time.Now().UTC()
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()

	select {
	case m.loginCh <- struct{}{}:
	default:
	}
	return nil
}

func (m *Manager) Logout() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Current returns the active session or ErrNotAuthenticated.
func (m *Manager) Current() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, ErrNotAuthenticated
	}
	return *m.current, nil
}

// LoginNotify exposes the channel signalled on every successful login.
func (m *Manager) LoginNotify() <-chan struct{} {
	return m.loginCh
}
