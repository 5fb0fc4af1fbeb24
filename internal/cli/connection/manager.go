package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotConnected is returned when no connection is active.
var ErrNotConnected = errors.New("connection: not connected")

// Manager holds the active connection of a CLI session.
type Manager struct {
	mu      sync.Mutex
	opts    Options
	current *Client
}

// NewManager creates a new connection manager.
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts}
}

// Connect dials addr, verifies it with PING and makes it current.
// Any previous connection is closed.
func (m *Manager) Connect(ctx context.Context, addr string) error {
	c, err := Dial(ctx, addr, m.opts)
	if err != nil {
		return err
	}
	if _, err := c.Ping(ctx, ""); err != nil {
		c.Close()
		return fmt.Errorf("ping %s: %w", addr, err)
	}

	m.mu.Lock()
	prev := m.current
	m.current = c
	m.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return nil
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	c := m.current
	m.current = nil
	m.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

// Client returns the current client or ErrNotConnected.
func (m *Manager) Client() (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNotConnected
	}
	return m.current, nil
}

// Current returns the address of the current connection, or "".
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.Addr()
}

// IsConnected returns true if connected to a server.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}
