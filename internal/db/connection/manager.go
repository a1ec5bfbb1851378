package connection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pgsentry/pgsentry/internal/models"
)

// Manager owns the connection to the monitored server. The dashboard
// talks to one server at a time; Connect replaces any prior connection.
type Manager struct {
	conn *Connection
	mu   sync.RWMutex
}

// Connection wraps a pool with status metadata
type Connection struct {
	Config      models.ConnectionConfig
	Pool        *Pool
	Connected   bool
	ConnectedAt time.Time
	Error       error
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{}
}

// Connect establishes a connection, closing any existing one first
func (m *Manager) Connect(ctx context.Context, config models.ConnectionConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil && m.conn.Pool != nil {
		m.conn.Pool.Close()
	}

	pool, err := NewPool(ctx, config)
	if err != nil {
		m.conn = &Connection{
			Config:    config,
			Connected: false,
			Error:     err,
		}
		return err
	}

	m.conn = &Connection{
		Config:      config,
		Pool:        pool,
		Connected:   true,
		ConnectedAt: time.Now(),
	}
	return nil
}

// Active returns the current connection or an error when none is usable
func (m *Manager) Active() (*Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.conn == nil {
		return nil, fmt.Errorf("not connected")
	}
	if !m.conn.Connected {
		return nil, fmt.Errorf("connection failed: %w", m.conn.Error)
	}
	return m.conn, nil
}

// Disconnect closes the current connection
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil && m.conn.Pool != nil {
		m.conn.Pool.Close()
	}
	m.conn = nil
}
