// Package surrealdb implements the production storage backend on SurrealDB.
//
// The connection is established lazily on first use so the server can start
// (and serve health checks) before the database is reachable.
package surrealdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/surrealdb/surrealdb.go"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	cfg    *common.SurrealConfig
	logger *common.Logger
	dial   func(address string) (*surrealdb.DB, error)

	mu sync.Mutex
	db *surrealdb.DB

	accounts  *AccountStore
	inquiries *InquiryStore
}

// NewManager creates a StorageManager for SurrealDB. No connection is made
// until the first store operation.
func NewManager(logger *common.Logger, cfg *common.SurrealConfig) (*Manager, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("surrealdb address is required")
	}
	m := &Manager{cfg: cfg, logger: logger, dial: surrealdb.New}
	m.accounts = &AccountStore{m: m, logger: logger}
	m.inquiries = &InquiryStore{m: m, logger: logger}
	return m, nil
}

// conn returns the shared database handle, connecting if there is none yet.
// A failed attempt is not cached; the next call tries again.
func (m *Manager) conn(ctx context.Context) (*surrealdb.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}

	db, err := m.dial(m.cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if err := m.setup(ctx, db); err != nil {
		db.Close(context.Background())
		return nil, err
	}

	m.db = db
	m.logger.Info().
		Str("address", m.cfg.Address).
		Str("namespace", m.cfg.Namespace).
		Str("database", m.cfg.Database).
		Msg("SurrealDB connected")
	return m.db, nil
}

func (m *Manager) setup(ctx context.Context, db *surrealdb.DB) error {
	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": m.cfg.Username,
		"pass": m.cfg.Password,
	}); err != nil {
		return fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, m.cfg.Namespace, m.cfg.Database); err != nil {
		return fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables up front (SurrealDB v3 errors on querying non-existent tables)
	for _, table := range []string{"account", "inquiry"} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}
	return nil
}

func (m *Manager) AccountStore() interfaces.AccountStore {
	return m.accounts
}

func (m *Manager) InquiryStore() interfaces.InquiryStore {
	return m.inquiries
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		m.db.Close(context.Background())
		m.db = nil
	}
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
