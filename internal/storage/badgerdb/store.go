// Package badgerdb implements the embedded storage backend using BadgerHold.
package badgerdb

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
)

// Manager implements interfaces.StorageManager on a single BadgerHold store.
type Manager struct {
	db     *badgerhold.Store
	logger *common.Logger

	accounts  *AccountStore
	inquiries *InquiryStore
}

// NewManager opens the embedded database at path, creating it if needed.
func NewManager(logger *common.Logger, path string) (*Manager, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Embedded store opened")

	m := &Manager{db: db, logger: logger}
	m.accounts = &AccountStore{db: db, logger: logger}
	m.inquiries = &InquiryStore{db: db, logger: logger}
	return m, nil
}

func (m *Manager) AccountStore() interfaces.AccountStore {
	return m.accounts
}

func (m *Manager) InquiryStore() interfaces.InquiryStore {
	return m.inquiries
}

// Close shuts down the underlying BadgerHold database. The account and
// inquiry stores share it, so their Close methods are no-ops.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
