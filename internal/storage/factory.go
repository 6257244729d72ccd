// Package storage selects and constructs the persistence backend.
package storage

import (
	"fmt"

	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/storage/badgerdb"
	"github.com/wrenlabs/slate/internal/storage/surrealdb"
)

// NewManager creates a StorageManager based on the configuration.
// Supported backends: "badger" (embedded, default) and "surreal".
func NewManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = common.StorageBackendBadger
	}

	switch backend {
	case common.StorageBackendBadger:
		return badgerdb.NewManager(logger, config.Storage.Badger.Path)

	case common.StorageBackendSurreal:
		return surrealdb.NewManager(logger, &config.Storage.Surreal)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: badger, surreal)", backend)
	}
}
