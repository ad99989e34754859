package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/broadside/internal/bus"
	"github.com/louisbranch/broadside/internal/services/session/storage"
	"github.com/louisbranch/broadside/internal/services/session/storage/memory"
	"github.com/louisbranch/broadside/internal/services/session/storage/sqlite"
)

// RuntimeConfig controls session coordinator startup and bus behavior.
type RuntimeConfig struct {
	DBPath      string
	Store       string
	MaxAttempts int
	QueueDepth  int
}

// Store kinds accepted by RuntimeConfig.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

const defaultSessionDB = "data/session.db"

// Run starts the session coordinator: it opens the session store, binds
// the inbound message handlers, and dispatches bus deliveries until the
// context ends.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.Store) == "" {
		cfg.Store = StoreSQLite
	}

	var store storage.SessionStore
	switch cfg.Store {
	case StoreMemory:
		store = memory.New()
	case StoreSQLite:
		if strings.TrimSpace(cfg.DBPath) == "" {
			cfg.DBPath = defaultSessionDB
		}
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create session storage dir: %w", err)
			}
		}
		sqliteStore, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open session sqlite store: %w", err)
		}
		store = sqliteStore
	default:
		return fmt.Errorf("unknown session store kind %q", cfg.Store)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close session store: %v", closeErr)
		}
	}()

	var opts []bus.Option
	if cfg.MaxAttempts > 0 {
		opts = append(opts, bus.WithMaxAttempts(cfg.MaxAttempts))
	}
	if cfg.QueueDepth > 0 {
		opts = append(opts, bus.WithQueueDepth(cfg.QueueDepth))
	}
	broker := bus.NewMemory(opts...)

	service := New(store, broker)
	if err := service.RegisterHandlers(broker); err != nil {
		return fmt.Errorf("register session handlers: %w", err)
	}

	log.Printf("session coordinator running (store=%s)", cfg.Store)
	return broker.Run(ctx)
}
