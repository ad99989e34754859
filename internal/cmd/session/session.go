// Package session parses session command flags and launches the session
// coordinator runtime.
package session

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/broadside/internal/platform/cmd"
	sessionapp "github.com/louisbranch/broadside/internal/services/session/app"
)

// Config holds session command configuration.
type Config struct {
	DBPath      string `env:"BROADSIDE_SESSION_DB_PATH" envDefault:"data/session.db"`
	Store       string `env:"BROADSIDE_SESSION_STORE" envDefault:"sqlite"`
	MaxAttempts int    `env:"BROADSIDE_SESSION_MAX_ATTEMPTS" envDefault:"5"`
	QueueDepth  int    `env:"BROADSIDE_SESSION_QUEUE_DEPTH" envDefault:"64"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The session SQLite database path")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Session store kind (sqlite or memory)")
	fs.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "Maximum delivery attempts before dead-letter")
	fs.IntVar(&cfg.QueueDepth, "queue-depth", cfg.QueueDepth, "Per-subscription delivery queue depth")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the session coordinator runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSession, func(context.Context) error {
		return sessionapp.Run(ctx, sessionapp.RuntimeConfig{
			DBPath:      cfg.DBPath,
			Store:       cfg.Store,
			MaxAttempts: cfg.MaxAttempts,
			QueueDepth:  cfg.QueueDepth,
		})
	})
}
