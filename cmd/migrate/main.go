package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/certiswift/certiswift-api/config"
	"github.com/certiswift/certiswift-api/pkg/db"
	"github.com/certiswift/certiswift-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	path := flag.String("path", "file://migrations", "migration source URL")
	flag.Parse()

	direction := db.MigrateUp
	if flag.NArg() > 0 {
		direction = db.MigrationDirection(flag.Arg(0))
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		ServiceName: "certiswift-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Running database migrations",
		zap.String("direction", string(direction)),
		zap.String("database", maskDatabaseURL(cfg.Database.URL)))

	err = db.RunMigrations(db.PoolConfig{
		URL:        cfg.Database.URL,
		CACertPath: cfg.Database.CACertPath,
	}, *path, direction)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL hides credentials in the database URL for logging
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.Redacted()
}
