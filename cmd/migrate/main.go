package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"aetherpix/internal/config"
	"aetherpix/internal/logging"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var (
		databaseURL string
		source      string
		up          bool
		down        bool
	)

	flag.StringVar(&databaseURL, "database", "", "Database connection URL (default: built from DB_* env)")
	flag.StringVar(&source, "source", "db/migrations", "Path to migrations directory")
	flag.BoolVar(&up, "up", false, "Run up migrations")
	flag.BoolVar(&down, "down", false, "Run down migrations")
	flag.Parse()

	logger := logging.New(os.Getenv("ENV"), os.Stdout)

	if !up && !down {
		fatal(logger, "either -up or -down flag is required", nil)
	}
	if up && down {
		fatal(logger, "cannot specify both -up and -down flags", nil)
	}
	if databaseURL == "" {
		cfg, err := config.LoadDatabase()
		if err != nil {
			fatal(logger, "-database flag not set and DB_* env incomplete", err)
		}
		databaseURL = cfg.URL()
	}

	//Open database connection
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		fatal(logger, "failed to open database", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fatal(logger, "failed to connect to database", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		fatal(logger, "failed to create database driver", err)
	}
	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", source),
		"postgres",
		driver,
	)
	if err != nil {
		fatal(logger, "failed to create migrate instance", err)
	}

	if up {
		logger.Info("running UP migrations", "source", source)
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("no new migrations to apply")
				return
			}
			fatal(logger, "failed to run up migrations", err)
		}
		logger.Info("UP migrations completed successfully")
	}

	if down {
		logger.Info("running DOWN migrations", "source", source)
		if err := m.Down(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("no migrations to rollback")
				return
			}
			fatal(logger, "failed to run down migrations", err)
		}
		logger.Info("DOWN migrations completed successfully")
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, "error", err)
	} else {
		logger.Error(msg)
	}
	os.Exit(1)
}
