package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/saturnino-fabrica-de-software/presenca/internal/config"
	"github.com/saturnino-fabrica-de-software/presenca/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	action := flag.String("action", "up", "Migration action: up, down, version, force")
	version := flag.Int("version", 0, "Target schema version (force action only)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// golang-migrate works over database/sql, hence the pgx stdlib driver
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	migrator, err := database.NewMigrator(db, "presenca")
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch *action {
	case "up":
		if err := migrator.Up(); err != nil {
			return err
		}
		log.Println("schema is up to date")

	case "down":
		if err := migrator.Down(); err != nil {
			return err
		}
		log.Println("rolled back one migration")

	case "version":
		v, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		if dirty {
			log.Printf("schema version %d (dirty, migration incomplete)", v)
		} else {
			log.Printf("schema version %d", v)
		}

	case "force":
		if *version == 0 {
			return fmt.Errorf("force requires -version")
		}
		if err := migrator.Force(*version); err != nil {
			return err
		}
		log.Printf("schema version forced to %d", *version)

	default:
		return fmt.Errorf("unknown action %q (use: up, down, version, force)", *action)
	}

	return nil
}
