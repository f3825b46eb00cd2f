//go:build integration

package testutil

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver name = "pgx"
	"github.com/pressly/goose/v3"

	"github.com/Gunvolt24/order_admission/migrations"
)

// ApplyMigrationsGoose применяет встроенные миграции (migrations.FS), включая демо-сид.
func ApplyMigrationsGoose(dsn string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(log.New(os.Stdout, "", 0))
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
