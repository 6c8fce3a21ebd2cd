package database

import (
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migraciones/*.sql
var migraciones embed.FS

// Migrar aplica las migraciones pendientes sobre la base indicada
func Migrar(dsn string) error {
	goose.SetBaseFS(migraciones)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, "migraciones"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
