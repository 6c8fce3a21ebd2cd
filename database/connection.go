package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lizet96/citas-backend/config"
)

// NuevoPool establece la conexión con la base de datos usando un pool
func NuevoPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsear la URL de la base de datos: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns // Número máximo de conexiones abiertas al mismo tiempo
	poolConfig.MinConns = cfg.MinConns // Número mínimo de conexiones en espera
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear el pool de conexiones: %w", err)
	}

	// Probar si la base de datos está viva haciendo una consulta rápida
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var version string
	if err := pool.QueryRow(ctxPing, "SELECT version()").Scan(&version); err != nil {
		pool.Close()
		return nil, fmt.Errorf("probar la conexión: %w", err)
	}

	log.Println("✅ Conectado exitosamente a la base de datos:", version)
	return pool, nil
}
