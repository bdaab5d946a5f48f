package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/franquicias-api/pkg/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewPool crea un pool de conexiones PostgreSQL usando la configuración de la app.
// Si está definido DATABASE_URL se usa tal cual; si no, se construye el DSN desde DB_HOST, DB_PORT, etc.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// migrationLockKey clave del advisory lock que serializa migraciones entre réplicas.
const migrationLockKey int64 = 0x6672616e71 // "franq"

// Migrate aplica en orden los scripts embebidos en migrations/ dentro de una única transacción.
// Todos son idempotentes (IF NOT EXISTS), por lo que se ejecutan en cada arranque.
func Migrate(ctx context.Context, db Beginner) error {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("listar migraciones: %w", err)
	}
	sort.Strings(names)

	return NewTxRunner(db).Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockKey); err != nil {
			return fmt.Errorf("lock de migraciones: %w", err)
		}
		for _, name := range names {
			script, err := migrationsFS.ReadFile(name)
			if err != nil {
				return fmt.Errorf("leer %s: %w", name, err)
			}
			if _, err := q.Exec(ctx, string(script)); err != nil {
				return fmt.Errorf("aplicar %s: %w", name, err)
			}
		}
		return nil
	})
}
