package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/franquicias-api/internal/domain/repository"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/memory"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/postgres"
	"github.com/jhoicas/franquicias-api/pkg/config"
	"github.com/jhoicas/franquicias-api/pkg/logger"
)

// Store almacén de franquicias elegido por STORE_DRIVER.
type Store struct {
	Repo  repository.FranchiseRepository
	Ping  func(ctx context.Context) error
	Close func()
}

// Open abre el almacén configurado. Con postgres aplica las migraciones embebidas.
func Open(ctx context.Context, cfg config.Config, log *logger.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return &Store{
			Repo:  memory.NewFranchiseRepository(),
			Ping:  func(context.Context) error { return nil },
			Close: func() {},
		}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		log.Info().Int("max_conns", cfg.DB.MaxConns).Msg("PostgreSQL listo")
		return &Store{
			Repo:  postgres.NewFranchiseRepository(pool),
			Ping:  pool.Ping,
			Close: pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("STORE_DRIVER no soportado: %q", cfg.Store.Driver)
	}
}
