// seed carga franquicias desde un archivo YAML usando el mismo motor que la API
// (ids asignados por el servidor, nombre único, creación independiente por franquicia).
//
// Uso: go run ./cmd/seed -file franquicias.yaml [-charset iso-8859-1] [-reset]
// El almacén se elige con STORE_DRIVER / DATABASE_URL como en cmd/api.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/franquicias-api/internal/application/usecase"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/redis"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/store"
	"github.com/jhoicas/franquicias-api/pkg/config"
	"github.com/jhoicas/franquicias-api/pkg/logger"
)

func main() {
	path := flag.String("file", "franquicias.yaml", "archivo YAML con la clave franchises")
	charset := flag.String("charset", "utf-8", "codificación del archivo (utf-8, iso-8859-1, windows-1252)")
	reset := flag.Bool("reset", false, "eliminar todas las franquicias antes de cargar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("abrir archivo")
	}
	defer f.Close()

	r, err := decodeReader(f, *charset)
	if err != nil {
		log.Fatal().Err(err).Msg("charset")
	}
	seed, err := parseSeed(r)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("archivo inválido")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer st.Close()

	// La misma caché que la API: -reset debe invalidar los reportes que esta sirve.
	reportCache, closeCache := redis.OpenReportCache(ctx, cfg.Redis, log)
	defer closeCache()

	uc := usecase.NewFranchiseUseCase(st.Repo, reportCache, log, cfg.Store.MaxRetries)
	if *reset {
		n, err := uc.DeleteAll(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("vaciar almacén")
		}
		log.Info().Int64("deleted", n).Msg("almacén vaciado")
	}

	res := uc.BatchCreate(ctx, seed.Franchises, cfg.App.BatchConcurrency)
	for _, item := range res.Results {
		if item.Error != "" {
			log.Warn().Int("index", item.Index).Str("name", item.Name).Str("error", item.Error).Msg("franquicia no cargada")
		}
	}
	fmt.Printf("Franquicias creadas: %d, fallidas: %d\n", res.Created, res.Failed)
	if res.Failed > 0 {
		os.Exit(2)
	}
}
