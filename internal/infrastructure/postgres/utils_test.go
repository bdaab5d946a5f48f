package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/franquicias-api/internal/domain"
)

func TestMapWriteError_UniqueViolationEsDuplicateName(t *testing.T) {
	err := mapWriteError("insert franchise", "Sur", &pgconn.PgError{Code: "23505"})

	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	var dup *domain.DuplicateNameError
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "Sur", dup.Name)
}

func TestMapWriteError_OtroErrorEsStoreFailure(t *testing.T) {
	cause := &pgconn.PgError{Code: "08006"}
	err := mapWriteError("update franchise", "Sur", cause)

	assert.ErrorIs(t, err, domain.ErrStore)
	assert.NotErrorIs(t, err, domain.ErrDuplicateName)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr), "la causa original debe seguir accesible")
}

func TestIsValidID(t *testing.T) {
	assert.True(t, isValidID("6f1c1a3e-8a3b-4b8e-9f51-0c6b6a1b2c3d"))
	assert.False(t, isValidID("no-es-uuid"))
	assert.False(t, isValidID(""))
}

func TestMigrationsEmbebidas(t *testing.T) {
	script, err := migrationsFS.ReadFile("migrations/001_franchises.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(script), "CREATE UNIQUE INDEX IF NOT EXISTS franchises_name_key")
}
