package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/franquicias-api/internal/domain"
	"github.com/jhoicas/franquicias-api/internal/domain/entity"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/memory"
)

func TestSave_InsertaAsignaIDYVersion(t *testing.T) {
	repo := memory.NewFranchiseRepository()
	ctx := context.Background()

	f := &entity.Franchise{Name: "Sur"}
	require.NoError(t, repo.Save(ctx, f))
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, int64(1), f.Version)
	assert.NotNil(t, f.Branches)

	got, err := repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sur", got.Name)
}

func TestSave_NombreDuplicadoEnInsert(t *testing.T) {
	repo := memory.NewFranchiseRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &entity.Franchise{Name: "X"}))

	err := repo.Save(ctx, &entity.Franchise{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSave_VersionObsoletaDevuelveConflicto(t *testing.T) {
	repo := memory.NewFranchiseRepository()
	ctx := context.Background()
	f := &entity.Franchise{Name: "A"}
	require.NoError(t, repo.Save(ctx, f))

	first, _ := repo.GetByID(ctx, f.ID)
	second, _ := repo.GetByID(ctx, f.ID)

	first.AddBranch(entity.Branch{Name: "uno"}, entity.NewID)
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.AddBranch(entity.Branch{Name: "dos"}, entity.NewID)
	assert.ErrorIs(t, repo.Save(ctx, second), domain.ErrConflict)

	stored, _ := repo.GetByID(ctx, f.ID)
	require.Len(t, stored.Branches, 1)
	assert.Equal(t, "uno", stored.Branches[0].Name)
}

func TestSave_RenombrarLiberaNombreAnterior(t *testing.T) {
	repo := memory.NewFranchiseRepository()
	ctx := context.Background()
	f := &entity.Franchise{Name: "Viejo"}
	require.NoError(t, repo.Save(ctx, f))

	f.Name = "Nuevo"
	require.NoError(t, repo.Save(ctx, f))

	exists, _ := repo.ExistsByName(ctx, "Viejo")
	assert.False(t, exists)
	byName, _ := repo.GetByName(ctx, "Nuevo")
	require.NotNil(t, byName)
	assert.Equal(t, f.ID, byName.ID)
}

func TestGetByID_DevuelveCopia(t *testing.T) {
	repo := memory.NewFranchiseRepository()
	ctx := context.Background()
	f := &entity.Franchise{Name: "Copia"}
	require.NoError(t, repo.Save(ctx, f))

	got, _ := repo.GetByID(ctx, f.ID)
	got.Name = "mutado sin guardar"

	again, _ := repo.GetByID(ctx, f.ID)
	assert.Equal(t, "Copia", again.Name)
}

func TestDeletes(t *testing.T) {
	repo := memory.NewFranchiseRepository()
	ctx := context.Background()
	a := &entity.Franchise{Name: "A"}
	b := &entity.Franchise{Name: "B"}
	c := &entity.Franchise{Name: "C"}
	for _, f := range []*entity.Franchise{a, b, c} {
		require.NoError(t, repo.Save(ctx, f))
	}

	ok, err := repo.DeleteByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = repo.DeleteByID(ctx, a.ID)
	assert.False(t, ok)

	ok, _ = repo.DeleteByName(ctx, "B")
	assert.True(t, ok)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContextoCancelado_EsFalloDeStore(t *testing.T) {
	repo := memory.NewFranchiseRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetByID(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.ErrorIs(t, err, context.Canceled)
}
