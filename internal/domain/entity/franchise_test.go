package entity_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/franquicias-api/internal/domain/entity"
)

// seqIDs genera ids predecibles: id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestAddBranch_AsignaIDsSoloSiFaltan(t *testing.T) {
	f := &entity.Franchise{Name: "Franquicia"}
	newID := seqIDs()

	b := f.AddBranch(entity.Branch{
		Name: "Centro",
		Products: []entity.Product{
			{Name: "A", Stock: 1},
			{ID: "propio", Name: "B", Stock: 2},
		},
	}, newID)

	require.Len(t, f.Branches, 1)
	assert.Equal(t, "id-1", b.ID)
	assert.Equal(t, "id-2", b.Products[0].ID)
	assert.Equal(t, "propio", b.Products[1].ID)
}

func TestAddBranch_ProductosNilQuedanVacios(t *testing.T) {
	f := &entity.Franchise{}
	b := f.AddBranch(entity.Branch{Name: "Norte"}, seqIDs())
	assert.NotNil(t, b.Products)
	assert.Empty(t, b.Products)
}

func TestRemoveBranch(t *testing.T) {
	f := &entity.Franchise{Branches: []entity.Branch{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}}}

	assert.True(t, f.RemoveBranch("b2"))
	assert.Equal(t, []string{"b1", "b3"}, branchIDs(f))

	assert.False(t, f.RemoveBranch("b2"), "una segunda eliminación no encuentra nada")
	assert.Len(t, f.Branches, 2)
}

func TestRemoveBranch_ListaNil(t *testing.T) {
	f := &entity.Franchise{}
	assert.False(t, f.RemoveBranch("x"))
	_, ok := f.FindBranch("x")
	assert.False(t, ok)
	assert.Equal(t, 0, f.TotalProducts())
}

func TestFindBranch_IDVacioNuncaCoincide(t *testing.T) {
	f := &entity.Franchise{Branches: []entity.Branch{{Name: "sin id"}}}
	_, ok := f.FindBranch("")
	assert.False(t, ok)
}

func TestFindBranch_DevuelvePunteroMutable(t *testing.T) {
	f := &entity.Franchise{Branches: []entity.Branch{{ID: "b1", Name: "Viejo"}}}
	b, ok := f.FindBranch("b1")
	require.True(t, ok)
	b.Name = "Nuevo"
	assert.Equal(t, "Nuevo", f.Branches[0].Name)
}

func TestProductos_AgregarBuscarEliminar(t *testing.T) {
	b := &entity.Branch{ID: "b1"}
	p := b.AddProduct(entity.Product{Name: "Café", Stock: 10}, seqIDs())
	assert.Equal(t, "id-1", p.ID)

	found, ok := b.FindProduct("id-1")
	require.True(t, ok)
	found.Stock = 25
	assert.Equal(t, 25, b.Products[0].Stock)

	assert.False(t, b.RemoveProduct("no-existe"))
	assert.Len(t, b.Products, 1)
	assert.True(t, b.RemoveProduct("id-1"))
	assert.Empty(t, b.Products)
}

func TestTotalProducts_SumaDeTodasLasSucursales(t *testing.T) {
	f := &entity.Franchise{Branches: []entity.Branch{
		{ID: "b1", Products: []entity.Product{{ID: "p1", Stock: 100}, {ID: "p2", Stock: 150}}},
		{ID: "b2", Products: []entity.Product{{ID: "p3", Stock: 200}}},
		{ID: "b3"},
	}}

	expected := 0
	for _, b := range f.Branches {
		expected += len(b.Products)
	}
	assert.Equal(t, expected, f.TotalProducts())
	assert.Equal(t, 3, f.TotalProducts())
	assert.Equal(t, 450, f.TotalStock())
}

func TestAssignMissingIDs(t *testing.T) {
	f := &entity.Franchise{Branches: []entity.Branch{
		{Name: "A", Products: []entity.Product{{Name: "x"}}},
		{ID: "fijo", Name: "B"},
	}}
	f.AssignMissingIDs(seqIDs())

	assert.Equal(t, "id-1", f.Branches[0].ID)
	assert.Equal(t, "id-2", f.Branches[0].Products[0].ID)
	assert.Equal(t, "fijo", f.Branches[1].ID)
	assert.NotNil(t, f.Branches[1].Products)
}

func TestClone_NoComparteSlices(t *testing.T) {
	f := &entity.Franchise{ID: "f1", Name: "Original", Version: 3, Branches: []entity.Branch{
		{ID: "b1", Products: []entity.Product{{ID: "p1", Stock: 5}}},
	}}
	c := f.Clone()
	c.Name = "Copia"
	c.Branches[0].Products[0].Stock = 99
	c.Branches = append(c.Branches, entity.Branch{ID: "b2"})

	assert.Equal(t, "Original", f.Name)
	assert.Equal(t, 5, f.Branches[0].Products[0].Stock)
	assert.Len(t, f.Branches, 1)
	assert.Equal(t, int64(3), c.Version)
}

func branchIDs(f *entity.Franchise) []string {
	ids := make([]string, 0, len(f.Branches))
	for _, b := range f.Branches {
		ids = append(ids, b.ID)
	}
	return ids
}
