package repository

import (
	"context"

	"github.com/jhoicas/franquicias-api/internal/domain/entity"
)

// FranchiseRepository define el puerto de persistencia del agregado Franchise (DIP).
// El documento completo es la unidad de almacenamiento: no hay actualizaciones parciales.
//
// Contrato de errores:
//   - Get*/Delete* devuelven nil/false (sin error) cuando no existe.
//   - Save devuelve domain.ErrDuplicateName si el nombre ya está tomado (índice único) y
//     domain.ErrConflict si la versión cambió desde la lectura (concurrencia optimista).
//   - Cualquier otro fallo se envuelve con domain.ErrStore.
type FranchiseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Franchise, error)
	GetByName(ctx context.Context, name string) (*entity.Franchise, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	// Save inserta si ID está vacío (asigna ID y Version=1); si no, reemplaza el documento
	// solo cuando Version coincide con la almacenada y la incrementa.
	Save(ctx context.Context, franchise *entity.Franchise) error
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteByName(ctx context.Context, name string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*entity.Franchise, error)
	Count(ctx context.Context) (int64, error)
}
