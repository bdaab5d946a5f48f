package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrDuplicateName = errors.New("ya existe una franquicia con ese nombre")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrStore         = errors.New("fallo del almacenamiento")
)

// Level identifica el nivel del agregado donde falló la búsqueda.
type Level string

const (
	LevelFranchise Level = "franchise"
	LevelBranch    Level = "branch"
	LevelProduct   Level = "product"
)

// NotFoundError indica qué nivel y qué id no se resolvieron. errors.Is(err, ErrNotFound) es true.
type NotFoundError struct {
	Level Level
	ID    string
}

func (e *NotFoundError) Error() string {
	switch e.Level {
	case LevelBranch:
		return fmt.Sprintf("sucursal no encontrada con id: %s", e.ID)
	case LevelProduct:
		return fmt.Sprintf("producto no encontrado con id: %s", e.ID)
	default:
		return fmt.Sprintf("franquicia no encontrada: %s", e.ID)
	}
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateNameError nombre de franquicia ya tomado. errors.Is(err, ErrDuplicateName) es true.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("ya existe una franquicia con el nombre %q", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// FranchiseNotFound, BranchNotFound y ProductNotFound construyen el NotFoundError del nivel.
func FranchiseNotFound(id string) error { return &NotFoundError{Level: LevelFranchise, ID: id} }
func BranchNotFound(id string) error    { return &NotFoundError{Level: LevelBranch, ID: id} }
func ProductNotFound(id string) error   { return &NotFoundError{Level: LevelProduct, ID: id} }

// StoreFailure envuelve un error de infraestructura para que errors.Is(err, ErrStore) sea true
// sin perder la causa original.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStore, err))
}

// NotFoundLevel devuelve el nivel de un NotFoundError o "" si err no lo es.
func NotFoundLevel(err error) Level {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Level
	}
	return ""
}
