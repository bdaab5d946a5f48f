package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/franquicias-api/internal/domain"
	"github.com/jhoicas/franquicias-api/internal/domain/entity"
	"github.com/jhoicas/franquicias-api/internal/domain/repository"
)

var _ repository.FranchiseRepository = (*FranchiseRepo)(nil)

const franchiseColumns = `id::text, name, branches, version, created_at, updated_at`

// FranchiseRepo implementación del puerto FranchiseRepository sobre PostgreSQL.
// Cada franquicia es una fila; sucursales y productos viajan embebidos en la columna JSONB branches.
type FranchiseRepo struct {
	q Querier
}

// NewFranchiseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFranchiseRepository(q Querier) *FranchiseRepo {
	return &FranchiseRepo{q: q}
}

// GetByID obtiene una franquicia por ID; nil si no existe.
func (r *FranchiseRepo) GetByID(ctx context.Context, id string) (*entity.Franchise, error) {
	if !isValidID(id) {
		return nil, nil
	}
	row := r.q.QueryRow(ctx, `SELECT `+franchiseColumns+` FROM franchises WHERE id = $1`, id)
	f, err := scanFranchise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreFailure("get franchise", err)
	}
	return f, nil
}

// GetByName obtiene una franquicia por nombre exacto (sensible a mayúsculas).
func (r *FranchiseRepo) GetByName(ctx context.Context, name string) (*entity.Franchise, error) {
	row := r.q.QueryRow(ctx, `SELECT `+franchiseColumns+` FROM franchises WHERE name = $1`, name)
	f, err := scanFranchise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreFailure("get franchise by name", err)
	}
	return f, nil
}

func (r *FranchiseRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM franchises WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, domain.StoreFailure("exists franchise by name", err)
	}
	return exists, nil
}

func (r *FranchiseRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	if !isValidID(id) {
		return false, nil
	}
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM franchises WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, domain.StoreFailure("exists franchise", err)
	}
	return exists, nil
}

// Save inserta (ID vacío) o reemplaza el documento con compare-and-swap sobre version.
func (r *FranchiseRepo) Save(ctx context.Context, f *entity.Franchise) error {
	f.Normalize()
	branches, err := json.Marshal(f.Branches)
	if err != nil {
		return fmt.Errorf("serializar sucursales: %w", err)
	}

	if f.ID == "" {
		query := `
			INSERT INTO franchises (name, branches, version, created_at, updated_at)
			VALUES ($1, $2, 1, now(), now())
			RETURNING id::text, version, created_at, updated_at`
		err := r.q.QueryRow(ctx, query, f.Name, branches).Scan(&f.ID, &f.Version, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return mapWriteError("insert franchise", f.Name, err)
		}
		return nil
	}

	if !isValidID(f.ID) {
		return domain.ErrConflict
	}
	query := `
		UPDATE franchises
		SET name = $2, branches = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $4
		RETURNING version, updated_at`
	err = r.q.QueryRow(ctx, query, f.ID, f.Name, branches, f.Version).Scan(&f.Version, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Otra escritura ganó (o el documento fue eliminado) desde la lectura.
			return domain.ErrConflict
		}
		return mapWriteError("update franchise", f.Name, err)
	}
	return nil
}

// DeleteByID elimina la franquicia y, por estar embebidas, todas sus sucursales y productos.
func (r *FranchiseRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if !isValidID(id) {
		return false, nil
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM franchises WHERE id = $1`, id)
	if err != nil {
		return false, domain.StoreFailure("delete franchise", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *FranchiseRepo) DeleteByName(ctx context.Context, name string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM franchises WHERE name = $1`, name)
	if err != nil {
		return false, domain.StoreFailure("delete franchise by name", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *FranchiseRepo) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM franchises`)
	if err != nil {
		return 0, domain.StoreFailure("delete all franchises", err)
	}
	return cmd.RowsAffected(), nil
}

// List devuelve todas las franquicias en orden de creación.
func (r *FranchiseRepo) List(ctx context.Context) ([]*entity.Franchise, error) {
	rows, err := r.q.Query(ctx, `SELECT `+franchiseColumns+` FROM franchises ORDER BY created_at, name`)
	if err != nil {
		return nil, domain.StoreFailure("list franchises", err)
	}
	defer rows.Close()
	var list []*entity.Franchise
	for rows.Next() {
		f, err := scanFranchise(rows)
		if err != nil {
			return nil, domain.StoreFailure("scan franchise", err)
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreFailure("list franchises", err)
	}
	return list, nil
}

func (r *FranchiseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM franchises`).Scan(&n); err != nil {
		return 0, domain.StoreFailure("count franchises", err)
	}
	return n, nil
}

func scanFranchise(row pgx.Row) (*entity.Franchise, error) {
	var f entity.Franchise
	var branches []byte
	if err := row.Scan(&f.ID, &f.Name, &branches, &f.Version, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if len(branches) > 0 {
		if err := json.Unmarshal(branches, &f.Branches); err != nil {
			return nil, fmt.Errorf("deserializar sucursales de %s: %w", f.ID, err)
		}
	}
	f.Normalize()
	return &f, nil
}

// mapWriteError traduce la violación del índice único de name a DuplicateName.
func mapWriteError(op, name string, err error) error {
	if isUniqueViolation(err) {
		return &domain.DuplicateNameError{Name: name}
	}
	return domain.StoreFailure(op, err)
}
