package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/franquicias-api/internal/domain"
	"github.com/jhoicas/franquicias-api/internal/domain/entity"
	"github.com/jhoicas/franquicias-api/internal/domain/repository"
)

var _ repository.FranchiseRepository = (*FranchiseRepo)(nil)

// FranchiseRepo almacén en memoria con las mismas garantías que el adaptador PostgreSQL:
// nombre único y reemplazo condicionado a la versión. Se usa con STORE_DRIVER=memory y en tests.
type FranchiseRepo struct {
	mu     sync.RWMutex
	byID   map[string]*entity.Franchise
	byName map[string]string
	newID  func() string
	now    func() time.Time
}

// NewFranchiseRepository construye el almacén vacío.
func NewFranchiseRepository() *FranchiseRepo {
	return &FranchiseRepo{
		byID:   make(map[string]*entity.Franchise),
		byName: make(map[string]string),
		newID:  entity.NewID,
		now:    time.Now,
	}
}

// GetByID devuelve una copia del documento o nil si no existe.
func (r *FranchiseRepo) GetByID(ctx context.Context, id string) (*entity.Franchise, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreFailure("get franchise", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id].Clone(), nil
}

// GetByName busca por nombre exacto.
func (r *FranchiseRepo) GetByName(ctx context.Context, name string) (*entity.Franchise, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreFailure("get franchise by name", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return nil, nil
	}
	return r.byID[id].Clone(), nil
}

func (r *FranchiseRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.StoreFailure("exists franchise by name", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok, nil
}

func (r *FranchiseRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.StoreFailure("exists franchise", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok, nil
}

// Save inserta o reemplaza el documento completo (ver contrato en repository.FranchiseRepository).
func (r *FranchiseRepo) Save(ctx context.Context, f *entity.Franchise) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreFailure("save franchise", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if f.ID == "" {
		if _, taken := r.byName[f.Name]; taken {
			return &domain.DuplicateNameError{Name: f.Name}
		}
		f.ID = r.newID()
		f.Version = 1
		f.CreatedAt = now
		f.UpdatedAt = now
		f.Normalize()
		r.byID[f.ID] = f.Clone()
		r.byName[f.Name] = f.ID
		return nil
	}

	current, ok := r.byID[f.ID]
	if !ok || current.Version != f.Version {
		return domain.ErrConflict
	}
	if owner, taken := r.byName[f.Name]; taken && owner != f.ID {
		return &domain.DuplicateNameError{Name: f.Name}
	}
	delete(r.byName, current.Name)
	f.Version++
	f.CreatedAt = current.CreatedAt
	f.UpdatedAt = now
	f.Normalize()
	r.byID[f.ID] = f.Clone()
	r.byName[f.Name] = f.ID
	return nil
}

func (r *FranchiseRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.StoreFailure("delete franchise", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	delete(r.byName, f.Name)
	delete(r.byID, id)
	return true, nil
}

func (r *FranchiseRepo) DeleteByName(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.StoreFailure("delete franchise by name", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[name]
	if !ok {
		return false, nil
	}
	delete(r.byName, name)
	delete(r.byID, id)
	return true, nil
}

func (r *FranchiseRepo) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domain.StoreFailure("delete all franchises", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.byID))
	r.byID = make(map[string]*entity.Franchise)
	r.byName = make(map[string]string)
	return n, nil
}

// List devuelve copias ordenadas por fecha de creación (y nombre para empates).
func (r *FranchiseRepo) List(ctx context.Context) ([]*entity.Franchise, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreFailure("list franchises", err)
	}
	r.mu.RLock()
	list := make([]*entity.Franchise, 0, len(r.byID))
	for _, f := range r.byID {
		list = append(list, f.Clone())
	}
	r.mu.RUnlock()
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Name < list[j].Name
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *FranchiseRepo) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domain.StoreFailure("count franchises", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}
