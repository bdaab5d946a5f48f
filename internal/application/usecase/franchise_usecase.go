package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
	"github.com/jhoicas/franquicias-api/internal/application/ports"
	"github.com/jhoicas/franquicias-api/internal/domain"
	"github.com/jhoicas/franquicias-api/internal/domain/entity"
	"github.com/jhoicas/franquicias-api/internal/domain/repository"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/metrics"
	"github.com/jhoicas/franquicias-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/franquicias-api/usecase"

// FranchiseUseCase motor de mutaciones del agregado franquicia → sucursal → producto.
// Toda escritura es lectura-modificación-escritura del documento completo con control de
// versión: si otra escritura gana la carrera, se relee y se reaplica hasta maxRetries veces.
type FranchiseUseCase struct {
	repo       repository.FranchiseRepository
	cache      ports.ReportCache
	log        *logger.Logger
	tracer     trace.Tracer
	maxRetries int
	newID      func() string
}

// NewFranchiseUseCase construye el caso de uso. cache y log pueden ser nil.
func NewFranchiseUseCase(repo repository.FranchiseRepository, cache ports.ReportCache, log *logger.Logger, maxRetries int) *FranchiseUseCase {
	if cache == nil {
		cache = ports.NopReportCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &FranchiseUseCase{
		repo:       repo,
		cache:      cache,
		log:        log.Component("franchise_usecase"),
		tracer:     otel.Tracer(tracerName),
		maxRetries: maxRetries,
		newID:      entity.NewID,
	}
}

// Create crea la franquicia con sus sucursales y productos. Todos los ids los asigna el servidor.
func (uc *FranchiseUseCase) Create(ctx context.Context, in dto.CreateFranchiseRequest) (resp *dto.FranchiseResponse, err error) {
	ctx, end := uc.start(ctx, "create", attribute.String("franchise.name", in.Name))
	defer func() { end(err) }()

	if err = validateCreate(in); err != nil {
		return nil, err
	}
	exists, err := uc.repo.ExistsByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateNameError{Name: in.Name}
	}

	f := &entity.Franchise{Name: in.Name, Branches: make([]entity.Branch, 0, len(in.Branches))}
	for _, b := range in.Branches {
		f.Branches = append(f.Branches, fromCreateBranch(b))
	}
	f.AssignMissingIDs(uc.newID)

	// El índice único del almacén resuelve la carrera entre dos creaciones con el mismo nombre.
	if err = uc.repo.Save(ctx, f); err != nil {
		return nil, err
	}
	uc.log.Debug().Str("franchise_id", f.ID).Str("name", f.Name).Msg("franquicia creada")
	return toFranchiseResponse(f), nil
}

// GetByID obtiene la franquicia completa.
func (uc *FranchiseUseCase) GetByID(ctx context.Context, id string) (*dto.FranchiseResponse, error) {
	f, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toFranchiseResponse(f), nil
}

// GetByName obtiene la franquicia por nombre exacto.
func (uc *FranchiseUseCase) GetByName(ctx context.Context, name string) (*dto.FranchiseResponse, error) {
	f, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.FranchiseNotFound(name)
	}
	return toFranchiseResponse(f), nil
}

// List devuelve todas las franquicias.
func (uc *FranchiseUseCase) List(ctx context.Context) (*dto.FranchiseListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FranchiseResponse, 0, len(list))
	for _, f := range list {
		items = append(items, *toFranchiseResponse(f))
	}
	return &dto.FranchiseListResponse{Items: items, Total: len(items)}, nil
}

// Count total de franquicias.
func (uc *FranchiseUseCase) Count(ctx context.Context) (int64, error) {
	return uc.repo.Count(ctx)
}

// ExistsByName indica si el nombre ya está tomado.
func (uc *FranchiseUseCase) ExistsByName(ctx context.Context, name string) (bool, error) {
	return uc.repo.ExistsByName(ctx, name)
}

// UpdateName renombra la franquicia. Renombrar al mismo nombre es idempotente y no consulta unicidad.
func (uc *FranchiseUseCase) UpdateName(ctx context.Context, id, name string) (*dto.FranchiseResponse, error) {
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	f, err := uc.mutate(ctx, "update_name", id, func(ctx context.Context, f *entity.Franchise) error {
		if f.Name == name {
			return nil
		}
		taken, err := uc.repo.ExistsByName(ctx, name)
		if err != nil {
			return err
		}
		if taken {
			return &domain.DuplicateNameError{Name: name}
		}
		f.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toFranchiseResponse(f), nil
}

// Delete elimina la franquicia con sus sucursales y productos.
func (uc *FranchiseUseCase) Delete(ctx context.Context, id string) (err error) {
	ctx, end := uc.start(ctx, "delete", attribute.String("franchise.id", id))
	defer func() { end(err) }()

	exists, err := uc.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.FranchiseNotFound(id)
	}
	deleted, err := uc.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.FranchiseNotFound(id)
	}
	uc.invalidate(ctx, id)
	uc.log.Debug().Str("franchise_id", id).Msg("franquicia eliminada")
	return nil
}

// DeleteByName elimina la franquicia con ese nombre exacto.
func (uc *FranchiseUseCase) DeleteByName(ctx context.Context, name string) (err error) {
	ctx, end := uc.start(ctx, "delete_by_name", attribute.String("franchise.name", name))
	defer func() { end(err) }()

	f, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if f == nil {
		return domain.FranchiseNotFound(name)
	}
	deleted, err := uc.repo.DeleteByName(ctx, name)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.FranchiseNotFound(name)
	}
	uc.invalidate(ctx, f.ID)
	return nil
}

// DeleteAll vacía el almacén y devuelve cuántas franquicias se eliminaron.
func (uc *FranchiseUseCase) DeleteAll(ctx context.Context) (n int64, err error) {
	ctx, end := uc.start(ctx, "delete_all")
	defer func() { end(err) }()

	n, err = uc.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if cerr := uc.cache.InvalidateAll(ctx); cerr != nil {
		uc.log.Warn().Err(cerr).Msg("no se pudo invalidar la caché de reportes")
	}
	uc.log.Info().Int64("deleted", n).Msg("almacén de franquicias vaciado")
	return n, nil
}

// AddBranch agrega una sucursal (con productos opcionales) al final de la franquicia.
func (uc *FranchiseUseCase) AddBranch(ctx context.Context, franchiseID string, in dto.CreateBranchRequest) (*dto.FranchiseResponse, error) {
	if err := validateBranch(in); err != nil {
		return nil, err
	}
	f, err := uc.mutate(ctx, "add_branch", franchiseID, func(_ context.Context, f *entity.Franchise) error {
		f.AddBranch(fromCreateBranch(in), uc.newID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toFranchiseResponse(f), nil
}

// UpdateBranchName renombra una sucursal. Los nombres de sucursal no son únicos.
func (uc *FranchiseUseCase) UpdateBranchName(ctx context.Context, franchiseID, branchID, name string) (*dto.FranchiseResponse, error) {
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	f, err := uc.mutate(ctx, "update_branch_name", franchiseID, func(_ context.Context, f *entity.Franchise) error {
		b, ok := f.FindBranch(branchID)
		if !ok {
			return domain.BranchNotFound(branchID)
		}
		b.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toFranchiseResponse(f), nil
}

// DeleteBranch elimina la sucursal y sus productos.
func (uc *FranchiseUseCase) DeleteBranch(ctx context.Context, franchiseID, branchID string) (*dto.FranchiseResponse, error) {
	f, err := uc.mutate(ctx, "delete_branch", franchiseID, func(_ context.Context, f *entity.Franchise) error {
		if !f.RemoveBranch(branchID) {
			return domain.BranchNotFound(branchID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toFranchiseResponse(f), nil
}

// AddProduct agrega un producto al final de la sucursal.
func (uc *FranchiseUseCase) AddProduct(ctx context.Context, franchiseID, branchID string, in dto.CreateProductRequest) (*dto.FranchiseResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	f, err := uc.mutate(ctx, "add_product", franchiseID, func(_ context.Context, f *entity.Franchise) error {
		b, ok := f.FindBranch(branchID)
		if !ok {
			return domain.BranchNotFound(branchID)
		}
		b.AddProduct(fromCreateProduct(in), uc.newID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toFranchiseResponse(f), nil
}

// RemoveProduct elimina un producto de la sucursal.
func (uc *FranchiseUseCase) RemoveProduct(ctx context.Context, franchiseID, branchID, productID string) (*dto.FranchiseResponse, error) {
	f, err := uc.mutate(ctx, "remove_product", franchiseID, func(_ context.Context, f *entity.Franchise) error {
		b, ok := f.FindBranch(branchID)
		if !ok {
			return domain.BranchNotFound(branchID)
		}
		if !b.RemoveProduct(productID) {
			return domain.ProductNotFound(productID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toFranchiseResponse(f), nil
}

// UpdateProductName renombra un producto.
func (uc *FranchiseUseCase) UpdateProductName(ctx context.Context, franchiseID, branchID, productID, name string) (*dto.FranchiseResponse, error) {
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	return uc.updateProduct(ctx, "update_product_name", franchiseID, branchID, productID, func(p *entity.Product) {
		p.Name = name
	})
}

// UpdateProductStock fija el stock del producto al valor recibido.
func (uc *FranchiseUseCase) UpdateProductStock(ctx context.Context, franchiseID, branchID, productID string, stock int) (*dto.FranchiseResponse, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	}
	return uc.updateProduct(ctx, "update_product_stock", franchiseID, branchID, productID, func(p *entity.Product) {
		p.Stock = stock
	})
}

func (uc *FranchiseUseCase) updateProduct(ctx context.Context, op, franchiseID, branchID, productID string, set func(*entity.Product)) (*dto.FranchiseResponse, error) {
	f, err := uc.mutate(ctx, op, franchiseID, func(_ context.Context, f *entity.Franchise) error {
		b, ok := f.FindBranch(branchID)
		if !ok {
			return domain.BranchNotFound(branchID)
		}
		p, ok := b.FindProduct(productID)
		if !ok {
			return domain.ProductNotFound(productID)
		}
		set(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toFranchiseResponse(f), nil
}

// mutate aplica apply sobre la versión actual del documento y lo guarda. Si apply falla no se
// persiste nada. Ante domain.ErrConflict relee y reaplica; agotados los reintentos devuelve el conflicto.
func (uc *FranchiseUseCase) mutate(ctx context.Context, op, id string, apply func(context.Context, *entity.Franchise) error) (f *entity.Franchise, err error) {
	ctx, end := uc.start(ctx, op, attribute.String("franchise.id", id))
	defer func() { end(err) }()

	for attempt := 0; ; attempt++ {
		f, err = uc.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if err = apply(ctx, f); err != nil {
			return nil, err
		}
		err = uc.repo.Save(ctx, f)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= uc.maxRetries {
			return nil, err
		}
		metrics.VersionConflicts.WithLabelValues(op).Inc()
		uc.log.Debug().Str("op", op).Str("franchise_id", id).Int("attempt", attempt+1).Msg("conflicto de versión, reintentando")
	}

	uc.invalidate(ctx, id)
	uc.log.Debug().Str("op", op).Str("franchise_id", id).Int64("version", f.Version).Msg("franquicia actualizada")
	return f, nil
}

func (uc *FranchiseUseCase) load(ctx context.Context, id string) (*entity.Franchise, error) {
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.FranchiseNotFound(id)
	}
	f.Normalize()
	return f, nil
}

func (uc *FranchiseUseCase) invalidate(ctx context.Context, franchiseID string) {
	if err := uc.cache.Invalidate(ctx, franchiseID); err != nil {
		uc.log.Warn().Err(err).Str("franchise_id", franchiseID).Msg("no se pudo invalidar la caché de reportes")
	}
}

// start abre el span de la operación y devuelve la función que lo cierra registrando métricas.
func (uc *FranchiseUseCase) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := uc.tracer.Start(ctx, "franchise."+op, trace.WithAttributes(attrs...))
	begin := time.Now()
	return ctx, func(err error) {
		metrics.ObserveMutation(op, begin, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if !errors.Is(err, domain.ErrNotFound) {
				uc.log.Warn().Err(err).Str("op", op).Msg("operación fallida")
			}
		}
		span.End()
	}
}

func validateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s no puede estar vacío", domain.ErrInvalidInput, field)
	}
	return nil
}

func validateProduct(in dto.CreateProductRequest) error {
	if err := validateName("product.name", in.Name); err != nil {
		return err
	}
	if in.Stock != nil && *in.Stock < 0 {
		return fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func validateBranch(in dto.CreateBranchRequest) error {
	if err := validateName("branch.name", in.Name); err != nil {
		return err
	}
	for _, p := range in.Products {
		if err := validateProduct(p); err != nil {
			return err
		}
	}
	return nil
}

func validateCreate(in dto.CreateFranchiseRequest) error {
	if err := validateName("name", in.Name); err != nil {
		return err
	}
	for _, b := range in.Branches {
		if err := validateBranch(b); err != nil {
			return err
		}
	}
	return nil
}
