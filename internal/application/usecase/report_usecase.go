package usecase

import (
	"context"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
	"github.com/jhoicas/franquicias-api/internal/application/ports"
	"github.com/jhoicas/franquicias-api/internal/domain"
	"github.com/jhoicas/franquicias-api/internal/domain/entity"
	"github.com/jhoicas/franquicias-api/internal/domain/repository"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/metrics"
	"github.com/jhoicas/franquicias-api/pkg/logger"
)

// reportLoadTimeout acota la carga compartida por singleflight, que ya no depende del ctx del llamador.
const reportLoadTimeout = 10 * time.Second

// ReportUseCase reportes de solo lectura sobre el agregado (top stock, estadísticas, búsqueda).
// Top stock y estadísticas pasan por la caché de reportes; un fallo de la caché solo se registra.
type ReportUseCase struct {
	repo   repository.FranchiseRepository
	cache  ports.ReportCache
	log    *logger.Logger
	tracer trace.Tracer
	group  singleflight.Group
}

// NewReportUseCase construye el caso de uso. cache y log pueden ser nil.
func NewReportUseCase(repo repository.FranchiseRepository, cache ports.ReportCache, log *logger.Logger) *ReportUseCase {
	if cache == nil {
		cache = ports.NopReportCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		repo:   repo,
		cache:  cache,
		log:    log.Component("report_usecase"),
		tracer: otel.Tracer(tracerName),
	}
}

// TopStockProducts producto con más stock de cada sucursal de la franquicia.
func (uc *ReportUseCase) TopStockProducts(ctx context.Context, franchiseID string) ([]dto.TopStockProductResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "report.top_stock", trace.WithAttributes(attribute.String("franchise.id", franchiseID)))
	defer span.End()

	if cached, ok, err := uc.cache.GetTopStock(ctx, franchiseID); err != nil {
		metrics.ReportCacheLookups.WithLabelValues("top_stock", "error").Inc()
		uc.log.Warn().Err(err).Str("franchise_id", franchiseID).Msg("caché de reportes no disponible")
	} else if ok {
		metrics.ReportCacheLookups.WithLabelValues("top_stock", "hit").Inc()
		return cached, nil
	} else {
		metrics.ReportCacheLookups.WithLabelValues("top_stock", "miss").Inc()
	}

	v, err, _ := uc.group.Do("top:"+franchiseID, func() (any, error) {
		ctx, cancel := flightContext(ctx)
		defer cancel()

		gen, cacheable := uc.generation(ctx, franchiseID)
		f, err := uc.load(ctx, franchiseID)
		if err != nil {
			return nil, err
		}
		report := TopStockByBranch(f)
		if cacheable {
			stored, err := uc.cache.SetTopStock(ctx, franchiseID, gen, report)
			uc.logStore("top_stock", franchiseID, stored, err)
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dto.TopStockProductResponse), nil
}

// Stats totales de la franquicia.
func (uc *ReportUseCase) Stats(ctx context.Context, franchiseID string) (*dto.FranchiseStatsResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "report.stats", trace.WithAttributes(attribute.String("franchise.id", franchiseID)))
	defer span.End()

	if cached, ok, err := uc.cache.GetStats(ctx, franchiseID); err != nil {
		metrics.ReportCacheLookups.WithLabelValues("stats", "error").Inc()
		uc.log.Warn().Err(err).Str("franchise_id", franchiseID).Msg("caché de reportes no disponible")
	} else if ok {
		metrics.ReportCacheLookups.WithLabelValues("stats", "hit").Inc()
		return cached, nil
	} else {
		metrics.ReportCacheLookups.WithLabelValues("stats", "miss").Inc()
	}

	v, err, _ := uc.group.Do("stats:"+franchiseID, func() (any, error) {
		ctx, cancel := flightContext(ctx)
		defer cancel()

		gen, cacheable := uc.generation(ctx, franchiseID)
		f, err := uc.load(ctx, franchiseID)
		if err != nil {
			return nil, err
		}
		stats := ComputeStats(f)
		if cacheable {
			stored, err := uc.cache.SetStats(ctx, franchiseID, gen, &stats)
			uc.logStore("stats", franchiseID, stored, err)
		}
		return &stats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.FranchiseStatsResponse), nil
}

// Search carga todas las franquicias y devuelve una secuencia perezosa con las que cumplen el filtro.
func (uc *ReportUseCase) Search(ctx context.Context, filter SearchFilter) (iter.Seq[dto.FranchiseResponse], error) {
	ctx, span := uc.tracer.Start(ctx, "report.search")
	defer span.End()

	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return func(yield func(dto.FranchiseResponse) bool) {
		for _, f := range all {
			f.Normalize()
			if !MatchesFilter(f, filter) {
				continue
			}
			if !yield(*toFranchiseResponse(f)) {
				return
			}
		}
	}, nil
}

// flightContext desacopla la carga compartida de la cancelación de quien abrió el vuelo: los demás
// llamadores que se unieron siguen esperando el resultado.
func flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), reportLoadTimeout)
}

// generation lee el token de la caché antes de cargar la franquicia. Sin token (caché desactivada o
// caída) no se cachea.
func (uc *ReportUseCase) generation(ctx context.Context, franchiseID string) (string, bool) {
	gen, err := uc.cache.Generation(ctx, franchiseID)
	if err != nil {
		uc.log.Warn().Err(err).Str("franchise_id", franchiseID).Msg("caché de reportes no disponible")
		return "", false
	}
	return gen, gen != ""
}

func (uc *ReportUseCase) logStore(report, franchiseID string, stored bool, err error) {
	switch {
	case err != nil:
		uc.log.Warn().Err(err).Str("report", report).Str("franchise_id", franchiseID).Msg("no se pudo cachear el reporte")
	case !stored:
		uc.log.Debug().Str("report", report).Str("franchise_id", franchiseID).Msg("reporte no cacheado: la franquicia cambió durante el cálculo")
	}
}

func (uc *ReportUseCase) load(ctx context.Context, id string) (*entity.Franchise, error) {
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
