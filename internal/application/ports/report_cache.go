package ports

import (
	"context"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
)

// ReportCache almacena los reportes derivados de una franquicia. Un error de la caché nunca debe
// romper la operación: quien la usa registra el error y sigue contra el almacén.
//
// Las escrituras van condicionadas a una generación: quien calcula un reporte lee Generation antes
// de cargar la franquicia y pasa ese valor a Set*. Si entre medio hubo un Invalidate o
// InvalidateAll, la generación cambió y el reporte calculado se descarta sin cachearse.
type ReportCache interface {
	// Generation devuelve el token de generación vigente para la franquicia. Vacío = no cachear.
	Generation(ctx context.Context, franchiseID string) (string, error)
	GetTopStock(ctx context.Context, franchiseID string) ([]dto.TopStockProductResponse, bool, error)
	// SetTopStock guarda el reporte solo si la generación sigue siendo gen. Devuelve si se guardó.
	SetTopStock(ctx context.Context, franchiseID, gen string, report []dto.TopStockProductResponse) (bool, error)
	GetStats(ctx context.Context, franchiseID string) (*dto.FranchiseStatsResponse, bool, error)
	SetStats(ctx context.Context, franchiseID, gen string, stats *dto.FranchiseStatsResponse) (bool, error)
	// Invalidate avanza la generación de la franquicia y descarta sus reportes (tras cualquier mutación).
	Invalidate(ctx context.Context, franchiseID string) error
	// InvalidateAll avanza la generación global y descarta los reportes de todas las franquicias.
	InvalidateAll(ctx context.Context) error
}

// NopReportCache caché desactivada: siempre miss.
type NopReportCache struct{}

var _ ReportCache = NopReportCache{}

func (NopReportCache) Generation(context.Context, string) (string, error) { return "", nil }
func (NopReportCache) GetTopStock(context.Context, string) ([]dto.TopStockProductResponse, bool, error) {
	return nil, false, nil
}
func (NopReportCache) SetTopStock(context.Context, string, string, []dto.TopStockProductResponse) (bool, error) {
	return false, nil
}
func (NopReportCache) GetStats(context.Context, string) (*dto.FranchiseStatsResponse, bool, error) {
	return nil, false, nil
}
func (NopReportCache) SetStats(context.Context, string, string, *dto.FranchiseStatsResponse) (bool, error) {
	return false, nil
}
func (NopReportCache) Invalidate(context.Context, string) error { return nil }
func (NopReportCache) InvalidateAll(context.Context) error      { return nil }
