package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/franquicias-api/internal/domain"
)

var (
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "franchise_mutations_total",
			Help: "Mutaciones del agregado por operación y resultado",
		},
		[]string{"operation", "result"},
	)

	MutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "franchise_mutation_duration_seconds",
			Help:    "Duración de las mutaciones del agregado",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	VersionConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "franchise_version_conflicts_total",
			Help: "Conflictos de versión reintentados por operación",
		},
		[]string{"operation"},
	)

	ReportCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "franchise_report_cache_lookups_total",
			Help: "Consultas a la caché de reportes (hit/miss/error)",
		},
		[]string{"report", "outcome"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Peticiones HTTP por método, ruta y código",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Result clasifica un error de dominio como etiqueta de métrica.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateName):
		return "duplicate"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// ObserveMutation registra resultado y duración de una operación del motor.
func ObserveMutation(operation string, start time.Time, err error) {
	MutationsTotal.WithLabelValues(operation, Result(err)).Inc()
	MutationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveHTTP registra una petición ya respondida.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
