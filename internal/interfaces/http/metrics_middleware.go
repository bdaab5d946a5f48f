package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/franquicias-api/internal/infrastructure/metrics"
)

// MetricsMiddleware registra cada petición usando el patrón de ruta (no la URL) como etiqueta.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		metrics.ObserveHTTP(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
