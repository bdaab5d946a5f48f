package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
	"github.com/jhoicas/franquicias-api/internal/application/usecase"
)

// ReportHandler reportes de solo lectura.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// TopStock godoc
// @Summary      Producto con más stock por sucursal
// @Tags         reports
// @Produce      json
// @Param        franchiseId  path  string  true  "ID de la franquicia"
// @Success      200          {array}   dto.TopStockProductResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/franchises/{franchiseId}/top-stock-products [get]
func (h *ReportHandler) TopStock(c *fiber.Ctx) error {
	out, err := h.uc.TopStockProducts(c.UserContext(), c.Params("franchiseId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de la franquicia
// @Tags         reports
// @Produce      json
// @Param        id   path  string  true  "ID de la franquicia"
// @Success      200  {object}  dto.FranchiseStatsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/franchises/{id}/stats [get]
func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar franquicias
// @Description  Nombre contiene (sin distinguir mayúsculas) y mínimos de sucursales y productos.
// @Tags         reports
// @Produce      json
// @Param        name         query  string  false  "Texto contenido en el nombre"
// @Param        minBranches  query  int     false  "Mínimo de sucursales"  default(0)
// @Param        minProducts  query  int     false  "Mínimo de productos"   default(0)
// @Success      200          {array}   dto.FranchiseResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/franchises/search [get]
func (h *ReportHandler) Search(c *fiber.Ctx) error {
	var q dto.SearchRequest
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "parámetros de búsqueda inválidos"})
	}
	if err := validateStruct(&q); err != nil {
		return writeError(c, err)
	}
	seq, err := h.uc.Search(c.UserContext(), usecase.SearchFilter{
		Name:        q.Name,
		MinBranches: q.MinBranches,
		MinProducts: q.MinProducts,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.FranchiseResponse, 0)
	for f := range seq {
		out = append(out, f)
	}
	return c.JSON(out)
}
