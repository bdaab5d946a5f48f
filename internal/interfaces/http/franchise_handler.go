package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
	"github.com/jhoicas/franquicias-api/internal/application/usecase"
)

// FranchiseHandler maneja las peticiones HTTP sobre la franquicia completa.
type FranchiseHandler struct {
	uc               *usecase.FranchiseUseCase
	batchConcurrency int
}

// NewFranchiseHandler construye el handler.
func NewFranchiseHandler(uc *usecase.FranchiseUseCase, batchConcurrency int) *FranchiseHandler {
	return &FranchiseHandler{uc: uc, batchConcurrency: batchConcurrency}
}

// Create godoc
// @Summary      Crear franquicia
// @Description  Crea la franquicia con sucursales y productos opcionales; los ids los asigna el servidor.
// @Tags         franchises
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFranchiseRequest  true  "Datos de la franquicia"
// @Success      201   {object}  dto.FranchiseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/franchises [post]
func (h *FranchiseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFranchiseRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar franquicias
// @Tags         franchises
// @Produce      json
// @Success      200  {object}  dto.FranchiseListResponse
// @Router       /api/franchises [get]
func (h *FranchiseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener franquicia por ID
// @Tags         franchises
// @Produce      json
// @Param        id   path  string  true  "ID de la franquicia"
// @Success      200  {object}  dto.FranchiseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/franchises/{id} [get]
func (h *FranchiseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByName godoc
// @Summary      Obtener franquicia por nombre exacto
// @Tags         franchises
// @Produce      json
// @Param        name  path  string  true  "Nombre"
// @Success      200   {object}  dto.FranchiseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/franchises/name/{name} [get]
func (h *FranchiseHandler) GetByName(c *fiber.Ctx) error {
	out, err := h.uc.GetByName(c.UserContext(), pathParam(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateName godoc
// @Summary      Renombrar franquicia
// @Tags         franchises
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la franquicia"
// @Param        body  body  dto.UpdateNameRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.FranchiseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/franchises/{id}/name [put]
func (h *FranchiseHandler) UpdateName(c *fiber.Ctx) error {
	var in dto.UpdateNameRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateName(c.UserContext(), c.Params("id"), in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar franquicia (con sucursales y productos)
// @Tags         franchises
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la franquicia"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/franchises/{id} [delete]
func (h *FranchiseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "franquicia eliminada"})
}

// DeleteByName godoc
// @Summary      Eliminar franquicia por nombre exacto
// @Tags         franchises
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/franchises/name/{name} [delete]
func (h *FranchiseHandler) DeleteByName(c *fiber.Ctx) error {
	if err := h.uc.DeleteByName(c.UserContext(), pathParam(c, "name")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "franquicia eliminada"})
}

// DeleteAll godoc
// @Summary      Eliminar todas las franquicias
// @Tags         franchises
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DeletedResponse
// @Router       /api/franchises/all [delete]
func (h *FranchiseHandler) DeleteAll(c *fiber.Ctx) error {
	n, err := h.uc.DeleteAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeletedResponse{Message: "franquicias eliminadas", Deleted: n})
}

// Count godoc
// @Summary      Contar franquicias
// @Tags         franchises
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/franchises/count [get]
func (h *FranchiseHandler) Count(c *fiber.Ctx) error {
	n, err := h.uc.Count(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// Exists godoc
// @Summary      Verificar si existe una franquicia con ese nombre
// @Tags         franchises
// @Produce      json
// @Param        name  path  string  true  "Nombre"
// @Success      200   {object}  dto.ExistsResponse
// @Router       /api/franchises/exists/{name} [get]
func (h *FranchiseHandler) Exists(c *fiber.Ctx) error {
	ok, err := h.uc.ExistsByName(c.UserContext(), pathParam(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ExistsResponse{Exists: ok})
}

// Batch godoc
// @Summary      Crear varias franquicias
// @Description  Cada elemento se crea de forma independiente; un fallo no detiene al resto.
// @Tags         franchises
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.CreateFranchiseRequest  true  "Franquicias"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/franchises/batch [post]
func (h *FranchiseHandler) Batch(c *fiber.Ctx) error {
	var items []dto.CreateFranchiseRequest
	if err := c.BodyParser(&items); err != nil {
		return invalidBody(c)
	}
	// La validación es por elemento: los inválidos quedan como fallidos en el resultado.
	return c.JSON(h.uc.BatchCreate(c.UserContext(), items, h.batchConcurrency))
}

// pathParam devuelve el parámetro decodificado (los nombres pueden traer espacios o acentos).
func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
