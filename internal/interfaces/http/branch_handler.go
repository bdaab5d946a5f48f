package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
	"github.com/jhoicas/franquicias-api/internal/application/usecase"
)

// BranchHandler sucursales y productos dentro de una franquicia.
type BranchHandler struct {
	uc *usecase.FranchiseUseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *usecase.FranchiseUseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

// AddBranch godoc
// @Summary      Agregar sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        franchiseId  path  string                   true  "ID de la franquicia"
// @Param        body         body  dto.CreateBranchRequest  true  "Sucursal"
// @Success      201          {object}  dto.FranchiseResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/franchises/{franchiseId}/branches [post]
func (h *BranchHandler) AddBranch(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddBranch(c.UserContext(), c.Params("franchiseId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateBranchName godoc
// @Summary      Renombrar sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        franchiseId  path  string                 true  "ID de la franquicia"
// @Param        branchId     path  string                 true  "ID de la sucursal"
// @Param        body         body  dto.UpdateNameRequest  true  "Nuevo nombre"
// @Success      200          {object}  dto.FranchiseResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/franchises/{franchiseId}/branches/{branchId}/name [put]
func (h *BranchHandler) UpdateBranchName(c *fiber.Ctx) error {
	var in dto.UpdateNameRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateBranchName(c.UserContext(), c.Params("franchiseId"), c.Params("branchId"), in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteBranch godoc
// @Summary      Eliminar sucursal (con sus productos)
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        franchiseId  path  string  true  "ID de la franquicia"
// @Param        branchId     path  string  true  "ID de la sucursal"
// @Success      200          {object}  dto.FranchiseResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/franchises/{franchiseId}/branches/{branchId} [delete]
func (h *BranchHandler) DeleteBranch(c *fiber.Ctx) error {
	out, err := h.uc.DeleteBranch(c.UserContext(), c.Params("franchiseId"), c.Params("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddProduct godoc
// @Summary      Agregar producto a una sucursal
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        franchiseId  path  string                    true  "ID de la franquicia"
// @Param        branchId     path  string                    true  "ID de la sucursal"
// @Param        body         body  dto.CreateProductRequest  true  "Producto"
// @Success      201          {object}  dto.FranchiseResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/franchises/{franchiseId}/branches/{branchId}/products [post]
func (h *BranchHandler) AddProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddProduct(c.UserContext(), c.Params("franchiseId"), c.Params("branchId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveProduct godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        franchiseId  path  string  true  "ID de la franquicia"
// @Param        branchId     path  string  true  "ID de la sucursal"
// @Param        productId    path  string  true  "ID del producto"
// @Success      200          {object}  dto.FranchiseResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/franchises/{franchiseId}/branches/{branchId}/products/{productId} [delete]
func (h *BranchHandler) RemoveProduct(c *fiber.Ctx) error {
	out, err := h.uc.RemoveProduct(c.UserContext(), c.Params("franchiseId"), c.Params("branchId"), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStock godoc
// @Summary      Actualizar stock de un producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        franchiseId  path  string                  true  "ID de la franquicia"
// @Param        branchId     path  string                  true  "ID de la sucursal"
// @Param        productId    path  string                  true  "ID del producto"
// @Param        body         body  dto.UpdateStockRequest  true  "Nuevo stock (>= 0)"
// @Success      200          {object}  dto.FranchiseResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/franchises/{franchiseId}/branches/{branchId}/products/{productId}/stock [put]
func (h *BranchHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateProductStock(c.UserContext(), c.Params("franchiseId"), c.Params("branchId"), c.Params("productId"), *in.Stock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProductName godoc
// @Summary      Renombrar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        franchiseId  path  string                 true  "ID de la franquicia"
// @Param        branchId     path  string                 true  "ID de la sucursal"
// @Param        productId    path  string                 true  "ID del producto"
// @Param        body         body  dto.UpdateNameRequest  true  "Nuevo nombre"
// @Success      200          {object}  dto.FranchiseResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/franchises/{franchiseId}/branches/{branchId}/products/{productId}/name [put]
func (h *BranchHandler) UpdateProductName(c *fiber.Ctx) error {
	var in dto.UpdateNameRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateProductName(c.UserContext(), c.Params("franchiseId"), c.Params("branchId"), c.Params("productId"), in.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
