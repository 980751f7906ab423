package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-fh/internal/application/dto"
	"github.com/jhoicas/almacen-fh/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: los errores específicos del motor antes que los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrConfiguration, fiber.StatusUnprocessableEntity, "CONFIGURATION"},
	{domain.ErrCategoryMismatch, fiber.StatusUnprocessableEntity, "CATEGORY_MISMATCH"},
	{domain.ErrEmptyRecipe, fiber.StatusUnprocessableEntity, "EMPTY_RECIPE"},
	{domain.ErrDuplicateFolio, fiber.StatusConflict, "RETRY"},
	{domain.ErrStockConflict, fiber.StatusConflict, "RETRY"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// writeError traduce un error de dominio a dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		resp := dto.ErrorResponse{Code: m.code, Message: err.Error()}
		var stockErr *domain.StockError
		if errors.As(err, &stockErr) {
			resp.Details = dto.StockErrorDetails{
				ProductID:   stockErr.ProductID,
				ProductName: stockErr.ProductName,
				Disponible:  stockErr.Disponible,
				Solicitado:  stockErr.Solicitado,
			}
		}
		var productErr *domain.ProductError
		if errors.As(err, &productErr) && resp.Details == nil {
			resp.Details = fiber.Map{"product_id": productErr.ProductID, "product_name": productErr.ProductName}
		}
		return c.Status(m.status).JSON(resp)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
