package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-fh/internal/application/dietas"
	"github.com/jhoicas/almacen-fh/internal/application/dto"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DietaHandler dietas, recetas y preparaciones (protegido).
type DietaHandler struct {
	uc *dietas.UseCase
}

// NewDietaHandler construye el handler.
func NewDietaHandler(uc *dietas.UseCase) *DietaHandler {
	return &DietaHandler{uc: uc}
}

// Create godoc
// @Summary      Crear dieta
// @Description  Crea la dieta y su producto generado en la categoría de dietas.
// @Tags         dietas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDietaRequest  true  "Nombre y etapa"
// @Success      201   {object}  dto.DietaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dietas [post]
func (h *DietaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDietaRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	d, err := h.uc.Crear(c.UserContext(), in.Nombre, entity.EtapaCerdo(in.Etapa))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDietaResponse(d))
}

// List godoc
// @Summary      Listar dietas
// @Tags         dietas
// @Security     Bearer
// @Produce      json
// @Param        eliminadas  query  bool  false  "Papelera"
// @Success      200  {array}  dto.DietaResponse
// @Router       /api/dietas [get]
func (h *DietaHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.Listar(c.UserContext(), c.QueryBool("eliminadas", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(mapList(list, toDietaResponse))
}

// GetByID godoc
// @Summary      Obtener dieta
// @Tags         dietas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la dieta"
// @Success      200  {object}  dto.DietaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dietas/{id} [get]
func (h *DietaHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	d, err := h.uc.Obtener(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDietaResponse(d))
}

// GuardarIngredientes godoc
// @Summary      Guardar ingredientes de la receta
// @Description  kg > 0 crea o actualiza la línea; kg <= 0 la elimina. Si la receta cambia la dieta vuelve a PREPARABLE.
// @Tags         dietas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la dieta"
// @Param        body  body  dto.GuardarIngredientesRequest  true  "Ingredientes"
// @Success      200   {object}  dto.DietaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/dietas/{id}/ingredientes [put]
func (h *DietaHandler) GuardarIngredientes(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var in dto.GuardarIngredientesRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	kg := make(map[string]decimal.Decimal, len(in.Ingredientes))
	for _, ing := range in.Ingredientes {
		if _, dup := kg[ing.ProductID]; dup {
			return badRequest(c, "VALIDATION", "ingrediente repetido: "+ing.ProductID)
		}
		kg[ing.ProductID] = ing.Kg
	}
	d, err := h.uc.GuardarIngredientes(c.UserContext(), id, kg)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDietaResponse(d))
}

// Preparar godoc
// @Summary      Preparar dieta
// @Description  Descuenta los ingredientes (salida DIETA) y acredita el producto de la dieta en una sola transacción.
// @Tags         dietas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la dieta"
// @Param        body  body  dto.PrepararDietaRequest  true  "Notas y lotes"
// @Success      201   {object}  dto.PreparacionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/dietas/{id}/preparar [post]
func (h *DietaHandler) Preparar(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var in dto.PrepararDietaRequest
	if len(c.Body()) > 0 {
		if ok, err := bind(c, &in); !ok {
			return err
		}
	}
	p, err := h.uc.Preparar(c.UserContext(), dietas.PrepararInput{
		DietaID:   id,
		UsuarioID: GetUserID(c),
		Notas:     in.Notas,
		Lotes:     in.Lotes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPreparacionResponse(p))
}

// Preparaciones godoc
// @Summary      Historial de preparaciones
// @Tags         dietas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la dieta"
// @Success      200  {array}   dto.PreparacionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dietas/{id}/preparaciones [get]
func (h *DietaHandler) Preparaciones(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	list, err := h.uc.Preparaciones(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(mapList(list, toPreparacionResponse))
}

// Delete godoc
// @Summary      Enviar dieta a la papelera
// @Tags         dietas
// @Security     Bearer
// @Param        id   path  string  true  "ID de la dieta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dietas/{id} [delete]
func (h *DietaHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	if err := h.uc.Eliminar(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Restaurar dieta de la papelera
// @Tags         dietas
// @Security     Bearer
// @Param        id   path  string  true  "ID de la dieta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dietas/{id}/restaurar [post]
func (h *DietaHandler) Restore(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	if err := h.uc.Restaurar(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
