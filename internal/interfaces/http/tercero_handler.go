package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-fh/internal/application/dto"
	"github.com/jhoicas/almacen-fh/internal/application/terceros"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
)

// Rutas de cada catálogo de terceros.
var terceroRoutes = []struct {
	path string
	tipo entity.TipoTercero
}{
	{"/proveedores", entity.TerceroProveedor},
	{"/clientes", entity.TerceroCliente},
	{"/lugares", entity.TerceroLugar},
	{"/choferes", entity.TerceroChofer},
	{"/unidades", entity.TerceroUnidad},
}

// TerceroHandler CRUD de un catálogo de terceros (protegido). Hay una instancia por tipo.
type TerceroHandler struct {
	uc   *terceros.UseCase
	tipo entity.TipoTercero
}

// NewTerceroHandler construye el handler del catálogo tipo.
func NewTerceroHandler(uc *terceros.UseCase, tipo entity.TipoTercero) *TerceroHandler {
	return &TerceroHandler{uc: uc, tipo: tipo}
}

// Create godoc
// @Summary      Registrar tercero
// @Description  catalogo: proveedores, clientes, lugares, choferes o unidades. En unidades la placa es obligatoria.
// @Tags         terceros
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        catalogo  path  string              true  "Catálogo"  Enums(proveedores, clientes, lugares, choferes, unidades)
// @Param        body      body  dto.TerceroRequest  true  "Datos del tercero"
// @Success      201   {object}  dto.TerceroResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/{catalogo} [post]
func (h *TerceroHandler) Create(c *fiber.Ctx) error {
	var in dto.TerceroRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), h.tipo, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar terceros
// @Tags         terceros
// @Security     Bearer
// @Produce      json
// @Param        catalogo  path   string  true   "Catálogo"  Enums(proveedores, clientes, lugares, choferes, unidades)
// @Param        q         query  string  false  "Busca en nombre o placa"
// @Param        limit     query  int     false  "Límite"  default(50)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.TerceroResponse
// @Router       /api/{catalogo} [get]
func (h *TerceroHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.List(c.UserContext(), h.tipo, c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener tercero
// @Tags         terceros
// @Security     Bearer
// @Produce      json
// @Param        catalogo  path  string  true  "Catálogo"  Enums(proveedores, clientes, lugares, choferes, unidades)
// @Param        id        path  string  true  "ID del tercero"
// @Success      200  {object}  dto.TerceroResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{catalogo}/{id} [get]
func (h *TerceroHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), h.tipo, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tercero
// @Tags         terceros
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        catalogo  path  string              true  "Catálogo"  Enums(proveedores, clientes, lugares, choferes, unidades)
// @Param        id        path  string              true  "ID del tercero"
// @Param        body      body  dto.TerceroRequest  true  "Datos del tercero"
// @Success      200  {object}  dto.TerceroResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{catalogo}/{id} [put]
func (h *TerceroHandler) Update(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var in dto.TerceroRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), h.tipo, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar tercero
// @Description  Un tercero referenciado por entradas o salidas no se puede borrar (409 CONFLICT).
// @Tags         terceros
// @Security     Bearer
// @Param        catalogo  path  string  true  "Catálogo"  Enums(proveedores, clientes, lugares, choferes, unidades)
// @Param        id        path  string  true  "ID del tercero"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{catalogo}/{id} [delete]
func (h *TerceroHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), h.tipo, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
