package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-fh/internal/application/dto"
	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
)

// InventoryHandler entradas, salidas, mermas y kardex (protegido).
type InventoryHandler struct {
	ledger    *inventory.Ledger
	projector *inventory.KardexProjector
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.Ledger, projector *inventory.KardexProjector) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, projector: projector}
}

// RegisterEntrada godoc
// @Summary      Registrar entrada
// @Description  Suma stock al producto. La cantidad se captura en kg, toneladas y/o bultos.
// @Tags         entradas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntradaRequest  true  "Producto, proveedor y cantidad"
// @Success      201   {object}  dto.EntradaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/entradas [post]
func (h *InventoryHandler) RegisterEntrada(c *fiber.Ctx) error {
	var in dto.RegisterEntradaRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	e, err := h.ledger.RegistrarEntrada(c.UserContext(), inventory.EntradaInput{
		ProductID:   in.ProductID,
		ProveedorID: in.ProveedorID,
		Cantidad:    toCantidad(in.Cantidad),
		UsuarioID:   GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEntradaResponse(e))
}

// ListEntradas godoc
// @Summary      Listar entradas
// @Tags         entradas
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        anio        query  int     false  "Año"
// @Param        mes         query  int     false  "Mes (requiere anio)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.EntradaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/entradas [get]
func (h *InventoryHandler) ListEntradas(c *fiber.Ctx) error {
	list, err := h.ledger.ListEntradas(c.UserContext(), listFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(mapList(list, toEntradaResponse))
}

// RegisterSalida godoc
// @Summary      Registrar salida
// @Description  Valida todas las líneas antes de descontar stock y asigna folio por tipo (VEN, TRA, PED).
// @Tags         salidas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSalidaRequest  true  "Encabezado y líneas"
// @Success      201   {object}  dto.SalidaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/salidas [post]
func (h *InventoryHandler) RegisterSalida(c *fiber.Ctx) error {
	var in dto.RegisterSalidaRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	lineas := make([]inventory.LineaSalida, 0, len(in.Lineas))
	for _, ln := range in.Lineas {
		lineas = append(lineas, inventory.LineaSalida{ProductID: ln.ProductID, Cantidad: toCantidad(ln.Cantidad)})
	}
	m, err := h.ledger.RegistrarSalida(c.UserContext(), inventory.SalidaInput{
		Tipo:      entity.TipoMovimiento(in.Tipo),
		ClienteID: in.ClienteID,
		LugarID:   in.LugarID,
		ChoferID:  in.ChoferID,
		UnidadID:  in.UnidadID,
		Notas:     in.Notas,
		UsuarioID: GetUserID(c),
		Lineas:    lineas,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSalidaResponse(m))
}

// ListSalidas godoc
// @Summary      Listar salidas
// @Tags         salidas
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Salidas que incluyen el producto"
// @Param        anio        query  int     false  "Año"
// @Param        mes         query  int     false  "Mes (requiere anio)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.SalidaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/salidas [get]
func (h *InventoryHandler) ListSalidas(c *fiber.Ctx) error {
	list, err := h.ledger.ListSalidas(c.UserContext(), listFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(mapList(list, toSalidaResponse))
}

// GetSalida godoc
// @Summary      Obtener salida por ID
// @Tags         salidas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.SalidaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/salidas/{id} [get]
func (h *InventoryHandler) GetSalida(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	m, err := h.ledger.GetSalida(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSalidaResponse(m))
}

// RegisterMerma godoc
// @Summary      Registrar merma
// @Tags         mermas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMermaRequest  true  "Producto, motivo y cantidad"
// @Success      201   {object}  dto.MermaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/mermas [post]
func (h *InventoryHandler) RegisterMerma(c *fiber.Ctx) error {
	var in dto.RegisterMermaRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	m, err := h.ledger.RegistrarMerma(c.UserContext(), inventory.MermaInput{
		ProductID:   in.ProductID,
		Motivo:      entity.MotivoMerma(in.Motivo),
		Descripcion: in.Descripcion,
		Cantidad:    toCantidad(in.Cantidad),
		UsuarioID:   GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMermaResponse(m))
}

// ListMermas godoc
// @Summary      Listar mermas
// @Tags         mermas
// @Security     Bearer
// @Produce      json
// @Param        anio    query  int  false  "Año"
// @Param        mes     query  int  false  "Mes (requiere anio)"
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}   dto.MermaResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/mermas [get]
func (h *InventoryHandler) ListMermas(c *fiber.Ctx) error {
	list, err := h.ledger.ListMermas(c.UserContext(), listFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(mapList(list, toMermaResponse))
}

// Kardex godoc
// @Summary      Kardex del producto
// @Description  Movimientos en orden cronológico con saldo acumulado. hasta es inclusivo.
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        desde  query  string  false  "YYYY-MM-DD"
// @Param        hasta  query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/kardex [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	desde, err := queryDate(c, "desde", false)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	hasta, err := queryDate(c, "hasta", true)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	k, err := h.projector.Proyectar(c.UserContext(), id, inventory.KardexFiltro{Desde: desde, Hasta: hasta})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toKardexResponse(k))
}

func listFilter(c *fiber.Ctx) inventory.ListFilter {
	p := page(c)
	return inventory.ListFilter{
		ProductID: c.Query("product_id"),
		Anio:      c.QueryInt("anio", 0),
		Mes:       c.QueryInt("mes", 0),
		Limit:     p.Limit,
		Offset:    p.Offset,
	}
}
