package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-fh/internal/application/catalogo"
	"github.com/jhoicas/almacen-fh/internal/application/dietas"
	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/application/terceros"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.Ledger
	Projector *inventory.KardexProjector
	Catalogo  *catalogo.UseCase
	Dietas    *dietas.UseCase
	Terceros  *terceros.UseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras además
// exigen rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	almacen := RequireRole(RoleAdmin, RoleAlmacenista)
	admin := RequireRole(RoleAdmin)
	formulacion := RequireRole(RoleAdmin, RoleFormulador)

	// Movimientos
	inv := NewInventoryHandler(deps.Ledger, deps.Projector)
	api.Post("/entradas", almacen, inv.RegisterEntrada)
	api.Get("/entradas", inv.ListEntradas)
	api.Post("/salidas", almacen, inv.RegisterSalida)
	api.Get("/salidas", inv.ListSalidas)
	api.Get("/salidas/:id", inv.GetSalida)
	api.Post("/mermas", almacen, inv.RegisterMerma)
	api.Get("/mermas", inv.ListMermas)

	// Catálogo
	products := NewProductHandler(deps.Catalogo)
	api.Get("/productos", products.List)
	api.Post("/productos", admin, products.Create)
	api.Get("/productos/:id", products.GetByID)
	api.Put("/productos/:id", admin, products.Update)
	api.Delete("/productos/:id", admin, products.Delete)
	api.Post("/productos/:id/restaurar", admin, products.Restore)
	api.Get("/productos/:id/kardex", inv.Kardex)
	api.Get("/categorias", products.ListCategories)
	api.Post("/categorias", admin, products.CreateCategory)

	// Dietas
	d := NewDietaHandler(deps.Dietas)
	api.Get("/dietas", d.List)
	api.Post("/dietas", formulacion, d.Create)
	api.Get("/dietas/:id", d.GetByID)
	api.Put("/dietas/:id/ingredientes", formulacion, d.GuardarIngredientes)
	api.Post("/dietas/:id/preparar", formulacion, d.Preparar)
	api.Get("/dietas/:id/preparaciones", d.Preparaciones)
	api.Delete("/dietas/:id", formulacion, d.Delete)
	api.Post("/dietas/:id/restaurar", formulacion, d.Restore)

	// Terceros: proveedores, clientes, lugares, choferes y unidades
	for _, rt := range terceroRoutes {
		h := NewTerceroHandler(deps.Terceros, rt.tipo)
		api.Get(rt.path, h.List)
		api.Post(rt.path, almacen, h.Create)
		api.Get(rt.path+"/:id", h.GetByID)
		api.Put(rt.path+"/:id", almacen, h.Update)
		api.Delete(rt.path+"/:id", admin, h.Delete)
	}
}
