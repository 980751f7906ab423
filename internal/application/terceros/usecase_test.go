package terceros_test

import (
	"context"
	"testing"

	"github.com/jhoicas/almacen-fh/internal/application/catalogo"
	"github.com/jhoicas/almacen-fh/internal/application/dto"
	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/application/terceros"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-fh/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateYListar(t *testing.T) {
	uc := terceros.NewUseCase(memory.NewStore().Repos().Terceros)
	ctx := context.Background()

	for _, nombre := range []string{"Molinos del Bajío", " Agroinsumos Lerma ", "Granos Zamora"} {
		_, err := uc.Create(ctx, entity.TerceroProveedor, dto.TerceroRequest{Nombre: nombre, Telefono: "4431234567"})
		require.NoError(t, err)
	}
	_, err := uc.Create(ctx, entity.TerceroCliente, dto.TerceroRequest{Nombre: "Rancho El Alamo"})
	require.NoError(t, err)

	list, err := uc.List(ctx, entity.TerceroProveedor, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 3, "cada catálogo lista solo su tipo")
	assert.Equal(t, "Agroinsumos Lerma", list[0].Nombre)
	assert.Equal(t, "PROVEEDOR", list[0].Tipo)

	list, err = uc.List(ctx, entity.TerceroProveedor, "GRANOS", 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Granos Zamora", list[0].Nombre)

	_, err = uc.Create(ctx, entity.TerceroCliente, dto.TerceroRequest{Nombre: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.List(ctx, entity.TipoTercero("BANCO"), "", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUnidadRequierePlaca(t *testing.T) {
	uc := terceros.NewUseCase(memory.NewStore().Repos().Terceros)
	ctx := context.Background()

	_, err := uc.Create(ctx, entity.TerceroUnidad, dto.TerceroRequest{Nombre: "Torton blanco"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, entity.TerceroChofer, dto.TerceroRequest{Nombre: "Ramiro", Placa: "ABC-123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la placa es solo de unidades")

	u, err := uc.Create(ctx, entity.TerceroUnidad, dto.TerceroRequest{Nombre: "Torton blanco", Placa: " mn-4521-b "})
	require.NoError(t, err)
	assert.Equal(t, "MN-4521-B", u.Placa)

	list, err := uc.List(ctx, entity.TerceroUnidad, "4521", 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1, "la búsqueda incluye la placa")
}

func TestUpdateYGet(t *testing.T) {
	uc := terceros.NewUseCase(memory.NewStore().Repos().Terceros)
	ctx := context.Background()

	lugar, err := uc.Create(ctx, entity.TerceroLugar, dto.TerceroRequest{Nombre: "Granja 3"})
	require.NoError(t, err)

	out, err := uc.Update(ctx, entity.TerceroLugar, lugar.ID, dto.TerceroRequest{Nombre: "Granja 3 - Naves", Direccion: "Km 12 carretera Zamora"})
	require.NoError(t, err)
	assert.Equal(t, "Granja 3 - Naves", out.Nombre)

	got, err := uc.Get(ctx, entity.TerceroLugar, lugar.ID)
	require.NoError(t, err)
	assert.Equal(t, "Km 12 carretera Zamora", got.Direccion)

	_, err = uc.Get(ctx, entity.TerceroCliente, lugar.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un lugar no se encuentra como cliente")
	_, err = uc.Update(ctx, entity.TerceroLugar, "no-existe", dto.TerceroRequest{Nombre: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteReferenciado(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repos()
	ctx := context.Background()
	uc := terceros.NewUseCase(repos.Terceros)
	cat := catalogo.NewUseCase(repos.Products, repos.Categories)
	ledger := inventory.NewLedger(store, repos, nil, logger.Nop(), inventory.LedgerConfig{MaxRetries: inventory.DefaultMaxRetries})

	general, err := cat.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Alimento"})
	require.NoError(t, err)
	p, err := cat.Create(ctx, dto.CreateProductRequest{Name: "Engorda 18%", CategoryID: general.ID})
	require.NoError(t, err)
	proveedor, err := uc.Create(ctx, entity.TerceroProveedor, dto.TerceroRequest{Nombre: "Molinos del Bajío"})
	require.NoError(t, err)
	cliente, err := uc.Create(ctx, entity.TerceroCliente, dto.TerceroRequest{Nombre: "Rancho El Alamo"})
	require.NoError(t, err)
	sinUso, err := uc.Create(ctx, entity.TerceroCliente, dto.TerceroRequest{Nombre: "Posta Jacona"})
	require.NoError(t, err)

	_, err = ledger.RegistrarEntrada(ctx, inventory.EntradaInput{
		ProductID: p.ID, ProveedorID: proveedor.ID, Cantidad: entity.EnKg(decimal.NewFromInt(100)), UsuarioID: "u1",
	})
	require.NoError(t, err)
	_, err = ledger.RegistrarSalida(ctx, inventory.SalidaInput{
		Tipo: entity.MovimientoVenta, ClienteID: cliente.ID, UsuarioID: "u1",
		Lineas: []inventory.LineaSalida{{ProductID: p.ID, Cantidad: entity.EnKg(decimal.NewFromInt(40))}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, entity.TerceroProveedor, proveedor.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, entity.TerceroCliente, cliente.ID), domain.ErrConflict)
	_, err = uc.Get(ctx, entity.TerceroCliente, cliente.ID)
	assert.NoError(t, err, "el rechazo conserva el registro")

	require.NoError(t, uc.Delete(ctx, entity.TerceroCliente, sinUso.ID))
	assert.ErrorIs(t, uc.Delete(ctx, entity.TerceroCliente, sinUso.ID), domain.ErrNotFound)
}
