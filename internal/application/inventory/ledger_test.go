package inventory_test

import (
	"errors"
	"testing"

	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_CornScenario(t *testing.T) {
	f := newFixture(t)
	corn := f.product("Corn", "500")

	_, err := f.salida(entity.MovimientoVenta, linea(corn.ID, "600"))
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, corn.ID, stockErr.ProductID)
	assert.True(t, stockErr.Disponible.Equal(kg("500")))
	assert.True(t, stockErr.Solicitado.Equal(kg("600")))
	assert.True(t, f.stock(corn.ID).Equal(kg("500")), "el rechazo no modifica stock")

	_, err = f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{
		ProductID: corn.ID, ProveedorID: f.tercero(entity.TerceroProveedor, "Granos del Norte"), Cantidad: entity.EnKg(kg("200")), UsuarioID: usuario,
	})
	require.NoError(t, err)
	assert.True(t, f.stock(corn.ID).Equal(kg("700")))

	mov, err := f.salida(entity.MovimientoVenta, linea(corn.ID, "600"))
	require.NoError(t, err)
	assert.True(t, f.stock(corn.ID).Equal(kg("100")))
	assert.Equal(t, "VEN-00001", mov.Folio, "el intento rechazado no consume folio")
	assert.True(t, mov.TotalKg().Equal(kg("600")))
}

func TestLedger_RegistrarEntrada_UnitConversion(t *testing.T) {
	f := newFixture(t)
	p := f.product("Sorgo", "0")
	p.PesoPorBulto = decimal.NewNullDecimal(kg("20"))
	require.NoError(t, f.repos.Products.Update(f.ctx, p))

	e, err := f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{
		ProductID: p.ID,
		Cantidad:  entity.Cantidad{Kg: kg("10"), Toneladas: kg("1"), Bultos: 5},
		UsuarioID: usuario,
	})
	require.NoError(t, err)
	assert.True(t, e.TotalKg.Equal(kg("1110")))
	assert.Equal(t, entity.OrigenCompra, e.Origen)
	assert.Equal(t, int64(5), e.Cantidad.Bultos, "se conserva la captura original")
	assert.True(t, f.stock(p.ID).Equal(kg("1110")))
}

func TestLedger_RegistrarEntrada_Rejections(t *testing.T) {
	f := newFixture(t)
	p := f.product("Trigo", "0")

	cases := []struct {
		name     string
		cantidad entity.Cantidad
		want     error
	}{
		{"todo en cero", entity.Cantidad{}, domain.ErrInvalidQuantity},
		{"bultos sin peso configurado", entity.Cantidad{Bultos: 3}, domain.ErrConfiguration},
		{"negativo", entity.EnKg(kg("-5")), domain.ErrInvalidQuantity},
		{"tres decimales", entity.EnKg(kg("1.005")), domain.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{ProductID: p.ID, Cantidad: tc.cantidad, UsuarioID: usuario})
			require.ErrorIs(t, err, tc.want)
			var pe *domain.ProductError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "Trigo", pe.ProductName)
			assert.True(t, f.stock(p.ID).IsZero())
		})
	}

	_, err := f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{ProductID: "no-existe", Cantidad: entity.EnKg(kg("1")), UsuarioID: usuario})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{ProductID: p.ID, Cantidad: entity.EnKg(kg("1"))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin usuario")
}

func TestLedger_RegistrarSalida_ValidatesAllLinesBeforeMutating(t *testing.T) {
	f := newFixture(t)
	a := f.product("A", "100")
	b := f.product("B", "10")

	_, err := f.salida(entity.MovimientoTraslado, linea(a.ID, "50"), linea(b.ID, "11"))
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, b.ID, stockErr.ProductID)
	assert.True(t, f.stock(a.ID).Equal(kg("100")))
	assert.True(t, f.stock(b.ID).Equal(kg("10")))

	list, err := f.ledger.ListSalidas(f.ctx, inventory.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLedger_RegistrarSalida_AggregatesLinesOfSameProduct(t *testing.T) {
	f := newFixture(t)
	p := f.product("Avena", "500")

	_, err := f.salida(entity.MovimientoPedido, linea(p.ID, "300"), linea(p.ID, "300"))
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Solicitado.Equal(kg("600")))
	assert.True(t, f.stock(p.ID).Equal(kg("500")))

	mov, err := f.salida(entity.MovimientoPedido, linea(p.ID, "250"), linea(p.ID, "250"))
	require.NoError(t, err)
	assert.Len(t, mov.Detalles, 2)
	assert.True(t, f.stock(p.ID).IsZero())
}

func TestLedger_RegistrarSalida_InvalidLineAbortsAll(t *testing.T) {
	f := newFixture(t)
	a := f.product("A", "100")
	b := f.product("B", "100")

	_, err := f.salida(entity.MovimientoVenta, linea(a.ID, "10"), inventory.LineaSalida{ProductID: b.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.True(t, f.stock(a.ID).Equal(kg("100")))

	_, err = f.salida(entity.MovimientoVenta)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")
	_, err = f.salida(entity.TipoMovimiento("REGALO"), linea(a.ID, "1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_FoliosPerPrefix(t *testing.T) {
	f := newFixture(t)
	p := f.product("Soya", "1000")

	folios := make([]string, 0, 4)
	for _, tipo := range []entity.TipoMovimiento{entity.MovimientoVenta, entity.MovimientoVenta, entity.MovimientoTraslado, entity.MovimientoPedido} {
		mov, err := f.salida(tipo, linea(p.ID, "1"))
		require.NoError(t, err)
		folios = append(folios, mov.Folio)
	}
	assert.Equal(t, []string{"VEN-00001", "VEN-00002", "TRA-00001", "PED-00001"}, folios)
}

func TestLedger_RetriesDuplicateFolio(t *testing.T) {
	f := newFixture(t)
	p := f.product("Soya", "100")
	f.store.FailNext("movimientos.create", domain.ErrDuplicateFolio, domain.ErrStockConflict)

	mov, err := f.salida(entity.MovimientoVenta, linea(p.ID, "40"))
	require.NoError(t, err)
	assert.Equal(t, "VEN-00001", mov.Folio, "los intentos fallidos se deshacen completos")
	assert.True(t, f.stock(p.ID).Equal(kg("60")), "el stock se descuenta una sola vez")
}

func TestLedger_GivesUpAfterRetryBudget(t *testing.T) {
	f := newFixture(t)
	p := f.product("Soya", "100")
	f.store.FailNext("folios.next",
		domain.ErrStockConflict, domain.ErrStockConflict, domain.ErrStockConflict, domain.ErrStockConflict)

	_, err := f.salida(entity.MovimientoVenta, linea(p.ID, "40"))
	assert.ErrorIs(t, err, domain.ErrStockConflict)
	assert.True(t, f.stock(p.ID).Equal(kg("100")))
}

func TestLedger_InfrastructureErrorIsNotRetried(t *testing.T) {
	f := newFixture(t)
	p := f.product("Soya", "100")
	down := errors.New("conexión perdida")
	f.store.FailNext("movimientos.create", down)

	_, err := f.salida(entity.MovimientoVenta, linea(p.ID, "40"))
	require.ErrorIs(t, err, down)
	assert.True(t, f.stock(p.ID).Equal(kg("100")), "el descuento previo se deshace con la transacción")

	mov, err := f.salida(entity.MovimientoVenta, linea(p.ID, "40"))
	require.NoError(t, err)
	assert.Equal(t, "VEN-00001", mov.Folio)
}

func TestLedger_RegistrarMerma(t *testing.T) {
	f := newFixture(t)
	p := f.product("Salvado", "80")

	m, err := f.ledger.RegistrarMerma(f.ctx, inventory.MermaInput{
		ProductID: p.ID, Motivo: entity.MermaHumedad, Descripcion: "lluvia", Cantidad: entity.EnKg(kg("12.5")), UsuarioID: usuario,
	})
	require.NoError(t, err)
	assert.True(t, m.TotalKg.Equal(kg("12.5")))
	assert.True(t, f.stock(p.ID).Equal(kg("67.5")))

	_, err = f.ledger.RegistrarMerma(f.ctx, inventory.MermaInput{
		ProductID: p.ID, Motivo: entity.MermaRotura, Cantidad: entity.EnKg(kg("70")), UsuarioID: usuario,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(p.ID).Equal(kg("67.5")))

	_, err = f.ledger.RegistrarMerma(f.ctx, inventory.MermaInput{
		ProductID: p.ID, Motivo: "ROBO", Cantidad: entity.EnKg(kg("1")), UsuarioID: usuario,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_RejectsDeletedProduct(t *testing.T) {
	f := newFixture(t)
	p := f.product("Melaza", "50")
	require.NoError(t, f.repos.Products.SetDeleted(f.ctx, p.ID, true))

	_, err := f.salida(entity.MovimientoVenta, linea(p.ID, "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{ProductID: p.ID, Cantidad: entity.EnKg(kg("1")), UsuarioID: usuario})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_InvalidatesKardexCacheAfterCommit(t *testing.T) {
	f := newFixture(t)
	a := f.product("A", "10")
	b := f.product("B", "10")
	f.cache.invalidated = nil

	_, err := f.salida(entity.MovimientoVenta, linea(a.ID, "1"), linea(b.ID, "1"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, f.cache.invalidated)

	f.cache.invalidated = nil
	_, err = f.salida(entity.MovimientoVenta, linea(a.ID, "100"))
	require.Error(t, err)
	assert.Empty(t, f.cache.invalidated, "un rechazo no invalida")
}

func TestLedger_ListMermasByMonth(t *testing.T) {
	f := newFixture(t)
	p := f.product("Pasta", "100")
	for i := 0; i < 3; i++ {
		_, err := f.ledger.RegistrarMerma(f.ctx, inventory.MermaInput{
			ProductID: p.ID, Motivo: entity.MermaOtro, Cantidad: entity.EnKg(kg("1")), UsuarioID: usuario,
		})
		require.NoError(t, err)
	}

	mayo, err := f.ledger.ListMermas(f.ctx, inventory.ListFilter{Anio: 2024, Mes: 5})
	require.NoError(t, err)
	assert.Len(t, mayo, 3)
	assert.True(t, mayo[0].FechaHora.After(mayo[2].FechaHora), "más recientes primero")

	junio, err := f.ledger.ListMermas(f.ctx, inventory.ListFilter{Anio: 2024, Mes: 6})
	require.NoError(t, err)
	assert.Empty(t, junio)

	_, err = f.ledger.ListMermas(f.ctx, inventory.ListFilter{Mes: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.ListMermas(f.ctx, inventory.ListFilter{Anio: 2024, Mes: 13})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_GetSalida(t *testing.T) {
	f := newFixture(t)
	p := f.product("Pasta", "100")
	mov, err := f.salida(entity.MovimientoTraslado, linea(p.ID, "5"))
	require.NoError(t, err)

	got, err := f.ledger.GetSalida(f.ctx, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, mov.Folio, got.Folio)
	require.Len(t, got.Detalles, 1)
	assert.Positive(t, got.Detalles[0].Seq)

	_, err = f.ledger.GetSalida(f.ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_TercerosDebenExistir(t *testing.T) {
	f := newFixture(t)
	corn := f.product("Corn", "100")
	cliente := f.tercero(entity.TerceroCliente, "Rancho El Alamo")
	chofer := f.tercero(entity.TerceroChofer, "Ramiro")

	_, err := f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{
		ProductID: corn.ID, ProveedorID: "no-existe", Cantidad: entity.EnKg(kg("10")), UsuarioID: usuario,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// un cliente no sirve como proveedor
	_, err = f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{
		ProductID: corn.ID, ProveedorID: cliente, Cantidad: entity.EnKg(kg("10")), UsuarioID: usuario,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.ledger.RegistrarSalida(f.ctx, inventory.SalidaInput{
		Tipo: entity.MovimientoVenta, ClienteID: cliente, ChoferID: "no-existe", UsuarioID: usuario,
		Lineas: []inventory.LineaSalida{linea(corn.ID, "10")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.stock(corn.ID).Equal(kg("100")), "el rechazo no modifica stock")

	mov, err := f.ledger.RegistrarSalida(f.ctx, inventory.SalidaInput{
		Tipo: entity.MovimientoVenta, ClienteID: cliente, ChoferID: chofer, UsuarioID: usuario,
		Lineas: []inventory.LineaSalida{linea(corn.ID, "10")},
	})
	require.NoError(t, err)
	assert.Equal(t, "VEN-00001", mov.Folio, "los rechazos no consumen folio")
	assert.Equal(t, cliente, mov.ClienteID)
	assert.True(t, f.stock(corn.ID).Equal(kg("90")))

	err = f.repos.Terceros.Delete(f.ctx, entity.TerceroCliente, cliente)
	assert.ErrorIs(t, err, domain.ErrConflict, "un cliente con salidas no se borra")
}
