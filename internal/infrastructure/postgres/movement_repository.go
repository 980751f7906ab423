package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
)

var (
	_ repository.EntradaRepository    = (*EntradaRepo)(nil)
	_ repository.MovimientoRepository = (*MovimientoRepo)(nil)
	_ repository.MermaRepository      = (*MermaRepo)(nil)
	_ repository.FolioRepository      = (*FolioRepo)(nil)
	_ repository.KardexRepository     = (*KardexRepo)(nil)
)

// movementWhere aplica producto y rango de fechas [Desde, Hasta).
func movementWhere(f repository.MovementFilter, productCol, dateCol string) *where {
	w := &where{}
	if f.ProductID != "" {
		w.add(productCol+" = $%d", f.ProductID)
	}
	if f.Desde != nil {
		w.add(dateCol+" >= $%d", *f.Desde)
	}
	if f.Hasta != nil {
		w.add(dateCol+" < $%d", *f.Hasta)
	}
	return w
}

// EntradaRepo entradas sobre PostgreSQL (usable con pool o tx).
type EntradaRepo struct {
	q Querier
}

// NewEntradaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEntradaRepository(q Querier) *EntradaRepo {
	return &EntradaRepo{q: q}
}

// Create persiste la entrada y devuelve en e.Seq su posición en el libro.
func (r *EntradaRepo) Create(ctx context.Context, e *entity.Entrada) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO entradas (id, producto_id, proveedor_id, origen, kg, toneladas, bultos, total_kg, preparacion_id, fecha_hora, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`,
		e.ID, e.ProductID, nullable(e.ProveedorID), string(e.Origen),
		e.Cantidad.Kg, e.Cantidad.Toneladas, e.Cantidad.Bultos, e.TotalKg,
		nullable(e.PreparacionID), e.FechaHora, e.UsuarioID,
	).Scan(&e.Seq)
	return classify("insert entrada", err)
}

// List lista entradas, más recientes primero.
func (r *EntradaRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Entrada, error) {
	w := movementWhere(f, "producto_id", "fecha_hora")
	query := `
		SELECT id, seq, producto_id, proveedor_id, origen, kg, toneladas, bultos, total_kg, preparacion_id, fecha_hora, usuario_id
		FROM entradas` + w.sql() + ` ORDER BY fecha_hora DESC, seq DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list entradas", err)
	}
	defer rows.Close()
	var list []*entity.Entrada
	for rows.Next() {
		var (
			e                  entity.Entrada
			origen             string
			proveedor, prepara *string
		)
		if err := rows.Scan(&e.ID, &e.Seq, &e.ProductID, &proveedor, &origen,
			&e.Cantidad.Kg, &e.Cantidad.Toneladas, &e.Cantidad.Bultos, &e.TotalKg,
			&prepara, &e.FechaHora, &e.UsuarioID); err != nil {
			return nil, classify("scan entrada", err)
		}
		e.Origen = entity.OrigenEntrada(origen)
		e.ProveedorID = deref(proveedor)
		e.PreparacionID = deref(prepara)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// MovimientoRepo salidas (encabezado y detalles) sobre PostgreSQL.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Create persiste encabezado y detalles. Debe ir en la transacción del movimiento.
// Un folio repetido devuelve ErrDuplicateFolio.
func (r *MovimientoRepo) Create(ctx context.Context, m *entity.Movimiento) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO movimientos (id, folio, tipo, cliente_id, lugar_id, chofer_id, unidad_id, notas, fecha_hora, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Folio, string(m.Tipo), nullable(m.ClienteID), nullable(m.LugarID),
		nullable(m.ChoferID), nullable(m.UnidadID), m.Notas, m.FechaHora, m.UsuarioID,
	)
	if err != nil {
		return classify("insert movimiento", err)
	}
	for i := range m.Detalles {
		d := &m.Detalles[i]
		d.MovimientoID = m.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO movimiento_detalles (id, movimiento_id, producto_id, kg, toneladas, bultos, total_kg)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING seq`,
			d.ID, d.MovimientoID, d.ProductID, d.Cantidad.Kg, d.Cantidad.Toneladas, d.Cantidad.Bultos, d.TotalKg,
		).Scan(&d.Seq)
		if err != nil {
			return classify("insert movimiento detalle", err)
		}
	}
	return nil
}

const movimientoSelect = `
		SELECT m.id, m.folio, m.tipo, m.cliente_id, m.lugar_id, m.chofer_id, m.unidad_id, m.notas, m.fecha_hora, m.usuario_id
		FROM movimientos m`

// GetByID obtiene un movimiento con sus detalles (nil si no existe).
func (r *MovimientoRepo) GetByID(ctx context.Context, id string) (*entity.Movimiento, error) {
	m, err := scanMovimiento(r.q.QueryRow(ctx, movimientoSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get movimiento", err)
	}
	if err := r.loadDetalles(ctx, []*entity.Movimiento{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// List lista movimientos con sus detalles, más recientes primero. Con ProductID
// devuelve los movimientos que tienen al menos una línea de ese producto.
func (r *MovimientoRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movimiento, error) {
	byProduct := f
	byProduct.ProductID = ""
	w := movementWhere(byProduct, "", "m.fecha_hora")
	if f.ProductID != "" {
		w.add("EXISTS (SELECT 1 FROM movimiento_detalles d WHERE d.movimiento_id = m.id AND d.producto_id = $%d)", f.ProductID)
	}
	query := movimientoSelect + w.sql() + ` ORDER BY m.fecha_hora DESC, m.folio DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list movimientos", err)
	}
	var list []*entity.Movimiento
	for rows.Next() {
		m, err := scanMovimiento(rows)
		if err != nil {
			rows.Close()
			return nil, classify("scan movimiento", err)
		}
		list = append(list, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, classify("list movimientos", err)
	}
	if err := r.loadDetalles(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *MovimientoRepo) loadDetalles(ctx context.Context, movs []*entity.Movimiento) error {
	if len(movs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Movimiento, len(movs))
	ids := make([]string, 0, len(movs))
	for _, m := range movs {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, seq, movimiento_id, producto_id, kg, toneladas, bultos, total_kg
		FROM movimiento_detalles WHERE movimiento_id = ANY($1::text[]::uuid[]) ORDER BY seq`, ids)
	if err != nil {
		return classify("list movimiento detalles", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.MovimientoDetalle
		if err := rows.Scan(&d.ID, &d.Seq, &d.MovimientoID, &d.ProductID,
			&d.Cantidad.Kg, &d.Cantidad.Toneladas, &d.Cantidad.Bultos, &d.TotalKg); err != nil {
			return classify("scan movimiento detalle", err)
		}
		if m := byID[d.MovimientoID]; m != nil {
			m.Detalles = append(m.Detalles, d)
		}
	}
	return rows.Err()
}

func scanMovimiento(s scanner) (*entity.Movimiento, error) {
	var (
		m                              entity.Movimiento
		tipo                           string
		cliente, lugar, chofer, unidad *string
	)
	if err := s.Scan(&m.ID, &m.Folio, &tipo, &cliente, &lugar, &chofer, &unidad,
		&m.Notas, &m.FechaHora, &m.UsuarioID); err != nil {
		return nil, err
	}
	m.Tipo = entity.TipoMovimiento(tipo)
	m.ClienteID = deref(cliente)
	m.LugarID = deref(lugar)
	m.ChoferID = deref(chofer)
	m.UnidadID = deref(unidad)
	return &m, nil
}

// MermaRepo mermas sobre PostgreSQL.
type MermaRepo struct {
	q Querier
}

// NewMermaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMermaRepository(q Querier) *MermaRepo {
	return &MermaRepo{q: q}
}

// Create persiste la merma y devuelve su seq.
func (r *MermaRepo) Create(ctx context.Context, m *entity.Merma) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO mermas (id, producto_id, motivo, descripcion, kg, toneladas, bultos, total_kg, fecha_hora, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`,
		m.ID, m.ProductID, string(m.Motivo), m.Descripcion,
		m.Cantidad.Kg, m.Cantidad.Toneladas, m.Cantidad.Bultos, m.TotalKg, m.FechaHora, m.UsuarioID,
	).Scan(&m.Seq)
	return classify("insert merma", err)
}

// List lista mermas, más recientes primero.
func (r *MermaRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Merma, error) {
	w := movementWhere(f, "producto_id", "fecha_hora")
	query := `
		SELECT id, seq, producto_id, motivo, descripcion, kg, toneladas, bultos, total_kg, fecha_hora, usuario_id
		FROM mermas` + w.sql() + ` ORDER BY fecha_hora DESC, seq DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list mermas", err)
	}
	defer rows.Close()
	var list []*entity.Merma
	for rows.Next() {
		var (
			m      entity.Merma
			motivo string
		)
		if err := rows.Scan(&m.ID, &m.Seq, &m.ProductID, &motivo, &m.Descripcion,
			&m.Cantidad.Kg, &m.Cantidad.Toneladas, &m.Cantidad.Bultos, &m.TotalKg,
			&m.FechaHora, &m.UsuarioID); err != nil {
			return nil, classify("scan merma", err)
		}
		m.Motivo = entity.MotivoMerma(motivo)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// FolioRepo contador por prefijo en la tabla folios.
type FolioRepo struct {
	q Querier
}

// NewFolioRepository construye el adaptador. Pasar la tx del movimiento.
func NewFolioRepository(q Querier) *FolioRepo {
	return &FolioRepo{q: q}
}

// Next incrementa y devuelve el contador del prefijo. La fila queda bloqueada hasta el fin
// de la transacción, así que un rollback no deja huecos.
func (r *FolioRepo) Next(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO folios (prefijo, ultimo) VALUES ($1, 1)
		ON CONFLICT (prefijo) DO UPDATE SET ultimo = folios.ultimo + 1
		RETURNING ultimo`, prefix).Scan(&n)
	if err != nil {
		return 0, classify(fmt.Sprintf("next folio %s", prefix), err)
	}
	return n, nil
}

// KardexRepo lee los eventos del libro de un producto.
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador.
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

// ListByProduct une entradas (+), detalles de salida (-) y mermas (-) ordenados por fecha y seq.
func (r *KardexRepo) ListByProduct(ctx context.Context, productID string) ([]entity.KardexMovimiento, error) {
	rows, err := r.q.Query(ctx, `
		SELECT e.seq, e.fecha_hora, 'ENTRADA', e.origen, e.id::text, e.total_kg, e.usuario_id
		FROM entradas e WHERE e.producto_id = $1
		UNION ALL
		SELECT d.seq, m.fecha_hora, 'SALIDA', m.tipo, m.folio, -d.total_kg, m.usuario_id
		FROM movimiento_detalles d JOIN movimientos m ON m.id = d.movimiento_id
		WHERE d.producto_id = $1
		UNION ALL
		SELECT x.seq, x.fecha_hora, 'MERMA', x.motivo, x.id::text, -x.total_kg, x.usuario_id
		FROM mermas x WHERE x.producto_id = $1
		ORDER BY 2, 1`, productID)
	if err != nil {
		return nil, classify("kardex", err)
	}
	defer rows.Close()
	var movs []entity.KardexMovimiento
	for rows.Next() {
		var k entity.KardexMovimiento
		if err := rows.Scan(&k.Seq, &k.FechaHora, &k.Tipo, &k.Detalle, &k.Referencia, &k.Kg, &k.UsuarioID); err != nil {
			return nil, classify("scan kardex", err)
		}
		movs = append(movs, k)
	}
	return movs, rows.Err()
}
