package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
)

var _ repository.DietaRepository = (*DietaRepo)(nil)

// DietaRepo dietas, recetas y bitácora de preparaciones sobre PostgreSQL.
type DietaRepo struct {
	q Querier
}

// NewDietaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDietaRepository(q Querier) *DietaRepo {
	return &DietaRepo{q: q}
}

const dietaSelect = `
		SELECT id, nombre, etapa, producto_dieta_id, total_kg, activa, eliminada, preparada, fecha_preparacion, fecha_creacion
		FROM dietas`

// Create persiste la dieta (sin detalles).
func (r *DietaRepo) Create(ctx context.Context, d *entity.Dieta) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO dietas (id, nombre, etapa, producto_dieta_id, total_kg, activa, eliminada, preparada, fecha_preparacion, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.Nombre, string(d.Etapa), d.ProductoDietaID, d.TotalKg,
		d.Activa, d.Eliminada, d.Preparada, d.FechaPreparacion, d.FechaCreacion,
	)
	return classify("insert dieta", err)
}

// GetByID obtiene la dieta con sus detalles (nil si no existe).
func (r *DietaRepo) GetByID(ctx context.Context, id string) (*entity.Dieta, error) {
	return r.one(ctx, dietaSelect+` WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila de la dieta.
func (r *DietaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Dieta, error) {
	return r.one(ctx, dietaSelect+` WHERE id = $1 FOR UPDATE`, id)
}

// Update guarda el estado de la dieta. Los detalles van por ReplaceDetalles.
func (r *DietaRepo) Update(ctx context.Context, d *entity.Dieta) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE dietas SET nombre = $2, etapa = $3, total_kg = $4, activa = $5, eliminada = $6,
		       preparada = $7, fecha_preparacion = $8
		WHERE id = $1`,
		d.ID, d.Nombre, string(d.Etapa), d.TotalKg, d.Activa, d.Eliminada, d.Preparada, d.FechaPreparacion,
	)
	if err != nil {
		return classify("update dieta", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceDetalles sustituye la receta completa.
func (r *DietaRepo) ReplaceDetalles(ctx context.Context, dietaID string, detalles []entity.DetalleDieta) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM detalles_dieta WHERE dieta_id = $1`, dietaID); err != nil {
		return classify("delete detalles dieta", err)
	}
	for _, det := range detalles {
		_, err := r.q.Exec(ctx,
			`INSERT INTO detalles_dieta (id, dieta_id, producto_id, kg) VALUES ($1, $2, $3, $4)`,
			det.ID, dietaID, det.ProductID, det.Kg,
		)
		if err != nil {
			return classify("insert detalle dieta", err)
		}
	}
	return nil
}

// List lista dietas vigentes o eliminadas, por nombre.
func (r *DietaRepo) List(ctx context.Context, eliminadas bool) ([]*entity.Dieta, error) {
	rows, err := r.q.Query(ctx, dietaSelect+` WHERE eliminada = $1 ORDER BY nombre, id`, eliminadas)
	if err != nil {
		return nil, classify("list dietas", err)
	}
	var list []*entity.Dieta
	for rows.Next() {
		d, err := scanDieta(rows)
		if err != nil {
			rows.Close()
			return nil, classify("scan dieta", err)
		}
		list = append(list, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, classify("list dietas", err)
	}
	if err := r.loadDetalles(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreatePreparacion agrega una preparación a la bitácora.
func (r *DietaRepo) CreatePreparacion(ctx context.Context, p *entity.PreparacionDieta) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO preparaciones_dieta (id, dieta_id, cantidad_kg, lotes, usuario_id, fecha_hora, notas, movimiento_id, entrada_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.DietaID, p.CantidadKg, p.Lotes, p.UsuarioID, p.FechaHora, p.Notas, p.MovimientoID, p.EntradaID,
	)
	return classify("insert preparacion dieta", err)
}

// ListPreparaciones historial de la dieta, más reciente primero.
func (r *DietaRepo) ListPreparaciones(ctx context.Context, dietaID string) ([]*entity.PreparacionDieta, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, dieta_id, cantidad_kg, lotes, usuario_id, fecha_hora, notas, movimiento_id, entrada_id
		FROM preparaciones_dieta WHERE dieta_id = $1 ORDER BY fecha_hora DESC, id`, dietaID)
	if err != nil {
		return nil, classify("list preparaciones", err)
	}
	defer rows.Close()
	var list []*entity.PreparacionDieta
	for rows.Next() {
		var p entity.PreparacionDieta
		if err := rows.Scan(&p.ID, &p.DietaID, &p.CantidadKg, &p.Lotes, &p.UsuarioID,
			&p.FechaHora, &p.Notas, &p.MovimientoID, &p.EntradaID); err != nil {
			return nil, classify("scan preparacion", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *DietaRepo) one(ctx context.Context, query, id string) (*entity.Dieta, error) {
	d, err := scanDieta(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get dieta", err)
	}
	if err := r.loadDetalles(ctx, []*entity.Dieta{d}); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DietaRepo) loadDetalles(ctx context.Context, dietas []*entity.Dieta) error {
	if len(dietas) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Dieta, len(dietas))
	ids := make([]string, 0, len(dietas))
	for _, d := range dietas {
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, dieta_id, producto_id, kg FROM detalles_dieta
		WHERE dieta_id = ANY($1::text[]::uuid[]) ORDER BY producto_id`, ids)
	if err != nil {
		return classify("list detalles dieta", err)
	}
	defer rows.Close()
	for rows.Next() {
		var det entity.DetalleDieta
		if err := rows.Scan(&det.ID, &det.DietaID, &det.ProductID, &det.Kg); err != nil {
			return classify("scan detalle dieta", err)
		}
		if d := byID[det.DietaID]; d != nil {
			d.Detalles = append(d.Detalles, det)
		}
	}
	return rows.Err()
}

func scanDieta(s scanner) (*entity.Dieta, error) {
	var (
		d     entity.Dieta
		etapa string
	)
	if err := s.Scan(&d.ID, &d.Nombre, &etapa, &d.ProductoDietaID, &d.TotalKg,
		&d.Activa, &d.Eliminada, &d.Preparada, &d.FechaPreparacion, &d.FechaCreacion); err != nil {
		return nil, err
	}
	d.Etapa = entity.EtapaCerdo(etapa)
	return &d, nil
}
