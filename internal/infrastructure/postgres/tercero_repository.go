package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
)

var _ repository.TerceroRepository = (*TerceroRepo)(nil)

// Una tabla por catálogo; todas comparten columnas (ver 002_terceros.sql).
var terceroTables = map[entity.TipoTercero]string{
	entity.TerceroProveedor: "proveedores",
	entity.TerceroCliente:   "clientes",
	entity.TerceroLugar:     "lugares",
	entity.TerceroChofer:    "choferes",
	entity.TerceroUnidad:    "unidades_transporte",
}

const terceroColumns = `id, nombre, telefono, direccion, placa, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TerceroRepo catálogos de terceros sobre PostgreSQL (usable con pool o tx).
type TerceroRepo struct {
	q Querier
}

// NewTerceroRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTerceroRepository(q Querier) *TerceroRepo {
	return &TerceroRepo{q: q}
}

func terceroTable(tipo entity.TipoTercero) (string, error) {
	table, ok := terceroTables[tipo]
	if !ok {
		return "", fmt.Errorf("tipo de tercero %q: %w", tipo, domain.ErrInvalidInput)
	}
	return table, nil
}

// Create persiste un nuevo tercero en la tabla de su tipo.
func (r *TerceroRepo) Create(ctx context.Context, t *entity.Tercero) error {
	table, err := terceroTable(t.Tipo)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `INSERT INTO `+table+` (`+terceroColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Nombre, t.Telefono, t.Direccion, t.Placa, t.CreatedAt, t.UpdatedAt,
	)
	return classify("insert "+table, err)
}

// GetByID obtiene un tercero (nil si no existe). Dentro de una tx la lectura ve el mismo
// snapshot que el resto del movimiento.
func (r *TerceroRepo) GetByID(ctx context.Context, tipo entity.TipoTercero, id string) (*entity.Tercero, error) {
	table, err := terceroTable(tipo)
	if err != nil {
		return nil, err
	}
	t, err := scanTercero(r.q.QueryRow(ctx, `SELECT `+terceroColumns+` FROM `+table+` WHERE id = $1`, id), tipo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get "+table, err)
	}
	return t, nil
}

// List lista un catálogo ordenado por nombre.
func (r *TerceroRepo) List(ctx context.Context, f repository.TerceroFilter) ([]*entity.Tercero, error) {
	table, err := terceroTable(f.Tipo)
	if err != nil {
		return nil, err
	}
	w := &where{}
	if f.Buscar != "" {
		w.add("(nombre ILIKE $%d OR placa ILIKE $%[1]d)", "%"+likeEscaper.Replace(f.Buscar)+"%")
	}
	query := `SELECT ` + terceroColumns + ` FROM ` + table + w.sql() + ` ORDER BY nombre, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list "+table, err)
	}
	defer rows.Close()
	var list []*entity.Tercero
	for rows.Next() {
		t, err := scanTercero(rows, f.Tipo)
		if err != nil {
			return nil, classify("scan "+table, err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update actualiza los datos del tercero.
func (r *TerceroRepo) Update(ctx context.Context, t *entity.Tercero) error {
	table, err := terceroTable(t.Tipo)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE `+table+` SET nombre = $2, telefono = $3, direccion = $4, placa = $5, updated_at = $6
		WHERE id = $1`,
		t.ID, t.Nombre, t.Telefono, t.Direccion, t.Placa, t.UpdatedAt,
	)
	if err != nil {
		return classify("update "+table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el tercero. La llave foránea RESTRICT lo impide si hay movimientos
// que lo referencian (23503, ErrConflict).
func (r *TerceroRepo) Delete(ctx context.Context, tipo entity.TipoTercero, id string) error {
	table, err := terceroTable(tipo)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return classify("delete "+table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTercero(s scanner, tipo entity.TipoTercero) (*entity.Tercero, error) {
	t := entity.Tercero{Tipo: tipo}
	if err := s.Scan(&t.ID, &t.Nombre, &t.Telefono, &t.Direccion, &t.Placa, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
