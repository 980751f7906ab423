package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, nombre, rol, created_at`

// Create persiste una categoría; nombre duplicado devuelve ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categorias (id, nombre, rol, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, string(c.Role), c.CreatedAt,
	)
	return classify("insert categoria", err)
}

// GetByID obtiene una categoría (nil si no existe).
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.one(ctx, `SELECT `+categoryColumns+` FROM categorias WHERE id = $1`, id)
}

// GetByRole devuelve la categoría más antigua con el rol indicado.
func (r *CategoryRepo) GetByRole(ctx context.Context, role entity.CategoriaRol) (*entity.Category, error) {
	return r.one(ctx, `SELECT `+categoryColumns+` FROM categorias WHERE rol = $1 ORDER BY created_at, nombre LIMIT 1`, string(role))
}

// List lista las categorías por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categorias ORDER BY nombre`)
	if err != nil {
		return nil, classify("list categorias", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, classify("scan categoria", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) one(ctx context.Context, query string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get categoria", err)
	}
	return c, nil
}

func scanCategory(s scanner) (*entity.Category, error) {
	var (
		c   entity.Category
		rol string
	)
	if err := s.Scan(&c.ID, &c.Name, &rol, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Role = entity.CategoriaRol(rol)
	return &c, nil
}
