package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// El rol se resuelve desde la categoría en cada lectura.
const productSelect = `
		SELECT p.id, p.nombre, p.categoria_id, c.rol, p.descripcion, p.stock_kg, p.peso_por_bulto,
		       p.activo, p.eliminado, p.created_at, p.updated_at
		FROM productos p JOIN categorias c ON c.id = p.categoria_id`

// Create persiste un nuevo producto. StockKg se guarda tal cual (0 al crear desde el catálogo).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO productos (id, nombre, categoria_id, descripcion, stock_kg, peso_por_bulto, activo, eliminado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.CategoryID, p.Description, p.StockKg, p.PesoPorBulto,
		p.Active, p.Deleted, p.CreatedAt, p.UpdatedAt,
	)
	return classify("insert producto", err)
}

// GetByID obtiene un producto por ID (nil si no existe).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.one(ctx, productSelect+` WHERE p.id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT ... FOR UPDATE OF p).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.one(ctx, productSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

// Update actualiza campos administrativos. No toca stock_kg.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE productos SET nombre = $2, categoria_id = $3, descripcion = $4, peso_por_bulto = $5,
		       activo = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Name, p.CategoryID, p.Description, p.PesoPorBulto, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return classify("update producto", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock suma delta al stock. El CHECK de la tabla rechaza saldos negativos.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE productos SET stock_kg = stock_kg + $2, updated_at = now() WHERE id = $1`,
		id, delta,
	)
	if err != nil {
		return classify("adjust stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("adjust stock %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetDeleted marca o desmarca el borrado lógico.
func (r *ProductRepo) SetDeleted(ctx context.Context, id string, deleted bool) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE productos SET eliminado = $2, updated_at = now() WHERE id = $1`,
		id, deleted,
	)
	if err != nil {
		return classify("set deleted producto", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w where
	w.add("p.eliminado = $%d", f.Deleted)
	if f.Role != "" {
		w.add("c.rol = $%d", string(f.Role))
	}
	if f.OnlyActive {
		w.add("p.activo = $%d", true)
	}
	query := productSelect + w.sql() + ` ORDER BY p.nombre, p.id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list productos", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, classify("scan producto", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) one(ctx context.Context, query string, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get producto", err)
	}
	return p, nil
}

func scanProduct(s scanner) (*entity.Product, error) {
	var (
		p   entity.Product
		rol string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.CategoryID, &rol, &p.Description, &p.StockKg, &p.PesoPorBulto,
		&p.Active, &p.Deleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CategoryRole = entity.CategoriaRol(rol)
	return &p, nil
}
