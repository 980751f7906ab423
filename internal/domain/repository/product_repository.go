package repository

import (
	"context"

	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros para listar productos.
type ProductFilter struct {
	Role       entity.CategoriaRol // vacío = todos
	OnlyActive bool
	Deleted    bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Es también el almacén de stock: AdjustStock es la única vía sancionada para mutar StockKg.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica solo campos administrativos (nombre, categoría, peso por bulto, descripción, activo).
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock aplica delta a StockKg y lo persiste. No valida no-negatividad.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) error
	SetDeleted(ctx context.Context, id string, deleted bool) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
}
