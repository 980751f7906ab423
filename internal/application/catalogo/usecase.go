package catalogo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-fh/internal/application/dto"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UseCase casos de uso CRUD para productos y categorías. El stock se maneja solo vía movimientos.
type UseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(products repository.ProductRepository, categories repository.CategoryRepository) *UseCase {
	return &UseCase{
		products:   products,
		categories: categories,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateCategory crea una categoría. Sin rol explícito queda como GENERAL.
func (uc *UseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	role := entity.CategoriaRol(in.Role)
	if role == "" {
		role = entity.RolGeneral
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, Role: role, CreatedAt: uc.now()}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// ListCategories lista todas las categorías.
func (uc *UseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Create crea un nuevo producto. StockKg inicia en 0.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	cat, err := uc.category(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	peso, err := pesoPorBulto(in.PesoPorBulto)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		CategoryID:   cat.ID,
		CategoryRole: cat.Role,
		Description:  in.Description,
		StockKg:      decimal.Zero,
		PesoPorBulto: peso,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID (incluye eliminados).
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza campos administrativos. No permite modificar el stock.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.Deleted {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		cat, err := uc.category(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = cat.ID
		product.CategoryRole = cat.Role
	}
	if in.ClearPesoPorBulto {
		product.PesoPorBulto = decimal.NullDecimal{}
	} else if in.PesoPorBulto != nil {
		peso, err := pesoPorBulto(in.PesoPorBulto)
		if err != nil {
			return nil, err
		}
		product.PesoPorBulto = peso
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = uc.now()
	if err := uc.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación. role vacío = todos.
func (uc *UseCase) List(ctx context.Context, role string, deleted bool, limit, offset int) (*dto.ProductListResponse, error) {
	r := entity.CategoriaRol(role)
	if r != "" && !r.Valid() {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.products.List(ctx, repository.ProductFilter{Role: r, Deleted: deleted, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete envía el producto a la papelera. Su historial se conserva y el kardex sigue disponible.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.setDeleted(ctx, id, true)
}

// Restore saca el producto de la papelera.
func (uc *UseCase) Restore(ctx context.Context, id string) error {
	return uc.setDeleted(ctx, id, false)
}

func (uc *UseCase) setDeleted(ctx context.Context, id string, deleted bool) error {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil || product.Deleted == deleted {
		return domain.ErrNotFound
	}
	return uc.products.SetDeleted(ctx, id, deleted)
}

func (uc *UseCase) category(ctx context.Context, id string) (*entity.Category, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	cat, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	return cat, nil
}

func pesoPorBulto(d *decimal.Decimal) (decimal.NullDecimal, error) {
	if d == nil {
		return decimal.NullDecimal{}, nil
	}
	if !d.IsPositive() || !d.Equal(d.Truncate(2)) {
		return decimal.NullDecimal{}, domain.ErrInvalidInput
	}
	return decimal.NewNullDecimal(*d), nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Role: string(c.Role), CreatedAt: c.CreatedAt}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		CategoryRole: string(p.CategoryRole),
		Description:  p.Description,
		StockKg:      p.StockKg,
		Active:       p.Active,
		Deleted:      p.Deleted,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.PesoPorBulto.Valid {
		peso := p.PesoPorBulto.Decimal
		out.PesoPorBulto = &peso
	}
	return out
}
