package dietas

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/pkg/logger"
	"github.com/shopspring/decimal"
)

// UseCase composición de dietas y su preparación sobre el motor de inventario.
type UseCase struct {
	ledger *inventory.Ledger
	repos  inventory.Repos
	log    *logger.Logger
}

// NewUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewUseCase(ledger *inventory.Ledger, repos inventory.Repos, log *logger.Logger) *UseCase {
	return &UseCase{
		ledger: ledger,
		repos:  repos,
		log:    log,
	}
}

// Crear registra la dieta junto con su producto generado (categoría de rol DIETA, stock 0).
func (uc *UseCase) Crear(ctx context.Context, nombre string, etapa entity.EtapaCerdo) (*entity.Dieta, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" || !etapa.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Dieta
	err := uc.ledger.Transaction(ctx, "crear_dieta", func(ctx context.Context, r inventory.Repos) error {
		cat, err := r.Categories.GetByRole(ctx, entity.RolDieta)
		if err != nil {
			return err
		}
		if cat == nil {
			return fmt.Errorf("categoría de dietas: %w", domain.ErrNotFound)
		}
		now := uc.ledger.Now()
		product := &entity.Product{
			ID:           uuid.New().String(),
			Name:         nombre,
			CategoryID:   cat.ID,
			CategoryRole: entity.RolDieta,
			StockKg:      decimal.Zero,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		d := &entity.Dieta{
			ID:              uuid.New().String(),
			Nombre:          nombre,
			Etapa:           etapa,
			ProductoDietaID: product.ID,
			TotalKg:         decimal.Zero,
			Activa:          true,
			FechaCreacion:   now,
		}
		if err := r.Dietas.Create(ctx, d); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("dieta", out.ID).Str("nombre", out.Nombre).Msg("dieta creada")
	return out, nil
}

// Obtener devuelve la dieta con sus detalles.
func (uc *UseCase) Obtener(ctx context.Context, id string) (*entity.Dieta, error) {
	d, err := uc.repos.Dietas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// Listar devuelve las dietas vigentes o, con eliminadas=true, las de la papelera.
func (uc *UseCase) Listar(ctx context.Context, eliminadas bool) ([]*entity.Dieta, error) {
	return uc.repos.Dietas.List(ctx, eliminadas)
}

// Preparaciones historial de preparaciones de la dieta.
func (uc *UseCase) Preparaciones(ctx context.Context, dietaID string) ([]*entity.PreparacionDieta, error) {
	if _, err := uc.Obtener(ctx, dietaID); err != nil {
		return nil, err
	}
	return uc.repos.Dietas.ListPreparaciones(ctx, dietaID)
}

// GuardarIngredientes fija la receta: kg > 0 crea o actualiza la línea, kg <= 0 la elimina.
// Los ingredientes no incluidos conservan su línea. Solo se aceptan productos de rol INGREDIENTE
// activos. Recalcula el total y, si la receta cambia, la dieta vuelve a Preparable.
func (uc *UseCase) GuardarIngredientes(ctx context.Context, dietaID string, kgPorProducto map[string]decimal.Decimal) (*entity.Dieta, error) {
	var out *entity.Dieta
	err := uc.ledger.Transaction(ctx, "guardar_ingredientes", func(ctx context.Context, r inventory.Repos) error {
		d, err := editable(ctx, r, dietaID)
		if err != nil {
			return err
		}
		lineas := make(map[string]entity.DetalleDieta, len(d.Detalles))
		for _, det := range d.Detalles {
			lineas[det.ProductID] = det
		}
		cambio := false
		for productID, kg := range kgPorProducto {
			if !kg.Equal(kg.Truncate(2)) {
				return domain.ErrInvalidQuantity
			}
			actual, existe := lineas[productID]
			if !kg.IsPositive() {
				if existe {
					delete(lineas, productID)
					cambio = true
				}
				continue
			}
			p, err := r.Products.GetByID(ctx, productID)
			if err != nil {
				return err
			}
			if p == nil || p.Deleted {
				return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
			}
			if !p.EsIngrediente() || !p.Active {
				return &domain.ProductError{ProductID: p.ID, ProductName: p.Name, Err: domain.ErrCategoryMismatch}
			}
			if existe && actual.Kg.Equal(kg) {
				continue
			}
			det := entity.DetalleDieta{ID: actual.ID, DietaID: d.ID, ProductID: productID, Kg: kg}
			if det.ID == "" {
				det.ID = uuid.New().String()
			}
			lineas[productID] = det
			cambio = true
		}
		d.Detalles = sortedDetalles(lineas)
		d.RecalcularTotal()
		if cambio {
			d.Preparada = false
		}
		if err := r.Dietas.ReplaceDetalles(ctx, d.ID, d.Detalles); err != nil {
			return err
		}
		if err := r.Dietas.Update(ctx, d); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Eliminar envía la dieta a la papelera (borrado lógico).
func (uc *UseCase) Eliminar(ctx context.Context, dietaID string) error {
	return uc.setEliminada(ctx, dietaID, true)
}

// Restaurar saca la dieta de la papelera.
func (uc *UseCase) Restaurar(ctx context.Context, dietaID string) error {
	return uc.setEliminada(ctx, dietaID, false)
}

func (uc *UseCase) setEliminada(ctx context.Context, dietaID string, eliminada bool) error {
	return uc.ledger.Transaction(ctx, "papelera_dieta", func(ctx context.Context, r inventory.Repos) error {
		d, err := r.Dietas.GetForUpdate(ctx, dietaID)
		if err != nil {
			return err
		}
		if d == nil || d.Eliminada == eliminada {
			return domain.ErrNotFound
		}
		d.Eliminada = eliminada
		d.Activa = !eliminada
		return r.Dietas.Update(ctx, d)
	})
}

func editable(ctx context.Context, r inventory.Repos, dietaID string) (*entity.Dieta, error) {
	d, err := r.Dietas.GetForUpdate(ctx, dietaID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.Eliminada {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func sortedDetalles(m map[string]entity.DetalleDieta) []entity.DetalleDieta {
	out := make([]entity.DetalleDieta, 0, len(m))
	for _, det := range m {
		out = append(out, det)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
