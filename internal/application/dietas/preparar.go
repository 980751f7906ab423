package dietas

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PrepararInput datos de una preparación. Lotes = veces que se ejecuta la receta (0 = 1).
type PrepararInput struct {
	DietaID   string
	UsuarioID string
	Notas     string
	Lotes     int
}

// Preparar ejecuta la receta en una sola transacción: descuenta cada ingrediente mediante una
// salida tipo DIETA, acredita el producto de la dieta con una entrada y agrega la bitácora.
// Si cualquier ingrediente falla la validación no se persiste nada.
func (uc *UseCase) Preparar(ctx context.Context, in PrepararInput) (*entity.PreparacionDieta, error) {
	if in.DietaID == "" || in.UsuarioID == "" || in.Lotes < 0 {
		return nil, domain.ErrInvalidInput
	}
	lotes := in.Lotes
	if lotes == 0 {
		lotes = 1
	}
	factor := decimal.NewFromInt(int64(lotes))

	var (
		out     *entity.PreparacionDieta
		touched []string
	)
	err := uc.ledger.Transaction(ctx, "preparar_dieta", func(ctx context.Context, r inventory.Repos) error {
		d, err := editable(ctx, r, in.DietaID)
		if err != nil {
			return err
		}
		if !d.Activa {
			return fmt.Errorf("dieta inactiva: %w", domain.ErrConflict)
		}
		// 1. Receta no vacía
		if len(d.Detalles) == 0 {
			return domain.ErrEmptyRecipe
		}

		// 2. Cantidad positiva y rol de ingrediente; el stock lo valida la salida antes de mutar
		detalles := append([]entity.DetalleDieta(nil), d.Detalles...)
		sort.Slice(detalles, func(i, j int) bool { return detalles[i].ProductID < detalles[j].ProductID })
		lineas := make([]inventory.LineaSalida, 0, len(detalles))
		for _, det := range detalles {
			p, err := r.Products.GetForUpdate(ctx, det.ProductID)
			if err != nil {
				return err
			}
			if p == nil || p.Deleted {
				return fmt.Errorf("ingrediente %s: %w", det.ProductID, domain.ErrNotFound)
			}
			kg := det.Kg.Mul(factor)
			if !kg.IsPositive() {
				return &domain.ProductError{ProductID: p.ID, ProductName: p.Name, Err: domain.ErrInvalidQuantity}
			}
			if !p.EsIngrediente() {
				return &domain.ProductError{ProductID: p.ID, ProductName: p.Name, Err: domain.ErrCategoryMismatch}
			}
			lineas = append(lineas, inventory.LineaSalida{ProductID: det.ProductID, Cantidad: entity.EnKg(kg)})
		}

		// 3. Consumo, total recalculado, acreditación y bitácora
		now := uc.ledger.Now()
		mov, err := uc.ledger.PostOutflowInTx(ctx, r, inventory.SalidaInput{
			Tipo:      entity.MovimientoDieta,
			Notas:     fmt.Sprintf("Preparación de dieta %s", d.Nombre),
			UsuarioID: in.UsuarioID,
			Lineas:    lineas,
		}, now)
		if err != nil {
			return err
		}
		d.RecalcularTotal()
		producido := d.TotalKg.Mul(factor)

		prep := &entity.PreparacionDieta{
			ID:           uuid.New().String(),
			DietaID:      d.ID,
			CantidadKg:   producido,
			Lotes:        lotes,
			UsuarioID:    in.UsuarioID,
			FechaHora:    now,
			Notas:        in.Notas,
			MovimientoID: mov.ID,
		}
		entrada, err := uc.ledger.PostInflowInTx(ctx, r, inventory.EntradaInput{
			ProductID:     d.ProductoDietaID,
			Origen:        entity.OrigenDieta,
			Cantidad:      entity.EnKg(producido),
			UsuarioID:     in.UsuarioID,
			PreparacionID: prep.ID,
		}, now)
		if err != nil {
			return err
		}
		prep.EntradaID = entrada.ID
		if err := r.Dietas.CreatePreparacion(ctx, prep); err != nil {
			return err
		}

		d.Preparada = true
		d.FechaPreparacion = &now
		if err := r.Dietas.Update(ctx, d); err != nil {
			return err
		}

		out = prep
		touched = append(touched[:0], d.ProductoDietaID)
		for _, ln := range lineas {
			touched = append(touched, ln.ProductID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.InvalidateKardex(ctx, touched...)
	uc.log.Info().Str("dieta", in.DietaID).Int("lotes", lotes).
		Str("kg", out.CantidadKg.StringFixed(2)).Msg("dieta preparada")
	return out, nil
}
