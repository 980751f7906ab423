package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/inventory"
	"github.com/jhoicas/almacen-fh/pkg/logger"
	"github.com/shopspring/decimal"
)

// DefaultMaxRetries reintentos ante ErrDuplicateFolio o ErrStockConflict.
const DefaultMaxRetries = 3

// LedgerConfig opciones del motor.
type LedgerConfig struct {
	MaxRetries int
	// Clock fecha de los movimientos; nil = time.Now en UTC.
	Clock func() time.Time
}

// Ledger es el motor de inventario: valida y aplica entradas, salidas y mermas
// como unidades atómicas (validar → mutar stock → persistir, en una sola transacción).
type Ledger struct {
	txRunner   TxRunner
	repos      Repos // lecturas fuera de transacción
	cache      KardexInvalidator
	log        *logger.Logger
	maxRetries int
	now        func() time.Time
}

// NewLedger construye el motor. cache puede ser nil.
func NewLedger(txRunner TxRunner, repos Repos, cache KardexInvalidator, log *logger.Logger, cfg LedgerConfig) *Ledger {
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	now := cfg.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Ledger{
		txRunner:   txRunner,
		repos:      repos,
		cache:      cache,
		log:        log,
		maxRetries: retries,
		now:        now,
	}
}

// Now fecha que el motor asigna a los movimientos.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// EntradaInput datos para registrar una entrada.
type EntradaInput struct {
	ProductID     string
	ProveedorID   string
	Origen        entity.OrigenEntrada // vacío = COMPRA
	Cantidad      entity.Cantidad
	UsuarioID     string
	PreparacionID string
}

// LineaSalida producto y cantidad de una línea de salida.
type LineaSalida struct {
	ProductID string
	Cantidad  entity.Cantidad
}

// SalidaInput encabezado y líneas de una salida.
type SalidaInput struct {
	Tipo      entity.TipoMovimiento
	ClienteID string
	LugarID   string
	ChoferID  string
	UnidadID  string
	Notas     string
	UsuarioID string
	Lineas    []LineaSalida
}

// MermaInput datos para registrar una merma.
type MermaInput struct {
	ProductID   string
	Motivo      entity.MotivoMerma
	Descripcion string
	Cantidad    entity.Cantidad
	UsuarioID   string
}

// RegistrarEntrada suma stock y persiste una Entrada inmutable.
func (l *Ledger) RegistrarEntrada(ctx context.Context, in EntradaInput) (*entity.Entrada, error) {
	if in.ProductID == "" || in.UsuarioID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Entrada
	err := l.Transaction(ctx, "entrada", func(ctx context.Context, r Repos) error {
		e, err := l.PostInflowInTx(ctx, r, in, l.now())
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.InvalidateKardex(ctx, in.ProductID)
	l.log.Info().Str("producto", in.ProductID).Str("kg", out.TotalKg.StringFixed(2)).Msg("entrada registrada")
	return out, nil
}

// RegistrarSalida valida TODAS las líneas antes de descontar cualquier stock; asigna folio
// dentro de la transacción y persiste encabezado y detalles juntos.
func (l *Ledger) RegistrarSalida(ctx context.Context, in SalidaInput) (*entity.Movimiento, error) {
	if in.UsuarioID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Movimiento
	err := l.Transaction(ctx, "salida", func(ctx context.Context, r Repos) error {
		m, err := l.PostOutflowInTx(ctx, r, in, l.now())
		if err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.InvalidateKardex(ctx, productIDs(in.Lineas)...)
	l.log.Info().Str("folio", out.Folio).Str("tipo", string(out.Tipo)).
		Int("lineas", len(out.Detalles)).Msg("salida registrada")
	return out, nil
}

// RegistrarMerma descuenta stock por pérdida con la misma validación que una salida.
func (l *Ledger) RegistrarMerma(ctx context.Context, in MermaInput) (*entity.Merma, error) {
	if in.ProductID == "" || in.UsuarioID == "" || !in.Motivo.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Merma
	err := l.Transaction(ctx, "merma", func(ctx context.Context, r Repos) error {
		locked, err := lockProducts(ctx, r, []string{in.ProductID})
		if err != nil {
			return err
		}
		p := locked[in.ProductID]
		kg, err := totalLinea(p, in.Cantidad)
		if err != nil {
			return err
		}
		if kg.GreaterThan(p.StockKg) {
			return stockError(p, kg)
		}
		if err := r.Products.AdjustStock(ctx, p.ID, kg.Neg()); err != nil {
			return err
		}
		m := &entity.Merma{
			ID:          uuid.New().String(),
			ProductID:   p.ID,
			Motivo:      in.Motivo,
			Descripcion: in.Descripcion,
			Cantidad:    in.Cantidad,
			TotalKg:     kg,
			FechaHora:   l.now(),
			UsuarioID:   in.UsuarioID,
		}
		if err := r.Mermas.Create(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.InvalidateKardex(ctx, in.ProductID)
	l.log.Info().Str("producto", in.ProductID).Str("motivo", string(in.Motivo)).
		Str("kg", out.TotalKg.StringFixed(2)).Msg("merma registrada")
	return out, nil
}

// PostInflowInTx registra una entrada usando los repositorios de la transacción del caller.
func (l *Ledger) PostInflowInTx(ctx context.Context, r Repos, in EntradaInput, now time.Time) (*entity.Entrada, error) {
	if err := checkTerceros(ctx, r, terceroRef{entity.TerceroProveedor, in.ProveedorID}); err != nil {
		return nil, err
	}
	locked, err := lockProducts(ctx, r, []string{in.ProductID})
	if err != nil {
		return nil, err
	}
	p := locked[in.ProductID]
	kg, err := totalLinea(p, in.Cantidad)
	if err != nil {
		return nil, err
	}
	origen := in.Origen
	if origen == "" {
		origen = entity.OrigenCompra
	}
	if err := r.Products.AdjustStock(ctx, p.ID, kg); err != nil {
		return nil, err
	}
	e := &entity.Entrada{
		ID:            uuid.New().String(),
		ProductID:     p.ID,
		ProveedorID:   in.ProveedorID,
		Origen:        origen,
		Cantidad:      in.Cantidad,
		TotalKg:       kg,
		PreparacionID: in.PreparacionID,
		FechaHora:     now,
		UsuarioID:     in.UsuarioID,
	}
	if err := r.Entradas.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// PostOutflowInTx registra una salida usando los repositorios de la transacción del caller.
// Bloquea los productos en orden de ID, valida todas las líneas (agregando por producto) y
// solo entonces descuenta stock, asigna folio y persiste.
func (l *Ledger) PostOutflowInTx(ctx context.Context, r Repos, in SalidaInput, now time.Time) (*entity.Movimiento, error) {
	if !in.Tipo.Valid() || len(in.Lineas) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, ln := range in.Lineas {
		if ln.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	err := checkTerceros(ctx, r,
		terceroRef{entity.TerceroCliente, in.ClienteID},
		terceroRef{entity.TerceroLugar, in.LugarID},
		terceroRef{entity.TerceroChofer, in.ChoferID},
		terceroRef{entity.TerceroUnidad, in.UnidadID},
	)
	if err != nil {
		return nil, err
	}
	locked, err := lockProducts(ctx, r, productIDs(in.Lineas))
	if err != nil {
		return nil, err
	}

	// 1. Validar todas las líneas
	totals := make([]decimal.Decimal, len(in.Lineas))
	requerido := make(map[string]decimal.Decimal, len(locked))
	for i, ln := range in.Lineas {
		kg, err := totalLinea(locked[ln.ProductID], ln.Cantidad)
		if err != nil {
			return nil, err
		}
		totals[i] = kg
		requerido[ln.ProductID] = requerido[ln.ProductID].Add(kg)
	}
	for _, id := range sortedKeys(requerido) {
		p := locked[id]
		if requerido[id].GreaterThan(p.StockKg) {
			return nil, stockError(p, requerido[id])
		}
	}

	// 2. Mutar y persistir
	n, err := r.Folios.Next(ctx, in.Tipo.PrefijoFolio())
	if err != nil {
		return nil, err
	}
	mov := &entity.Movimiento{
		ID:        uuid.New().String(),
		Folio:     inventory.FormatFolio(in.Tipo, n),
		Tipo:      in.Tipo,
		ClienteID: in.ClienteID,
		LugarID:   in.LugarID,
		ChoferID:  in.ChoferID,
		UnidadID:  in.UnidadID,
		Notas:     in.Notas,
		FechaHora: now,
		UsuarioID: in.UsuarioID,
		Detalles:  make([]entity.MovimientoDetalle, 0, len(in.Lineas)),
	}
	for i, ln := range in.Lineas {
		if err := r.Products.AdjustStock(ctx, ln.ProductID, totals[i].Neg()); err != nil {
			return nil, err
		}
		mov.Detalles = append(mov.Detalles, entity.MovimientoDetalle{
			ID:           uuid.New().String(),
			MovimientoID: mov.ID,
			ProductID:    ln.ProductID,
			Cantidad:     ln.Cantidad,
			TotalKg:      totals[i],
		})
	}
	if err := r.Movimientos.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Transaction ejecuta fn en una transacción y la reintenta completa ante folio duplicado
// o conflicto de concurrencia. Cualquier otro error se devuelve sin reintentar.
func (l *Ledger) Transaction(ctx context.Context, op string, fn func(ctx context.Context, r Repos) error) error {
	for attempt := 0; ; attempt++ {
		err := l.txRunner.Run(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) || attempt >= l.maxRetries {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		l.log.Warn().Err(err).Str("op", op).Int("intento", attempt+1).Msg("reintentando transacción de inventario")
	}
}

// InvalidateKardex descarta el kardex cacheado de los productos; los errores solo se registran.
func (l *Ledger) InvalidateKardex(ctx context.Context, productIDs ...string) {
	if l.cache == nil || len(productIDs) == 0 {
		return
	}
	if err := l.cache.Invalidate(ctx, productIDs...); err != nil {
		l.log.Warn().Err(err).Strs("productos", productIDs).Msg("invalidar kardex en caché")
	}
}

func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrDuplicateFolio) || errors.Is(err, domain.ErrStockConflict)
}

// lockProducts bloquea cada producto una sola vez y en orden ascendente de ID (evita deadlocks).
func lockProducts(ctx context.Context, r Repos, ids []string) (map[string]*entity.Product, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	ordered := make([]string, 0, len(set))
	for id := range set {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	locked := make(map[string]*entity.Product, len(ordered))
	for _, id := range ordered {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil || p.Deleted {
			return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		locked[id] = p
	}
	return locked, nil
}

func totalLinea(p *entity.Product, c entity.Cantidad) (decimal.Decimal, error) {
	kg, err := inventory.TotalKgPositivo(c, p.PesoPorBulto)
	if err != nil {
		return decimal.Zero, &domain.ProductError{ProductID: p.ID, ProductName: p.Name, Err: err}
	}
	return kg, nil
}

func stockError(p *entity.Product, solicitado decimal.Decimal) error {
	return &domain.StockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Disponible:  p.StockKg,
		Solicitado:  solicitado,
	}
}

func productIDs(lineas []LineaSalida) []string {
	ids := make([]string, 0, len(lineas))
	for _, ln := range lineas {
		ids = append(ids, ln.ProductID)
	}
	return ids
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type terceroRef struct {
	tipo entity.TipoTercero
	id   string
}

// checkTerceros exige que cada referencia no vacía exista en su catálogo. Corre dentro de
// la transacción del movimiento; la llave foránea cubre un borrado concurrente.
func checkTerceros(ctx context.Context, r Repos, refs ...terceroRef) error {
	for _, ref := range refs {
		if ref.id == "" {
			continue
		}
		t, err := r.Terceros.GetByID(ctx, ref.tipo, ref.id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%s %s: %w", strings.ToLower(string(ref.tipo)), ref.id, domain.ErrNotFound)
		}
	}
	return nil
}
