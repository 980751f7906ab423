package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.CategoryRepository   = (*CategoryRepo)(nil)
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.EntradaRepository    = (*EntradaRepo)(nil)
	_ repository.MovimientoRepository = (*MovimientoRepo)(nil)
	_ repository.MermaRepository      = (*MermaRepo)(nil)
	_ repository.FolioRepository      = (*FolioRepo)(nil)
	_ repository.DietaRepository      = (*DietaRepo)(nil)
	_ repository.KardexRepository     = (*KardexRepo)(nil)
)

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.data.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.data.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) GetByRole(_ context.Context, role entity.CategoriaRol) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var found *entity.Category
	for _, c := range r.s.data.categories {
		if c.Role != role {
			continue
		}
		if found == nil || c.CreatedAt.Before(found.CreatedAt) ||
			(c.CreatedAt.Equal(found.CreatedAt) && c.Name < found.Name) {
			found = &c
		}
	}
	return found, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Category, 0, len(r.s.data.categories))
	for _, c := range r.s.data.categories {
		list = append(list, &c)
	}
	slices.SortFunc(list, func(a, b *entity.Category) int { return cmp.Compare(a.Name, b.Name) })
	return list, nil
}

// ProductRepo productos en memoria. El rol se resuelve desde la categoría en cada lectura.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.data.categories[p.CategoryID]; !ok {
		return fmt.Errorf("categoría %s: %w", p.CategoryID, domain.ErrConflict)
	}
	if p.StockKg.IsNegative() {
		return domain.ErrInsufficientStock
	}
	r.s.data.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.get(id), nil
}

// GetForUpdate no necesita bloquear: las transacciones ya se ejecutan en exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.data.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.data.categories[p.CategoryID]; !ok {
		return fmt.Errorf("categoría %s: %w", p.CategoryID, domain.ErrConflict)
	}
	cur.Name = p.Name
	cur.CategoryID = p.CategoryID
	cur.Description = p.Description
	cur.PesoPorBulto = p.PesoPorBulto
	cur.Active = p.Active
	cur.UpdatedAt = p.UpdatedAt
	r.s.data.products[p.ID] = cur
	return nil
}

func (r *ProductRepo) AdjustStock(_ context.Context, id string, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("products.adjust"); err != nil {
		return err
	}
	p, ok := r.s.data.products[id]
	if !ok {
		return fmt.Errorf("adjust stock %s: %w", id, domain.ErrNotFound)
	}
	next := p.StockKg.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientStock
	}
	p.StockKg = next
	r.s.data.products[id] = p
	return nil
}

func (r *ProductRepo) SetDeleted(_ context.Context, id string, deleted bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Deleted = deleted
	r.s.data.products[id] = p
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Product
	for id := range r.s.data.products {
		p := r.get(id)
		if p.Deleted != f.Deleted || (f.Role != "" && p.CategoryRole != f.Role) || (f.OnlyActive && !p.Active) {
			continue
		}
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b *entity.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return paginate(list, f.Limit, f.Offset), nil
}

// get requiere s.mu tomado.
func (r *ProductRepo) get(id string) *entity.Product {
	p, ok := r.s.data.products[id]
	if !ok {
		return nil
	}
	p.CategoryRole = r.s.data.categories[p.CategoryID].Role
	return &p
}

// EntradaRepo entradas en memoria.
type EntradaRepo struct{ s *Store }

func (r *EntradaRepo) Create(_ context.Context, e *entity.Entrada) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("entradas.create"); err != nil {
		return err
	}
	if !e.TotalKg.IsPositive() {
		return domain.ErrInvalidInput
	}
	if err := r.s.data.requireTercero(entity.TerceroProveedor, e.ProveedorID); err != nil {
		return err
	}
	e.Seq = r.s.data.nextSeq()
	r.s.data.entradas = append(r.s.data.entradas, *e)
	return nil
}

func (r *EntradaRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Entrada, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Entrada
	for _, e := range r.s.data.entradas {
		if matches(f, e.ProductID, e.FechaHora) {
			list = append(list, &e)
		}
	}
	slices.SortFunc(list, func(a, b *entity.Entrada) int {
		return cmp.Or(b.FechaHora.Compare(a.FechaHora), cmp.Compare(b.Seq, a.Seq))
	})
	return paginate(list, f.Limit, f.Offset), nil
}

// MovimientoRepo salidas en memoria.
type MovimientoRepo struct{ s *Store }

func (r *MovimientoRepo) Create(_ context.Context, m *entity.Movimiento) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("movimientos.create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.movimientos {
		if existing.Folio == m.Folio {
			return domain.ErrDuplicateFolio
		}
	}
	refs := map[entity.TipoTercero]string{
		entity.TerceroCliente: m.ClienteID,
		entity.TerceroLugar:   m.LugarID,
		entity.TerceroChofer:  m.ChoferID,
		entity.TerceroUnidad:  m.UnidadID,
	}
	for tipo, id := range refs {
		if err := r.s.data.requireTercero(tipo, id); err != nil {
			return err
		}
	}
	for i := range m.Detalles {
		m.Detalles[i].MovimientoID = m.ID
		m.Detalles[i].Seq = r.s.data.nextSeq()
	}
	cp := *m
	cp.Detalles = slices.Clone(m.Detalles)
	r.s.data.movimientos = append(r.s.data.movimientos, cp)
	return nil
}

func (r *MovimientoRepo) GetByID(_ context.Context, id string) (*entity.Movimiento, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.data.movimientos {
		if m.ID == id {
			m.Detalles = slices.Clone(m.Detalles)
			return &m, nil
		}
	}
	return nil, nil
}

func (r *MovimientoRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movimiento, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Movimiento
	for _, m := range r.s.data.movimientos {
		if !matches(repository.MovementFilter{Desde: f.Desde, Hasta: f.Hasta}, "", m.FechaHora) {
			continue
		}
		if f.ProductID != "" && !slices.ContainsFunc(m.Detalles, func(d entity.MovimientoDetalle) bool {
			return d.ProductID == f.ProductID
		}) {
			continue
		}
		m.Detalles = slices.Clone(m.Detalles)
		list = append(list, &m)
	}
	slices.SortFunc(list, func(a, b *entity.Movimiento) int {
		return cmp.Or(b.FechaHora.Compare(a.FechaHora), cmp.Compare(b.Folio, a.Folio))
	})
	return paginate(list, f.Limit, f.Offset), nil
}

// MermaRepo mermas en memoria.
type MermaRepo struct{ s *Store }

func (r *MermaRepo) Create(_ context.Context, m *entity.Merma) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("mermas.create"); err != nil {
		return err
	}
	m.Seq = r.s.data.nextSeq()
	r.s.data.mermas = append(r.s.data.mermas, *m)
	return nil
}

func (r *MermaRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Merma, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Merma
	for _, m := range r.s.data.mermas {
		if matches(f, m.ProductID, m.FechaHora) {
			list = append(list, &m)
		}
	}
	slices.SortFunc(list, func(a, b *entity.Merma) int {
		return cmp.Or(b.FechaHora.Compare(a.FechaHora), cmp.Compare(b.Seq, a.Seq))
	})
	return paginate(list, f.Limit, f.Offset), nil
}

// FolioRepo contadores por prefijo.
type FolioRepo struct{ s *Store }

func (r *FolioRepo) Next(_ context.Context, prefix string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("folios.next"); err != nil {
		return 0, err
	}
	r.s.data.folios[prefix]++
	return r.s.data.folios[prefix], nil
}

// DietaRepo dietas, recetas y preparaciones en memoria.
type DietaRepo struct{ s *Store }

func (r *DietaRepo) Create(_ context.Context, d *entity.Dieta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.products[d.ProductoDietaID]; !ok {
		return fmt.Errorf("producto de dieta %s: %w", d.ProductoDietaID, domain.ErrConflict)
	}
	for _, existing := range r.s.data.dietas {
		if existing.ProductoDietaID == d.ProductoDietaID {
			return domain.ErrDuplicate
		}
	}
	cp := *d
	cp.Detalles = nil
	r.s.data.dietas[d.ID] = cp
	return nil
}

func (r *DietaRepo) GetByID(_ context.Context, id string) (*entity.Dieta, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.data.dietas[id]
	if !ok {
		return nil, nil
	}
	d.Detalles = slices.Clone(d.Detalles)
	return &d, nil
}

func (r *DietaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Dieta, error) {
	return r.GetByID(ctx, id)
}

func (r *DietaRepo) Update(_ context.Context, d *entity.Dieta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("dietas.update"); err != nil {
		return err
	}
	cur, ok := r.s.data.dietas[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	detalles := cur.Detalles
	cur = *d
	cur.Detalles = detalles
	r.s.data.dietas[d.ID] = cur
	return nil
}

func (r *DietaRepo) ReplaceDetalles(_ context.Context, dietaID string, detalles []entity.DetalleDieta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.dietas[dietaID]
	if !ok {
		return fmt.Errorf("dieta %s: %w", dietaID, domain.ErrConflict)
	}
	seen := make(map[string]bool, len(detalles))
	for _, det := range detalles {
		if seen[det.ProductID] {
			return domain.ErrDuplicate
		}
		seen[det.ProductID] = true
		if !det.Kg.IsPositive() {
			return domain.ErrInvalidInput
		}
		if _, ok := r.s.data.products[det.ProductID]; !ok {
			return fmt.Errorf("producto %s: %w", det.ProductID, domain.ErrConflict)
		}
	}
	d.Detalles = slices.Clone(detalles)
	for i := range d.Detalles {
		d.Detalles[i].DietaID = dietaID
	}
	slices.SortFunc(d.Detalles, func(a, b entity.DetalleDieta) int { return cmp.Compare(a.ProductID, b.ProductID) })
	r.s.data.dietas[dietaID] = d
	return nil
}

func (r *DietaRepo) List(_ context.Context, eliminadas bool) ([]*entity.Dieta, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Dieta
	for _, d := range r.s.data.dietas {
		if d.Eliminada != eliminadas {
			continue
		}
		d.Detalles = slices.Clone(d.Detalles)
		list = append(list, &d)
	}
	slices.SortFunc(list, func(a, b *entity.Dieta) int {
		return cmp.Or(cmp.Compare(a.Nombre, b.Nombre), cmp.Compare(a.ID, b.ID))
	})
	return list, nil
}

func (r *DietaRepo) CreatePreparacion(_ context.Context, p *entity.PreparacionDieta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("dietas.create_preparacion"); err != nil {
		return err
	}
	r.s.data.preparaciones = append(r.s.data.preparaciones, *p)
	return nil
}

func (r *DietaRepo) ListPreparaciones(_ context.Context, dietaID string) ([]*entity.PreparacionDieta, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.PreparacionDieta
	for i := len(r.s.data.preparaciones) - 1; i >= 0; i-- {
		p := r.s.data.preparaciones[i]
		if p.DietaID == dietaID {
			list = append(list, &p)
		}
	}
	return list, nil
}

// KardexRepo reconstruye el libro de un producto a partir del store.
type KardexRepo struct{ s *Store }

func (r *KardexRepo) ListByProduct(_ context.Context, productID string) ([]entity.KardexMovimiento, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var movs []entity.KardexMovimiento
	for _, e := range r.s.data.entradas {
		if e.ProductID == productID {
			movs = append(movs, entity.KardexMovimiento{
				Seq: e.Seq, FechaHora: e.FechaHora, Tipo: entity.KardexEntrada, Detalle: string(e.Origen),
				Referencia: e.ID, Kg: e.TotalKg, UsuarioID: e.UsuarioID,
			})
		}
	}
	for _, m := range r.s.data.movimientos {
		for _, d := range m.Detalles {
			if d.ProductID == productID {
				movs = append(movs, entity.KardexMovimiento{
					Seq: d.Seq, FechaHora: m.FechaHora, Tipo: entity.KardexSalida, Detalle: string(m.Tipo),
					Referencia: m.Folio, Kg: d.TotalKg.Neg(), UsuarioID: m.UsuarioID,
				})
			}
		}
	}
	for _, m := range r.s.data.mermas {
		if m.ProductID == productID {
			movs = append(movs, entity.KardexMovimiento{
				Seq: m.Seq, FechaHora: m.FechaHora, Tipo: entity.KardexMerma, Detalle: string(m.Motivo),
				Referencia: m.ID, Kg: m.TotalKg.Neg(), UsuarioID: m.UsuarioID,
			})
		}
	}
	slices.SortFunc(movs, func(a, b entity.KardexMovimiento) int {
		return cmp.Or(a.FechaHora.Compare(b.FechaHora), cmp.Compare(a.Seq, b.Seq))
	})
	return movs, nil
}

func matches(f repository.MovementFilter, productID string, fecha time.Time) bool {
	if f.ProductID != "" && productID != f.ProductID {
		return false
	}
	if f.Desde != nil && fecha.Before(*f.Desde) {
		return false
	}
	if f.Hasta != nil && !fecha.Before(*f.Hasta) {
		return false
	}
	return true
}
