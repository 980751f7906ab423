package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
)

var _ repository.TerceroRepository = (*TerceroRepo)(nil)

// TerceroRepo catálogos de terceros en memoria. Reproduce las llaves foráneas RESTRICT
// de PostgreSQL: no se borra un tercero referenciado ni se referencia uno inexistente.
type TerceroRepo struct{ s *Store }

func (r *TerceroRepo) Create(_ context.Context, t *entity.Tercero) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.terceros[t.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.data.terceros[t.ID] = *t
	return nil
}

func (r *TerceroRepo) GetByID(_ context.Context, tipo entity.TipoTercero, id string) (*entity.Tercero, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.data.terceros[id]
	if !ok || t.Tipo != tipo {
		return nil, nil
	}
	return &t, nil
}

func (r *TerceroRepo) List(_ context.Context, f repository.TerceroFilter) ([]*entity.Tercero, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	buscar := strings.ToLower(f.Buscar)
	var list []*entity.Tercero
	for _, t := range r.s.data.terceros {
		if t.Tipo != f.Tipo {
			continue
		}
		if buscar != "" && !strings.Contains(strings.ToLower(t.Nombre), buscar) &&
			!strings.Contains(strings.ToLower(t.Placa), buscar) {
			continue
		}
		list = append(list, &t)
	}
	slices.SortFunc(list, func(a, b *entity.Tercero) int {
		return cmp.Or(cmp.Compare(a.Nombre, b.Nombre), cmp.Compare(a.ID, b.ID))
	})
	return paginate(list, f.Limit, f.Offset), nil
}

func (r *TerceroRepo) Update(_ context.Context, t *entity.Tercero) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.data.terceros[t.ID]
	if !ok || cur.Tipo != t.Tipo {
		return domain.ErrNotFound
	}
	cur.Nombre = t.Nombre
	cur.Telefono = t.Telefono
	cur.Direccion = t.Direccion
	cur.Placa = t.Placa
	cur.UpdatedAt = t.UpdatedAt
	r.s.data.terceros[t.ID] = cur
	return nil
}

func (r *TerceroRepo) Delete(_ context.Context, tipo entity.TipoTercero, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.terceros[id]
	if !ok || t.Tipo != tipo {
		return domain.ErrNotFound
	}
	if r.s.data.referenced(tipo, id) {
		return fmt.Errorf("%s %s referenciado por movimientos: %w", strings.ToLower(string(tipo)), id, domain.ErrConflict)
	}
	delete(r.s.data.terceros, id)
	return nil
}

// requireTercero falla como una llave foránea si id no está vacío y no existe. Requiere s.mu tomado.
func (st *state) requireTercero(tipo entity.TipoTercero, id string) error {
	if id == "" {
		return nil
	}
	if t, ok := st.terceros[id]; !ok || t.Tipo != tipo {
		return fmt.Errorf("%s %s: %w", strings.ToLower(string(tipo)), id, domain.ErrConflict)
	}
	return nil
}

func (st *state) referenced(tipo entity.TipoTercero, id string) bool {
	if tipo == entity.TerceroProveedor {
		return slices.ContainsFunc(st.entradas, func(e entity.Entrada) bool { return e.ProveedorID == id })
	}
	return slices.ContainsFunc(st.movimientos, func(m entity.Movimiento) bool {
		switch tipo {
		case entity.TerceroCliente:
			return m.ClienteID == id
		case entity.TerceroLugar:
			return m.LugarID == id
		case entity.TerceroChofer:
			return m.ChoferID == id
		case entity.TerceroUnidad:
			return m.UnidadID == id
		}
		return false
	})
}
