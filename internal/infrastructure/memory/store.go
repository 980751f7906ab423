// Package memory implementa los repositorios en memoria con transacciones por snapshot.
// Lo usan las pruebas del motor y la herramienta de línea de comandos en modo --dry-run.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda todo el estado. Las transacciones se serializan; si fn falla se restaura
// el snapshot tomado al inicio, igual que un ROLLBACK.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state

	faults map[string][]error
}

type state struct {
	seq           int64
	categories    map[string]entity.Category
	products      map[string]entity.Product
	entradas      []entity.Entrada
	movimientos   []entity.Movimiento
	mermas        []entity.Merma
	folios        map[string]int64
	dietas        map[string]entity.Dieta
	preparaciones []entity.PreparacionDieta
	terceros      map[string]entity.Tercero
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		data: state{
			categories: map[string]entity.Category{},
			products:   map[string]entity.Product{},
			folios:     map[string]int64{},
			dietas:     map[string]entity.Dieta{},
			terceros:   map[string]entity.Tercero{},
		},
		faults: map[string][]error{},
	}
}

// Repos repositorios sobre el store, para lecturas fuera de transacción.
func (s *Store) Repos() inventory.Repos {
	return inventory.Repos{
		Products:    &ProductRepo{s: s},
		Categories:  &CategoryRepo{s: s},
		Entradas:    &EntradaRepo{s: s},
		Movimientos: &MovimientoRepo{s: s},
		Mermas:      &MermaRepo{s: s},
		Folios:      &FolioRepo{s: s},
		Dietas:      &DietaRepo{s: s},
		Terceros:    &TerceroRepo{s: s},
	}
}

// Kardex repositorio de lectura del libro.
func (s *Store) Kardex() *KardexRepo {
	return &KardexRepo{s: s}
}

// Run ejecuta fn de forma exclusiva y deshace todos sus cambios si devuelve error.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx, s.Repos()); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// FailNext hace que las próximas llamadas a op devuelvan los errores indicados, en orden.
// Operaciones: "products.adjust", "entradas.create", "movimientos.create", "mermas.create",
// "folios.next", "dietas.create_preparacion", "dietas.update".
func (s *Store) FailNext(op string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = append(s.faults[op], errs...)
}

// fault consume el siguiente error inyectado para op. Requiere s.mu tomado.
func (s *Store) fault(op string) error {
	errs := s.faults[op]
	if len(errs) == 0 {
		return nil
	}
	s.faults[op] = errs[1:]
	return errs[0]
}

func (st state) clone() state {
	out := st
	out.categories = maps.Clone(st.categories)
	out.products = maps.Clone(st.products)
	out.folios = maps.Clone(st.folios)
	out.terceros = maps.Clone(st.terceros)
	out.entradas = slices.Clone(st.entradas)
	out.mermas = slices.Clone(st.mermas)
	out.preparaciones = slices.Clone(st.preparaciones)
	out.movimientos = make([]entity.Movimiento, len(st.movimientos))
	for i, m := range st.movimientos {
		m.Detalles = slices.Clone(m.Detalles)
		out.movimientos[i] = m
	}
	out.dietas = make(map[string]entity.Dieta, len(st.dietas))
	for id, d := range st.dietas {
		d.Detalles = slices.Clone(d.Detalles)
		out.dietas[id] = d
	}
	return out
}

func (st *state) nextSeq() int64 {
	st.seq++
	return st.seq
}

// paginate aplica limit/offset con el mismo default que PostgreSQL.
func paginate[T any](list []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	end := min(offset+limit, len(list))
	return list[offset:end]
}
