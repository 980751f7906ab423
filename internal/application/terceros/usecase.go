// Package terceros administra los catálogos de contrapartes que referencian los movimientos.
package terceros

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-fh/internal/application/dto"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
)

// UseCase casos de uso CRUD de proveedores, clientes, lugares, choferes y unidades.
type UseCase struct {
	repo repository.TerceroRepository
	now  func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.TerceroRepository) *UseCase {
	return &UseCase{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create registra un tercero del tipo indicado.
func (uc *UseCase) Create(ctx context.Context, tipo entity.TipoTercero, in dto.TerceroRequest) (*dto.TerceroResponse, error) {
	now := uc.now()
	t := &entity.Tercero{ID: uuid.New().String(), Tipo: tipo, CreatedAt: now, UpdatedAt: now}
	if err := apply(t, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

// Get obtiene un tercero; ErrNotFound si no existe en ese catálogo.
func (uc *UseCase) Get(ctx context.Context, tipo entity.TipoTercero, id string) (*dto.TerceroResponse, error) {
	t, err := uc.get(ctx, tipo, id)
	if err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

// List lista un catálogo ordenado por nombre.
func (uc *UseCase) List(ctx context.Context, tipo entity.TipoTercero, buscar string, limit, offset int) ([]dto.TerceroResponse, error) {
	if !tipo.Valid() {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.List(ctx, repository.TerceroFilter{
		Tipo:   tipo,
		Buscar: strings.TrimSpace(buscar),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.TerceroResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toResponse(t))
	}
	return out, nil
}

// Update reemplaza los datos del tercero. Los movimientos que lo referencian no cambian.
func (uc *UseCase) Update(ctx context.Context, tipo entity.TipoTercero, id string, in dto.TerceroRequest) (*dto.TerceroResponse, error) {
	t, err := uc.get(ctx, tipo, id)
	if err != nil {
		return nil, err
	}
	if err := apply(t, in); err != nil {
		return nil, err
	}
	t.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

// Delete borra el tercero. Si algún movimiento lo referencia devuelve ErrConflict.
func (uc *UseCase) Delete(ctx context.Context, tipo entity.TipoTercero, id string) error {
	if _, err := uc.get(ctx, tipo, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, tipo, id)
}

func (uc *UseCase) get(ctx context.Context, tipo entity.TipoTercero, id string) (*entity.Tercero, error) {
	if !tipo.Valid() || id == "" {
		return nil, domain.ErrInvalidInput
	}
	t, err := uc.repo.GetByID(ctx, tipo, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// apply copia la entrada validando las reglas por tipo: la placa es solo de unidades y
// en ellas es obligatoria.
func apply(t *entity.Tercero, in dto.TerceroRequest) error {
	if !t.Tipo.Valid() {
		return domain.ErrInvalidInput
	}
	nombre := strings.TrimSpace(in.Nombre)
	placa := strings.ToUpper(strings.TrimSpace(in.Placa))
	if nombre == "" {
		return domain.ErrInvalidInput
	}
	if (t.Tipo == entity.TerceroUnidad) != (placa != "") {
		return domain.ErrInvalidInput
	}
	t.Nombre = nombre
	t.Telefono = strings.TrimSpace(in.Telefono)
	t.Direccion = strings.TrimSpace(in.Direccion)
	t.Placa = placa
	return nil
}

func toResponse(t *entity.Tercero) *dto.TerceroResponse {
	return &dto.TerceroResponse{
		ID:        t.ID,
		Tipo:      string(t.Tipo),
		Nombre:    t.Nombre,
		Telefono:  t.Telefono,
		Direccion: t.Direccion,
		Placa:     t.Placa,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
