package http

import (
	"github.com/jhoicas/almacen-fh/internal/application/dto"
	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
)

func toCantidad(in dto.CantidadDTO) entity.Cantidad {
	return entity.Cantidad{Kg: in.Kg, Toneladas: in.Toneladas, Bultos: in.Bultos}
}

func fromCantidad(c entity.Cantidad) dto.CantidadDTO {
	return dto.CantidadDTO{Kg: c.Kg, Toneladas: c.Toneladas, Bultos: c.Bultos}
}

func toEntradaResponse(e *entity.Entrada) dto.EntradaResponse {
	return dto.EntradaResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		ProveedorID:   e.ProveedorID,
		Origen:        string(e.Origen),
		Cantidad:      fromCantidad(e.Cantidad),
		TotalKg:       e.TotalKg,
		PreparacionID: e.PreparacionID,
		FechaHora:     e.FechaHora,
		UsuarioID:     e.UsuarioID,
	}
}

func toSalidaResponse(m *entity.Movimiento) dto.SalidaResponse {
	out := dto.SalidaResponse{
		ID:        m.ID,
		Folio:     m.Folio,
		Tipo:      string(m.Tipo),
		ClienteID: m.ClienteID,
		LugarID:   m.LugarID,
		ChoferID:  m.ChoferID,
		UnidadID:  m.UnidadID,
		Notas:     m.Notas,
		FechaHora: m.FechaHora,
		UsuarioID: m.UsuarioID,
		TotalKg:   m.TotalKg(),
		Detalles:  make([]dto.DetalleSalidaResponse, 0, len(m.Detalles)),
	}
	for _, d := range m.Detalles {
		out.Detalles = append(out.Detalles, dto.DetalleSalidaResponse{
			ID:        d.ID,
			ProductID: d.ProductID,
			Cantidad:  fromCantidad(d.Cantidad),
			TotalKg:   d.TotalKg,
		})
	}
	return out
}

func toMermaResponse(m *entity.Merma) dto.MermaResponse {
	return dto.MermaResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Motivo:      string(m.Motivo),
		Descripcion: m.Descripcion,
		Cantidad:    fromCantidad(m.Cantidad),
		TotalKg:     m.TotalKg,
		FechaHora:   m.FechaHora,
		UsuarioID:   m.UsuarioID,
	}
}

func toKardexResponse(k *inventory.Kardex) dto.KardexResponse {
	out := dto.KardexResponse{
		ProductID:    k.Producto.ID,
		ProductName:  k.Producto.Name,
		StockKg:      k.Producto.StockKg,
		SaldoInicial: k.SaldoInicial,
		SaldoFinal:   k.SaldoInicial,
		Movimientos:  make([]dto.KardexLineaResponse, 0, k.Len()),
	}
	for ln := range k.Movimientos() {
		out.Movimientos = append(out.Movimientos, dto.KardexLineaResponse{
			FechaHora:  ln.FechaHora,
			Tipo:       ln.Tipo,
			Detalle:    ln.Detalle,
			Referencia: ln.Referencia,
			Kg:         ln.Kg,
			Saldo:      ln.Saldo,
			UsuarioID:  ln.UsuarioID,
		})
		out.SaldoFinal = ln.Saldo
	}
	return out
}

func toDietaResponse(d *entity.Dieta) dto.DietaResponse {
	out := dto.DietaResponse{
		ID:               d.ID,
		Nombre:           d.Nombre,
		Etapa:            string(d.Etapa),
		ProductoDietaID:  d.ProductoDietaID,
		TotalKg:          d.TotalKg,
		Estado:           string(d.Estado()),
		Activa:           d.Activa,
		Eliminada:        d.Eliminada,
		FechaPreparacion: d.FechaPreparacion,
		FechaCreacion:    d.FechaCreacion,
		Ingredientes:     make([]dto.DetalleDietaResponse, 0, len(d.Detalles)),
	}
	for _, det := range d.Detalles {
		out.Ingredientes = append(out.Ingredientes, dto.DetalleDietaResponse{ProductID: det.ProductID, Kg: det.Kg})
	}
	return out
}

func toPreparacionResponse(p *entity.PreparacionDieta) dto.PreparacionResponse {
	return dto.PreparacionResponse{
		ID:           p.ID,
		DietaID:      p.DietaID,
		CantidadKg:   p.CantidadKg,
		Lotes:        p.Lotes,
		UsuarioID:    p.UsuarioID,
		FechaHora:    p.FechaHora,
		Notas:        p.Notas,
		MovimientoID: p.MovimientoID,
		EntradaID:    p.EntradaID,
	}
}

func mapList[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
