package inventory

import (
	"fmt"

	"github.com/jhoicas/almacen-fh/internal/domain/entity"
)

// FormatFolio arma el folio legible de un movimiento: prefijo del tipo + contador de 5 dígitos.
func FormatFolio(tipo entity.TipoMovimiento, n int64) string {
	return fmt.Sprintf("%s-%05d", tipo.PrefijoFolio(), n)
}
