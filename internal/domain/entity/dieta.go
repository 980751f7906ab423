package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EtapaCerdo etapa productiva a la que está dirigida la dieta.
type EtapaCerdo string

const (
	EtapaPreInicio   EtapaCerdo = "pre_inicio"
	EtapaIniciador   EtapaCerdo = "iniciador"
	EtapaCrecimiento EtapaCerdo = "crecimiento"
	EtapaDesarrollo  EtapaCerdo = "desarrollo"
	EtapaEngorda     EtapaCerdo = "engorda"
	EtapaGestacion   EtapaCerdo = "gestacion"
	EtapaLactacion   EtapaCerdo = "lactacion"
)

// Valid indica si la etapa es una de las reconocidas.
func (e EtapaCerdo) Valid() bool {
	switch e {
	case EtapaPreInicio, EtapaIniciador, EtapaCrecimiento, EtapaDesarrollo,
		EtapaEngorda, EtapaGestacion, EtapaLactacion:
		return true
	}
	return false
}

// EstadoDieta estado derivado de una dieta.
type EstadoDieta string

const (
	DietaBorrador   EstadoDieta = "BORRADOR"
	DietaPreparable EstadoDieta = "PREPARABLE"
	DietaPreparada  EstadoDieta = "PREPARADA"
)

// Dieta receta de ingredientes que produce stock de su producto generado.
type Dieta struct {
	ID               string
	Nombre           string
	Etapa            EtapaCerdo
	ProductoDietaID  string
	TotalKg          decimal.Decimal
	Activa           bool
	Eliminada        bool
	Preparada        bool // la receta vigente tiene al menos una preparación
	FechaPreparacion *time.Time
	FechaCreacion    time.Time
	Detalles         []DetalleDieta
}

// RecalcularTotal fija TotalKg como la suma de los kg de sus líneas.
func (d *Dieta) RecalcularTotal() {
	total := decimal.Zero
	for _, det := range d.Detalles {
		total = total.Add(det.Kg)
	}
	d.TotalKg = total
}

// Estado deriva el estado de la máquina Borrador → Preparable → Preparada.
func (d *Dieta) Estado() EstadoDieta {
	positivas := 0
	for _, det := range d.Detalles {
		if det.Kg.IsPositive() {
			positivas++
		}
	}
	switch {
	case positivas == 0:
		return DietaBorrador
	case d.Preparada:
		return DietaPreparada
	default:
		return DietaPreparable
	}
}

// DetalleDieta kg requeridos de un ingrediente por unidad de receta. Único por (dieta, producto).
type DetalleDieta struct {
	ID        string
	DietaID   string
	ProductID string
	Kg        decimal.Decimal
}

// PreparacionDieta bitácora inmutable de una ejecución de la receta.
type PreparacionDieta struct {
	ID           string
	DietaID      string
	CantidadKg   decimal.Decimal
	Lotes        int
	UsuarioID    string
	FechaHora    time.Time
	Notas        string
	MovimientoID string // salida tipo DIETA que consumió los ingredientes
	EntradaID    string // entrada que acreditó el producto de la dieta
}
