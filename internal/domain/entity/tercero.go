package entity

import "time"

// TipoTercero catálogo de contrapartes al que pertenece un registro.
type TipoTercero string

const (
	TerceroProveedor TipoTercero = "PROVEEDOR" // origen de las entradas de compra
	TerceroCliente   TipoTercero = "CLIENTE"
	TerceroLugar     TipoTercero = "LUGAR" // destino de traslados y pedidos
	TerceroChofer    TipoTercero = "CHOFER"
	TerceroUnidad    TipoTercero = "UNIDAD" // unidad de transporte, se identifica por placa
)

// TiposTercero en el orden en que se muestran.
var TiposTercero = []TipoTercero{TerceroProveedor, TerceroCliente, TerceroLugar, TerceroChofer, TerceroUnidad}

// Valid indica si el tipo es uno de los reconocidos.
func (t TipoTercero) Valid() bool {
	switch t {
	case TerceroProveedor, TerceroCliente, TerceroLugar, TerceroChofer, TerceroUnidad:
		return true
	}
	return false
}

// Tercero contraparte referenciada por los movimientos (proveedor, cliente, lugar, chofer
// o unidad). Un tercero referenciado por algún movimiento no se puede borrar.
type Tercero struct {
	ID        string
	Tipo      TipoTercero
	Nombre    string // en unidades, la descripción
	Telefono  string
	Direccion string
	Placa     string // solo unidades
	CreatedAt time.Time
	UpdatedAt time.Time
}
