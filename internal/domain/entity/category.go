package entity

import "time"

// CategoriaRol clasifica el papel de una categoría dentro del motor de inventario.
// Se resuelve al registrar la categoría; el motor nunca compara nombres.
type CategoriaRol string

const (
	RolGeneral     CategoriaRol = "GENERAL"
	RolIngrediente CategoriaRol = "INGREDIENTE" // ingrediente de dieta
	RolDieta       CategoriaRol = "DIETA"       // producto terminado generado por una dieta
)

// Valid indica si el rol es uno de los reconocidos.
func (r CategoriaRol) Valid() bool {
	switch r {
	case RolGeneral, RolIngrediente, RolDieta:
		return true
	}
	return false
}

// Category representa una categoría de productos.
type Category struct {
	ID        string
	Name      string // único
	Role      CategoriaRol
	CreatedAt time.Time
}
