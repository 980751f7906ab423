package dto

import "time"

// TerceroRequest body para crear o editar un proveedor, cliente, lugar, chofer o unidad.
// En unidades Nombre es la descripción y Placa es obligatoria.
type TerceroRequest struct {
	Nombre    string `json:"nombre" validate:"required,max=150"`
	Telefono  string `json:"telefono" validate:"omitempty,max=20"`
	Direccion string `json:"direccion" validate:"omitempty,max=300"`
	Placa     string `json:"placa" validate:"omitempty,max=20"`
}

// TerceroResponse tercero en respuestas.
type TerceroResponse struct {
	ID        string    `json:"id"`
	Tipo      string    `json:"tipo"`
	Nombre    string    `json:"nombre"`
	Telefono  string    `json:"telefono,omitempty"`
	Direccion string    `json:"direccion,omitempty"`
	Placa     string    `json:"placa,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
