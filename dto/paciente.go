package dto

import (
	"time"
)

type PacienteDto struct {
	DominioDto
	PropietarioDto
	Nombre          *string    `json:"nombre,omitempty"`
	Apellido        *string    `json:"apellido,omitempty"`
	Documento       *string    `json:"documento,omitempty"`
	Telefono        *string    `json:"telefono,omitempty"`
	Email           *string    `json:"email,omitempty"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento,omitempty"`
}

type MedicoDto struct {
	DominioDto
	PropietarioDto
	Nombre       *string `json:"nombre,omitempty"`
	Especialidad *string `json:"especialidad,omitempty"`
	Licencia     *string `json:"licencia,omitempty"`
}
