package models

import (
	"time"
)

// Paciente representa la tabla pacientes en la base de datos
type Paciente struct {
	Dominio
	UsuarioID       *int       `json:"usuario_id" db:"usuario_id"`
	Nombre          *string    `json:"nombre" db:"nombre"`
	Apellido        *string    `json:"apellido" db:"apellido"`
	Documento       *string    `json:"documento" db:"documento"`
	Telefono        *string    `json:"telefono" db:"telefono"`
	Email           *string    `json:"email" db:"email"`
	FechaNacimiento *time.Time `json:"fecha_nacimiento" db:"fecha_nacimiento"`
}

func (p *Paciente) Fusionar(o *Paciente) {
	if o == nil {
		return
	}
	p.fusionarBase(&o.Dominio)
	asignar(&p.UsuarioID, o.UsuarioID)
	asignar(&p.Nombre, o.Nombre)
	asignar(&p.Apellido, o.Apellido)
	asignar(&p.Documento, o.Documento)
	asignar(&p.Telefono, o.Telefono)
	asignar(&p.Email, o.Email)
	asignar(&p.FechaNacimiento, o.FechaNacimiento)
}
