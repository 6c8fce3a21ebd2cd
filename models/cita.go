package models

import (
	"time"
)

// Cita representa la tabla citas en la base de datos. Paciente y médico se
// guardan desnormalizados como pares id + nombre.
type Cita struct {
	Dominio
	UsuarioID      *int       `json:"usuario_id" db:"usuario_id"`
	PacienteID     *int       `json:"paciente_id" db:"paciente_id"`
	PacienteNombre *string    `json:"paciente_nombre" db:"paciente_nombre"`
	MedicoID       *int       `json:"medico_id" db:"medico_id"`
	MedicoNombre   *string    `json:"medico_nombre" db:"medico_nombre"`
	MotivoConsulta *string    `json:"motivo_consulta" db:"motivo_consulta"`
	FechaHora      *time.Time `json:"fecha_hora" db:"fecha_hora"`
}

func (c *Cita) Fusionar(p *Cita) {
	if p == nil {
		return
	}
	c.fusionarBase(&p.Dominio)
	asignar(&c.UsuarioID, p.UsuarioID)
	asignar(&c.PacienteID, p.PacienteID)
	asignar(&c.PacienteNombre, p.PacienteNombre)
	asignar(&c.MedicoID, p.MedicoID)
	asignar(&c.MedicoNombre, p.MedicoNombre)
	asignar(&c.MotivoConsulta, p.MotivoConsulta)
	asignar(&c.FechaHora, p.FechaHora)
}
