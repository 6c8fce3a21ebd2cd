package dto

import (
	"time"
)

// PacienteRefDto referencia a un paciente dentro de otro DTO
type PacienteRefDto struct {
	ID     *int    `json:"id,omitempty"`
	Nombre *string `json:"nombre,omitempty"`
}

// MedicoRefDto referencia a un médico dentro de otro DTO
type MedicoRefDto struct {
	ID     *int    `json:"id,omitempty"`
	Nombre *string `json:"nombre,omitempty"`
}

// CitaDto es la representación REST de una cita
type CitaDto struct {
	DominioDto
	PropietarioDto
	Paciente       *PacienteRefDto `json:"paciente,omitempty"`
	Medico         *MedicoRefDto   `json:"medico,omitempty"`
	FechaHora      *time.Time      `json:"fecha_hora,omitempty"`
	MotivoConsulta *string         `json:"motivo_consulta,omitempty"`
}
