package mapper

import (
	"github.com/lizet96/citas-backend/dto"
	"github.com/lizet96/citas-backend/models"
)

// Citas retorna el mapeador Cita ↔ CitaDto
func Citas(cfg *Config) Mapeador[*models.Cita, *dto.CitaDto] {
	return NuevoMapeador(cfg, citaADto, citaAEntidad)
}

func citaADto(cfg *Config, c *models.Cita) *dto.CitaDto {
	if c == nil {
		return &dto.CitaDto{}
	}
	out := &dto.CitaDto{
		DominioDto:     dominioADto(cfg, c.Dominio),
		PropietarioDto: dto.PropietarioDto{UsuarioID: copiar(c.UsuarioID)},
		FechaHora:      copiar(c.FechaHora),
		MotivoConsulta: copiar(c.MotivoConsulta),
	}
	if c.PacienteID != nil || c.PacienteNombre != nil {
		out.Paciente = &dto.PacienteRefDto{ID: copiar(c.PacienteID), Nombre: copiar(c.PacienteNombre)}
	}
	if c.MedicoID != nil || c.MedicoNombre != nil {
		out.Medico = &dto.MedicoRefDto{ID: copiar(c.MedicoID), Nombre: copiar(c.MedicoNombre)}
	}
	return out
}

func citaAEntidad(cfg *Config, d *dto.CitaDto) *models.Cita {
	if d == nil {
		return &models.Cita{}
	}
	out := &models.Cita{
		Dominio:        dtoADominio(cfg, d.DominioDto),
		UsuarioID:      copiar(d.UsuarioID),
		FechaHora:      copiar(d.FechaHora),
		MotivoConsulta: copiar(d.MotivoConsulta),
	}
	if d.Paciente != nil {
		out.PacienteID = copiar(d.Paciente.ID)
		out.PacienteNombre = copiar(d.Paciente.Nombre)
	}
	if d.Medico != nil {
		out.MedicoID = copiar(d.Medico.ID)
		out.MedicoNombre = copiar(d.Medico.Nombre)
	}
	return out
}

// Pacientes retorna el mapeador Paciente ↔ PacienteDto
func Pacientes(cfg *Config) Mapeador[*models.Paciente, *dto.PacienteDto] {
	return NuevoMapeador(cfg, pacienteADto, pacienteAEntidad)
}

func pacienteADto(cfg *Config, p *models.Paciente) *dto.PacienteDto {
	if p == nil {
		return &dto.PacienteDto{}
	}
	return &dto.PacienteDto{
		DominioDto:      dominioADto(cfg, p.Dominio),
		PropietarioDto:  dto.PropietarioDto{UsuarioID: copiar(p.UsuarioID)},
		Nombre:          copiar(p.Nombre),
		Apellido:        copiar(p.Apellido),
		Documento:       copiar(p.Documento),
		Telefono:        copiar(p.Telefono),
		Email:           copiar(p.Email),
		FechaNacimiento: copiar(p.FechaNacimiento),
	}
}

func pacienteAEntidad(cfg *Config, d *dto.PacienteDto) *models.Paciente {
	if d == nil {
		return &models.Paciente{}
	}
	return &models.Paciente{
		Dominio:         dtoADominio(cfg, d.DominioDto),
		UsuarioID:       copiar(d.UsuarioID),
		Nombre:          copiar(d.Nombre),
		Apellido:        copiar(d.Apellido),
		Documento:       copiar(d.Documento),
		Telefono:        copiar(d.Telefono),
		Email:           copiar(d.Email),
		FechaNacimiento: copiar(d.FechaNacimiento),
	}
}

// Medicos retorna el mapeador Medico ↔ MedicoDto
func Medicos(cfg *Config) Mapeador[*models.Medico, *dto.MedicoDto] {
	return NuevoMapeador(cfg, medicoADto, medicoAEntidad)
}

func medicoADto(cfg *Config, m *models.Medico) *dto.MedicoDto {
	if m == nil {
		return &dto.MedicoDto{}
	}
	return &dto.MedicoDto{
		DominioDto:     dominioADto(cfg, m.Dominio),
		PropietarioDto: dto.PropietarioDto{UsuarioID: copiar(m.UsuarioID)},
		Nombre:         copiar(m.Nombre),
		Especialidad:   copiar(m.Especialidad),
		Licencia:       copiar(m.Licencia),
	}
}

func medicoAEntidad(cfg *Config, d *dto.MedicoDto) *models.Medico {
	if d == nil {
		return &models.Medico{}
	}
	return &models.Medico{
		Dominio:      dtoADominio(cfg, d.DominioDto),
		UsuarioID:    copiar(d.UsuarioID),
		Nombre:       copiar(d.Nombre),
		Especialidad: copiar(d.Especialidad),
		Licencia:     copiar(d.Licencia),
	}
}

// Usuarios retorna el mapeador Usuario ↔ UsuarioDto. El hash de la
// contraseña y el secreto MFA nunca salen hacia el DTO.
func Usuarios(cfg *Config) Mapeador[*models.Usuario, *dto.UsuarioDto] {
	return NuevoMapeador(cfg, usuarioADto, usuarioAEntidad)
}

func usuarioADto(cfg *Config, u *models.Usuario) *dto.UsuarioDto {
	if u == nil {
		return &dto.UsuarioDto{}
	}
	return &dto.UsuarioDto{
		DominioDto: dominioADto(cfg, u.Dominio),
		Nombre:     copiar(u.Nombre),
		Email:      copiar(u.Email),
		Rol:        copiar(u.Rol),
		MFAEnabled: u.MFASecret != nil && *u.MFASecret != "",
	}
}

func usuarioAEntidad(cfg *Config, d *dto.UsuarioDto) *models.Usuario {
	if d == nil {
		return &models.Usuario{}
	}
	return &models.Usuario{
		Dominio:  dtoADominio(cfg, d.DominioDto),
		Nombre:   copiar(d.Nombre),
		Email:    copiar(d.Email),
		Password: copiar(d.Password),
		Rol:      copiar(d.Rol),
	}
}
