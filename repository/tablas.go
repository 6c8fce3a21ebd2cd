package repository

import (
	"github.com/lizet96/citas-backend/models"
)

// TablaCitas describe la tabla citas
var TablaCitas = Tabla[*models.Cita]{
	Nombre: "citas",
	Columnas: []string{
		"usuario_id", "paciente_id", "paciente_nombre", "medico_id",
		"medico_nombre", "motivo_consulta", "fecha_hora",
	},
	Nueva: func() *models.Cita { return &models.Cita{} },
	Destinos: func(c *models.Cita) []any {
		return []any{
			&c.UsuarioID, &c.PacienteID, &c.PacienteNombre, &c.MedicoID,
			&c.MedicoNombre, &c.MotivoConsulta, &c.FechaHora,
		}
	},
	Valores: func(c *models.Cita) []any {
		return []any{
			models.Valor(c.UsuarioID), models.Valor(c.PacienteID), models.Valor(c.PacienteNombre),
			models.Valor(c.MedicoID), models.Valor(c.MedicoNombre), models.Valor(c.MotivoConsulta),
			models.Valor(c.FechaHora),
		}
	},
	Unicas: [][]string{{"medico_id", "fecha_hora"}},
}

// TablaPacientes describe la tabla pacientes
var TablaPacientes = Tabla[*models.Paciente]{
	Nombre: "pacientes",
	Columnas: []string{
		"usuario_id", "nombre", "apellido", "documento", "telefono", "email", "fecha_nacimiento",
	},
	Nueva: func() *models.Paciente { return &models.Paciente{} },
	Destinos: func(p *models.Paciente) []any {
		return []any{
			&p.UsuarioID, &p.Nombre, &p.Apellido, &p.Documento, &p.Telefono, &p.Email, &p.FechaNacimiento,
		}
	},
	Valores: func(p *models.Paciente) []any {
		return []any{
			models.Valor(p.UsuarioID), models.Valor(p.Nombre), models.Valor(p.Apellido),
			models.Valor(p.Documento), models.Valor(p.Telefono), models.Valor(p.Email),
			models.Valor(p.FechaNacimiento),
		}
	},
	Unicas: [][]string{{"documento"}},
}

// TablaMedicos describe la tabla medicos
var TablaMedicos = Tabla[*models.Medico]{
	Nombre:   "medicos",
	Columnas: []string{"usuario_id", "nombre", "especialidad", "licencia"},
	Nueva:    func() *models.Medico { return &models.Medico{} },
	Destinos: func(m *models.Medico) []any {
		return []any{&m.UsuarioID, &m.Nombre, &m.Especialidad, &m.Licencia}
	},
	Valores: func(m *models.Medico) []any {
		return []any{
			models.Valor(m.UsuarioID), models.Valor(m.Nombre),
			models.Valor(m.Especialidad), models.Valor(m.Licencia),
		}
	},
	Unicas: [][]string{{"licencia"}},
}

// TablaUsuarios describe la tabla usuarios
var TablaUsuarios = Tabla[*models.Usuario]{
	Nombre:   "usuarios",
	Columnas: []string{"nombre", "email", "password", "rol", "mfa_secret"},
	Nueva:    func() *models.Usuario { return &models.Usuario{} },
	Destinos: func(u *models.Usuario) []any {
		return []any{&u.Nombre, &u.Email, &u.Password, &u.Rol, &u.MFASecret}
	},
	Valores: func(u *models.Usuario) []any {
		return []any{
			models.Valor(u.Nombre), models.Valor(u.Email), models.Valor(u.Password),
			models.Valor(u.Rol), models.Valor(u.MFASecret),
		}
	},
	Unicas: [][]string{{"email"}},
}

var (
	_ CrudRepository[*models.Cita] = (*Postgres[*models.Cita])(nil)
	_ CrudRepository[*models.Cita] = (*Memoria[*models.Cita])(nil)
	_ Bitacora                     = (*BitacoraPostgres)(nil)
	_ Bitacora                     = (*BitacoraMemoria)(nil)
)
