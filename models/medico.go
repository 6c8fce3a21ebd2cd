package models

// Medico representa la tabla medicos en la base de datos
type Medico struct {
	Dominio
	UsuarioID    *int    `json:"usuario_id" db:"usuario_id"`
	Nombre       *string `json:"nombre" db:"nombre"`
	Especialidad *string `json:"especialidad" db:"especialidad"`
	Licencia     *string `json:"licencia" db:"licencia"`
}

func (m *Medico) Fusionar(o *Medico) {
	if o == nil {
		return
	}
	m.fusionarBase(&o.Dominio)
	asignar(&m.UsuarioID, o.UsuarioID)
	asignar(&m.Nombre, o.Nombre)
	asignar(&m.Especialidad, o.Especialidad)
	asignar(&m.Licencia, o.Licencia)
}
