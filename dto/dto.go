// Package dto define las formas de transporte que cruzan la frontera HTTP.
package dto

// ConUsuario lo implementan los DTO que registran al usuario que los creó.
// El servicio CRUD lo usa para sellar el usuario de la sesión actual.
type ConUsuario interface {
	UsuarioActual() *int
	AsignarUsuario(id int)
}

// DominioDto es la proyección de los campos comunes. Las fechas viajan como
// texto; ver mapper.Config para la regla de conversión.
type DominioDto struct {
	ID                  *int   `json:"id,omitempty"`
	Disponible          *bool  `json:"disponible,omitempty"`
	Visible             *bool  `json:"visible,omitempty"`
	FechaCreacion       string `json:"fecha_creacion,omitempty"`
	UltimaActualizacion string `json:"ultima_actualizacion,omitempty"`
}

// PropietarioDto agrega el id del usuario dueño del registro
type PropietarioDto struct {
	UsuarioID *int `json:"usuario_id,omitempty"`
}

func (p *PropietarioDto) UsuarioActual() *int {
	return p.UsuarioID
}

func (p *PropietarioDto) AsignarUsuario(id int) {
	p.UsuarioID = &id
}

// EliminarIDsRequest representa el cuerpo de un borrado por lote
type EliminarIDsRequest struct {
	IDs []int `json:"ids"`
}
