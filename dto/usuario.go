package dto

// UsuarioDto es la vista de un usuario. Password solo se recibe, nunca se
// completa al mapear desde la entidad.
type UsuarioDto struct {
	DominioDto
	Nombre     *string `json:"nombre,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	Rol        *string `json:"rol,omitempty"`
	MFAEnabled bool    `json:"mfa_enabled"`
}
