package models

// Roles reconocidos por el sistema
const (
	RolAdmin    = "admin"
	RolMedico   = "medico"
	RolPaciente = "paciente"
)

// Usuario representa la tabla usuarios en la base de datos
type Usuario struct {
	Dominio
	Nombre    *string `json:"nombre" db:"nombre"`
	Email     *string `json:"email" db:"email"`
	Password  *string `json:"-" db:"password"`
	Rol       *string `json:"rol" db:"rol"`
	MFASecret *string `json:"-" db:"mfa_secret"`
}

func (u *Usuario) Fusionar(o *Usuario) {
	if o == nil {
		return
	}
	u.fusionarBase(&o.Dominio)
	asignar(&u.Nombre, o.Nombre)
	asignar(&u.Email, o.Email)
	asignar(&u.Password, o.Password)
	asignar(&u.Rol, o.Rol)
	asignar(&u.MFASecret, o.MFASecret)
}

// LoginRequest representa la solicitud de login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfa_code,omitempty"` // Requerido solo si el usuario tiene MFA
}

// LoginResponse representa la respuesta del login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // segundos
	UsuarioID   int    `json:"usuario_id"`
	Rol         string `json:"rol"`
}

type MFASetupResponse struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qr_code_url"`
}

type MFAVerifyRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}
