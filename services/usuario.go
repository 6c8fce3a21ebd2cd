package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lizet96/citas-backend/dto"
	"github.com/lizet96/citas-backend/mapper"
	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCredenciales     = errors.New("credenciales inválidas")
	ErrMFARequerido     = errors.New("código MFA requerido")
	ErrCodigoMFA        = errors.New("código MFA inválido")
	ErrMFANoConfigurado = errors.New("MFA no configurado")
	ErrDatosIncompletos = errors.New("nombre, email y contraseña son requeridos")
	ErrRolInvalido      = errors.New("rol de usuario inválido")
	ErrRolNoPermitido   = errors.New("el registro público solo crea pacientes")
)

var rolesValidos = map[string]bool{
	models.RolAdmin:    true,
	models.RolMedico:   true,
	models.RolPaciente: true,
}

// UsuarioService agrega registro, autenticación y MFA sobre el CRUD genérico
type UsuarioService struct {
	*CrudServiceImpl[*models.Usuario, *dto.UsuarioDto]
	emisor string
}

// NuevoUsuarioService crea el servicio; emisor es el nombre que verá el
// usuario en su aplicación TOTP.
func NuevoUsuarioService(repo repository.CrudRepository[*models.Usuario], cfg *mapper.Config, emisor string, log *slog.Logger) *UsuarioService {
	return &UsuarioService{
		CrudServiceImpl: NuevoCrudService(repo, mapper.Usuarios(cfg), log),
		emisor:          emisor,
	}
}

// Registrar es el alta pública: siempre crea un paciente. Pedir cualquier
// otro rol devuelve ErrRolNoPermitido.
func (s *UsuarioService) Registrar(ctx context.Context, d *dto.UsuarioDto) (*dto.UsuarioDto, error) {
	if d == nil {
		return nil, ErrDatosIncompletos
	}
	if d.Rol != nil && *d.Rol != "" && *d.Rol != models.RolPaciente {
		return nil, ErrRolNoPermitido
	}
	nuevo := *d
	nuevo.Rol = models.Ptr(models.RolPaciente)
	return s.Crear(ctx, &nuevo)
}

// Crear valida los datos, guarda el hash de la contraseña y crea el usuario
// con el rol pedido (paciente si no viene). Solo lo usan rutas de admin.
func (s *UsuarioService) Crear(ctx context.Context, d *dto.UsuarioDto) (*dto.UsuarioDto, error) {
	if d == nil || vacio(d.Nombre) || vacio(d.Email) || vacio(d.Password) {
		return nil, ErrDatosIncompletos
	}
	rol := models.RolPaciente
	if d.Rol != nil {
		rol = *d.Rol
	}
	if !rolesValidos[rol] {
		return nil, ErrRolInvalido
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*d.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("procesar contraseña: %w", err)
	}
	nuevo := *d
	nuevo.Password = models.Ptr(string(hash))
	nuevo.Rol = &rol
	email := normalizarEmail(*d.Email)
	nuevo.Email = &email

	return s.GuardarDto(ctx, &nuevo)
}

// AsegurarAdmin crea el administrador inicial si no existe un usuario con
// ese email. Devuelve true cuando lo creó.
func (s *UsuarioService) AsegurarAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}
	normalizado := normalizarEmail(email)
	existentes, err := s.EncontrarTodosEjemplo(ctx, &models.Usuario{Email: &normalizado})
	if err != nil {
		return false, err
	}
	if len(existentes) > 0 {
		return false, nil
	}
	_, err = s.Crear(ctx, &dto.UsuarioDto{
		Nombre:   models.Ptr("Administrador"),
		Email:    &normalizado,
		Password: &password,
		Rol:      models.Ptr(models.RolAdmin),
	})
	if err != nil {
		return false, fmt.Errorf("crear administrador: %w", err)
	}
	return true, nil
}

// Autenticar valida email y contraseña y, si el usuario tiene MFA, el código TOTP
func (s *UsuarioService) Autenticar(ctx context.Context, req models.LoginRequest) (*models.Usuario, error) {
	email := normalizarEmail(req.Email)
	lista, err := s.EncontrarTodosEjemplo(ctx, &models.Usuario{Email: &email})
	if err != nil {
		return nil, err
	}
	if len(lista) == 0 {
		return nil, ErrCredenciales
	}
	u := lista[0]
	if u.Password == nil || bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(req.Password)) != nil {
		return nil, ErrCredenciales
	}

	if u.MFASecret != nil && *u.MFASecret != "" {
		if req.MFACode == "" {
			return nil, ErrMFARequerido
		}
		if !totp.Validate(req.MFACode, *u.MFASecret) {
			return nil, ErrCodigoMFA
		}
	}
	return u, nil
}

// ConfigurarMFA genera y guarda un secreto TOTP nuevo para el usuario
func (s *UsuarioService) ConfigurarMFA(ctx context.Context, id int) (models.MFASetupResponse, error) {
	u, err := s.BuscarPorID(ctx, id)
	if err != nil {
		return models.MFASetupResponse{}, err
	}
	cuenta := fmt.Sprintf("usuario-%d", id)
	if u.Email != nil {
		cuenta = *u.Email
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: s.emisor, AccountName: cuenta})
	if err != nil {
		return models.MFASetupResponse{}, fmt.Errorf("generar secreto MFA: %w", err)
	}
	secreto := key.Secret()
	if _, err := s.Actualizar(ctx, &models.Usuario{MFASecret: &secreto}, id); err != nil {
		return models.MFASetupResponse{}, err
	}

	return models.MFASetupResponse{Secret: secreto, QRCodeURL: key.URL()}, nil
}

// VerificarMFA comprueba un código contra el secreto guardado del usuario
func (s *UsuarioService) VerificarMFA(ctx context.Context, id int, codigo string) (bool, error) {
	u, err := s.BuscarPorID(ctx, id)
	if err != nil {
		return false, err
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return false, ErrMFANoConfigurado
	}
	return totp.Validate(codigo, *u.MFASecret), nil
}

func vacio(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func normalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
