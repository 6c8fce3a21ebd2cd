package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/citas-backend/dto"
	"github.com/lizet96/citas-backend/middleware"
	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
	"github.com/lizet96/citas-backend/services"
	"github.com/lizet96/citas-backend/sesion"
)

// AuthHandler atiende registro, login, perfil y MFA
type AuthHandler struct {
	usuarios *services.UsuarioService
	auth     *middleware.Autenticador
	bitacora repository.Bitacora
	ambiente string
	log      *slog.Logger
}

func NuevoAuthHandler(usuarios *services.UsuarioService, auth *middleware.Autenticador, bitacora repository.Bitacora, ambiente string, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{usuarios: usuarios, auth: auth, bitacora: bitacora, ambiente: ambiente, log: log}
}

// Registrar es el alta pública; siempre crea un paciente
func (h *AuthHandler) Registrar(c *fiber.Ctx) error {
	var usuario dto.UsuarioDto
	if err := c.BodyParser(&usuario); err != nil {
		return fallar(c, fiber.StatusBadRequest, "F40", "Datos inválidos")
	}
	creado, err := h.usuarios.Registrar(c.UserContext(), &usuario)
	if err != nil {
		return h.errorAlta(c, "F40", err)
	}
	return responder(c, fiber.StatusCreated, "S40", creado)
}

// CrearUsuario da de alta un usuario con cualquier rol (solo admin)
func (h *AuthHandler) CrearUsuario(c *fiber.Ctx) error {
	var usuario dto.UsuarioDto
	if err := c.BodyParser(&usuario); err != nil {
		return fallar(c, fiber.StatusBadRequest, "F45", "Datos inválidos")
	}
	creado, err := h.usuarios.Crear(c.UserContext(), &usuario)
	if err != nil {
		return h.errorAlta(c, "F45", err)
	}
	return responder(c, fiber.StatusCreated, "S45", creado)
}

func (h *AuthHandler) errorAlta(c *fiber.Ctx, codigo string, err error) error {
	var integridad *services.ErrorIntegridad
	switch {
	case errors.Is(err, services.ErrRolNoPermitido):
		return fallar(c, fiber.StatusForbidden, codigo, err.Error())
	case errors.Is(err, services.ErrDatosIncompletos), errors.Is(err, services.ErrRolInvalido):
		return fallar(c, fiber.StatusBadRequest, codigo, err.Error())
	case errors.As(err, &integridad):
		return fallar(c, fiber.StatusConflict, codigo, "El email ya está registrado")
	}
	h.log.Error("error al crear usuario", "error", err)
	return fallar(c, fiber.StatusInternalServerError, codigo, "Error al crear el usuario")
}

// Login autentica un usuario y devuelve un token JWT
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return fallar(c, fiber.StatusBadRequest, "F41", "Email y contraseña son requeridos")
	}

	usuario, err := h.usuarios.Autenticar(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMFARequerido):
			return responder(c, fiber.StatusUnauthorized, "F41", fiber.Map{
				"error":        "Código MFA requerido",
				"mfa_required": true,
			})
		case errors.Is(err, services.ErrCredenciales), errors.Is(err, services.ErrCodigoMFA):
			middleware.LogCustomEvent(h.bitacora, h.ambiente, models.LogLevelWarning, "login fallido", nil,
				map[string]interface{}{"email": req.Email, "motivo": err.Error()}, h.log)
			return fallar(c, fiber.StatusUnauthorized, "F41", "Credenciales inválidas")
		}
		h.log.Error("error al autenticar", "error", err)
		return fallar(c, fiber.StatusInternalServerError, "F41", "Error interno del servidor")
	}

	rol := models.RolPaciente
	if usuario.Rol != nil {
		rol = *usuario.Rol
	}
	token, err := h.auth.GenerateJWT(*usuario.ID, rol)
	if err != nil {
		return fallar(c, fiber.StatusInternalServerError, "F41", "Error al generar token")
	}

	return responder(c, fiber.StatusOK, "S41", models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(h.auth.TTL().Seconds()),
		UsuarioID:   *usuario.ID,
		Rol:         rol,
	})
}

// Perfil obtiene el perfil del usuario autenticado
func (h *AuthHandler) Perfil(c *fiber.Ctx) error {
	id, ok := sesion.UsuarioID(c.UserContext())
	if !ok {
		return fallar(c, fiber.StatusUnauthorized, "F42", "Usuario no autenticado")
	}

	usuario, err := h.usuarios.BuscarDtoPorID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			return fallar(c, fiber.StatusNotFound, "F42", "Usuario no encontrado")
		}
		return fallar(c, fiber.StatusInternalServerError, "F42", "Error interno del servidor")
	}
	return responder(c, fiber.StatusOK, "S42", usuario)
}

// ConfigurarMFA genera el secreto TOTP del usuario autenticado
func (h *AuthHandler) ConfigurarMFA(c *fiber.Ctx) error {
	id, ok := sesion.UsuarioID(c.UserContext())
	if !ok {
		return fallar(c, fiber.StatusUnauthorized, "F43", "Usuario no autenticado")
	}

	setup, err := h.usuarios.ConfigurarMFA(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			return fallar(c, fiber.StatusNotFound, "F43", "Usuario no encontrado")
		}
		h.log.Error("error al configurar MFA", "usuario_id", id, "error", err)
		return fallar(c, fiber.StatusInternalServerError, "F43", "Error al configurar MFA")
	}
	return responder(c, fiber.StatusOK, "S43", setup)
}

// VerificarMFA valida un código TOTP del usuario autenticado
func (h *AuthHandler) VerificarMFA(c *fiber.Ctx) error {
	id, ok := sesion.UsuarioID(c.UserContext())
	if !ok {
		return fallar(c, fiber.StatusUnauthorized, "F44", "Usuario no autenticado")
	}
	var req models.MFAVerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return fallar(c, fiber.StatusBadRequest, "F44", "Código requerido")
	}

	valido, err := h.usuarios.VerificarMFA(c.UserContext(), id, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrMFANoConfigurado) {
			return fallar(c, fiber.StatusBadRequest, "F44", "MFA no configurado")
		}
		return fallar(c, fiber.StatusInternalServerError, "F44", "Error interno del servidor")
	}
	if !valido {
		return fallar(c, fiber.StatusUnauthorized, "F44", "Código MFA inválido")
	}
	return responder(c, fiber.StatusOK, "S44", fiber.Map{"valido": true})
}
