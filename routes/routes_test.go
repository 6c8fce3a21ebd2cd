package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/citas-backend/config"
	"github.com/lizet96/citas-backend/mapper"
	"github.com/lizet96/citas-backend/middleware"
	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
	"github.com/lizet96/citas-backend/services"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prueba struct {
	t        *testing.T
	app      *fiber.App
	usuarios *services.UsuarioService
	bitacora *repository.BitacoraMemoria
}

func nuevaPrueba(t *testing.T) *prueba {
	cfg := config.Config{
		App:       config.AppConfig{Port: "0", Environment: "testing", Storage: config.StorageMemoria},
		Auth:      config.AuthConfig{JWTSecret: "secreto-de-prueba", TokenTTL: time.Hour, Issuer: "pruebas"},
		RateLimit: config.RateLimitConfig{Max: 1000, Expiration: time.Minute, AuthMax: 1000, AuthExpiration: time.Minute},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mapeo := mapper.Nuevo()
	bitacora := repository.NuevaBitacoraMemoria(100)
	usuarios := services.NuevoUsuarioService(repository.NuevoMemoria(repository.TablaUsuarios), mapeo, cfg.Auth.Issuer, log)

	app := fiber.New()
	SetupRoutes(app, Dependencias{
		Config:    cfg,
		Auth:      middleware.NuevoAutenticador(cfg.Auth),
		Bitacora:  bitacora,
		Citas:     services.NuevoCitaService(repository.NuevoMemoria(repository.TablaCitas), mapeo, log),
		Pacientes: services.NuevoPacienteService(repository.NuevoMemoria(repository.TablaPacientes), mapeo, log),
		Medicos:   services.NuevoMedicoService(repository.NuevoMemoria(repository.TablaMedicos), mapeo, log),
		Usuarios:  usuarios,
		Log:       log,
	})
	return &prueba{t: t, app: app, usuarios: usuarios, bitacora: bitacora}
}

func (p *prueba) pedir(metodo, ruta, token, cuerpo string) (int, map[string]interface{}) {
	p.t.Helper()
	var body io.Reader
	if cuerpo != "" {
		body = strings.NewReader(cuerpo)
	}
	req := httptest.NewRequest(metodo, ruta, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := p.app.Test(req)
	require.NoError(p.t, err)
	return resp.StatusCode, decodificar(p.t, resp)
}

func decodificar(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// dato retorna el primer elemento de body.data
func dato(r map[string]interface{}) map[string]interface{} {
	body, _ := r["body"].(map[string]interface{})
	data, _ := body["data"].([]interface{})
	if len(data) == 0 {
		return nil
	}
	m, _ := data[0].(map[string]interface{})
	return m
}

func (p *prueba) login(email, password, codigo string) (int, string) {
	p.t.Helper()
	cuerpo := `{"email":"` + email + `","password":"` + password + `","mfa_code":"` + codigo + `"}`
	status, r := p.pedir("POST", "/api/v1/auth/login", "", cuerpo)
	token, _ := dato(r)["access_token"].(string)
	return status, token
}

// registrar usa el alta pública, que siempre crea pacientes
func (p *prueba) registrar(email string) {
	p.t.Helper()
	cuerpo := `{"nombre":"Usuario","email":"` + email + `","password":"clave123"}`
	status, _ := p.pedir("POST", "/api/v1/auth/register", "", cuerpo)
	require.Equal(p.t, fiber.StatusCreated, status)
}

// admin crea el administrador inicial y devuelve su token
func (p *prueba) admin() string {
	p.t.Helper()
	_, err := p.usuarios.AsegurarAdmin(context.Background(), "admin@correo.com", "clave123")
	require.NoError(p.t, err)
	status, token := p.login("admin@correo.com", "clave123", "")
	require.Equal(p.t, fiber.StatusOK, status)
	return token
}

// alta crea un usuario con rol a través de la ruta de admin
func (p *prueba) alta(tokenAdmin, email, rol string) {
	p.t.Helper()
	cuerpo := `{"nombre":"Usuario","email":"` + email + `","password":"clave123","rol":"` + rol + `"}`
	status, _ := p.pedir("POST", "/api/v1/usuarios", tokenAdmin, cuerpo)
	require.Equal(p.t, fiber.StatusCreated, status)
}

func TestHealth(t *testing.T) {
	p := nuevaPrueba(t)
	status, r := p.pedir("GET", "/health", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", r["status"])
}

func TestRegistroYLogin(t *testing.T) {
	p := nuevaPrueba(t)
	p.registrar("ana@correo.com")

	status, _ := p.pedir("POST", "/api/v1/auth/register", "",
		`{"nombre":"X","email":"ana@correo.com","password":"otra"}`)
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = p.login("ana@correo.com", "mala", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, token := p.login("ana@correo.com", "clave123", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NotEmpty(t, token)

	status, r := p.pedir("GET", "/api/v1/auth/perfil", token, "")
	require.Equal(t, fiber.StatusOK, status)
	perfil := dato(r)
	assert.Equal(t, "ana@correo.com", perfil["email"])
	assert.Equal(t, models.RolPaciente, perfil["rol"])
	assert.NotContains(t, perfil, "password")
}

func TestRegistroPublico_NoOtorgaEscritura(t *testing.T) {
	p := nuevaPrueba(t)

	for _, rol := range []string{models.RolMedico, models.RolAdmin} {
		status, _ := p.pedir("POST", "/api/v1/auth/register", "",
			`{"nombre":"X","email":"`+rol+`@correo.com","password":"clave123","rol":"`+rol+`"}`)
		assert.Equal(t, fiber.StatusForbidden, status, rol)
		status, _ = p.login(rol+"@correo.com", "clave123", "")
		assert.Equal(t, fiber.StatusUnauthorized, status, rol)
	}

	p.registrar("intruso@correo.com")
	_, token := p.login("intruso@correo.com", "clave123", "")

	status, _ := p.pedir("POST", "/api/v1/pacientes", token, `{"nombre":"Eva","documento":"D-1"}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = p.pedir("DELETE", "/api/v1/pacientes/1", token, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = p.pedir("POST", "/api/v1/usuarios", token,
		`{"nombre":"X","email":"otro@correo.com","password":"clave123","rol":"medico"}`)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestAltaDePersonal(t *testing.T) {
	p := nuevaPrueba(t)
	tokenAdmin := p.admin()

	status, _ := p.pedir("POST", "/api/v1/usuarios", tokenAdmin,
		`{"nombre":"X","email":"x@correo.com","password":"clave123","rol":"enfermera"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	p.alta(tokenAdmin, "medica@correo.com", models.RolMedico)
	status, token := p.login("medica@correo.com", "clave123", "")
	require.Equal(t, fiber.StatusOK, status)

	status, _ = p.pedir("POST", "/api/v1/pacientes", token, `{"nombre":"Eva","documento":"D-1"}`)
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestRutasProtegidas(t *testing.T) {
	p := nuevaPrueba(t)

	status, _ := p.pedir("GET", "/api/v1/citas", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	tokenAdmin := p.admin()
	p.registrar("paciente@correo.com")
	_, tokenPaciente := p.login("paciente@correo.com", "clave123", "")
	p.alta(tokenAdmin, "medico@correo.com", models.RolMedico)
	_, tokenMedico := p.login("medico@correo.com", "clave123", "")

	cita := `{"medico":{"id":1},"fecha_hora":"2024-06-03T09:00:00Z","motivo_consulta":"control"}`

	status, _ = p.pedir("POST", "/api/v1/citas", tokenPaciente, cita)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, r := p.pedir("POST", "/api/v1/citas", tokenMedico, cita)
	require.Equal(t, fiber.StatusCreated, status)
	creada := dato(r)
	// el usuario de la sesión queda como dueño de la cita
	medicos, _ := p.usuarios.EncontrarTodosEjemplo(context.Background(), &models.Usuario{Email: models.Ptr("medico@correo.com")})
	require.Len(t, medicos, 1)
	assert.Equal(t, float64(*medicos[0].ID), creada["usuario_id"])

	status, _ = p.pedir("GET", "/api/v1/citas/todos", tokenPaciente, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = p.pedir("POST", "/api/v1/medicos", tokenMedico, `{"nombre":"Dr. Ruiz","licencia":"L-1"}`)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = p.pedir("GET", "/api/v1/logs", tokenMedico, "")
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestMFA(t *testing.T) {
	p := nuevaPrueba(t)
	p.registrar("ana@correo.com")
	_, token := p.login("ana@correo.com", "clave123", "")

	status, r := p.pedir("POST", "/api/v1/mfa/setup", token, "")
	require.Equal(t, fiber.StatusOK, status)
	secreto, _ := dato(r)["secret"].(string)
	require.NotEmpty(t, secreto)

	codigo, err := totp.GenerateCode(secreto, time.Now())
	require.NoError(t, err)

	status, _ = p.pedir("POST", "/api/v1/mfa/verify", token, `{"code":"`+codigo+`"}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, r = p.pedir("POST", "/api/v1/auth/login", "", `{"email":"ana@correo.com","password":"clave123"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, true, dato(r)["mfa_required"])

	status, token = p.login("ana@correo.com", "clave123", codigo)
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, token)
}

func TestLogsAdmin(t *testing.T) {
	p := nuevaPrueba(t)

	token := p.admin()

	p.pedir("GET", "/health", "", "")
	require.Eventually(t, func() bool {
		pag, _ := p.bitacora.Listar(context.Background(), repository.FiltroBitacora{Ruta: "/health"}, repository.Paginacion{})
		return len(pag.Contenido) == 1
	}, time.Second, 10*time.Millisecond)

	status, r := p.pedir("GET", "/api/v1/logs?ruta=/health", token, "")
	require.Equal(t, fiber.StatusOK, status)
	contenido, _ := dato(r)["contenido"].([]interface{})
	assert.Len(t, contenido, 1)

	status, r = p.pedir("DELETE", "/api/v1/logs?dias=1", token, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(0), dato(r)["rows_deleted"])
}
