package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/lizet96/citas-backend/config"
	"github.com/lizet96/citas-backend/dto"
	"github.com/lizet96/citas-backend/handlers"
	"github.com/lizet96/citas-backend/middleware"
	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
	"github.com/lizet96/citas-backend/services"
)

// tamaño máximo del cuerpo de una petición
const maxBody = 1 << 20

// Dependencias agrupa lo que necesitan las rutas
type Dependencias struct {
	Config    config.Config
	Auth      *middleware.Autenticador
	Bitacora  repository.Bitacora
	Citas     services.CrudService[*models.Cita, *dto.CitaDto]
	Pacientes services.CrudService[*models.Paciente, *dto.PacienteDto]
	Medicos   services.CrudService[*models.Medico, *dto.MedicoDto]
	Usuarios  *services.UsuarioService
	Log       *slog.Logger
}

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(app *fiber.App, d Dependencias) {
	// Middleware global
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.BodySizeLimit(maxBody))
	app.Use(middleware.LoggingMiddleware(d.Bitacora, d.Config.App.Environment, d.Log))

	// Ruta de salud del sistema
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Citas Médicas API",
			"version": "1.0.0",
			"storage": d.Config.App.Storage,
		})
	})

	api := app.Group("/api/v1", middleware.CreateRateLimiter(middleware.GeneralRateLimit(d.Config.RateLimit)))

	// === RUTAS PÚBLICAS (Sin autenticación) ===
	authHandler := handlers.NuevoAuthHandler(d.Usuarios, d.Auth, d.Bitacora, d.Config.App.Environment, d.Log)
	limiteAuth := middleware.CreateRateLimiter(middleware.AuthRateLimit(d.Config.RateLimit))
	auth := api.Group("/auth")
	auth.Post("/register", limiteAuth, authHandler.Registrar)
	auth.Post("/login", limiteAuth, authHandler.Login)

	// === RUTAS PROTEGIDAS (Requieren autenticación) ===
	protected := api.Group("/", d.Auth.JWTMiddleware())
	protected.Get("/auth/perfil", authHandler.Perfil)

	// --- RUTAS MFA ---
	mfa := protected.Group("/mfa")
	mfa.Post("/setup", authHandler.ConfigurarMFA)
	mfa.Post("/verify", authHandler.VerificarMFA)

	// --- ALTA DE PERSONAL (solo admin) ---
	protected.Post("/usuarios", middleware.RequireRole(models.RolAdmin), authHandler.CrearUsuario)

	// --- RUTAS CRUD ---
	escritura := middleware.RequireRole(models.RolAdmin, models.RolMedico)
	handlers.RegistrarCrud(protected, handlers.Recurso{Ruta: "citas", Codigo: 10}, d.Citas, d.Log, escritura)
	handlers.RegistrarCrud(protected, handlers.Recurso{Ruta: "pacientes", Codigo: 20}, d.Pacientes, d.Log, escritura)
	handlers.RegistrarCrud(protected, handlers.Recurso{Ruta: "medicos", Codigo: 30},
		d.Medicos, d.Log, middleware.RequireRole(models.RolAdmin))

	// --- RUTAS DE LOGS (solo admin) ---
	logsHandler := handlers.NuevoLogsHandler(d.Bitacora)
	logs := protected.Group("/logs", middleware.RequireRole(models.RolAdmin))
	logs.Get("/", logsHandler.ObtenerLogs)
	logs.Delete("/", logsHandler.LimpiarLogs)
}
