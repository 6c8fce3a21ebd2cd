package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/citas-backend/config"
	"github.com/lizet96/citas-backend/database"
	"github.com/lizet96/citas-backend/mapper"
	"github.com/lizet96/citas-backend/middleware"
	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
	"github.com/lizet96/citas-backend/routes"
	"github.com/lizet96/citas-backend/services"
)

func main() {
	cfg, err := config.Cargar()
	if err != nil {
		log.Fatalf("❌ Configuración inválida: %v", err)
	}

	logger := nuevoLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()
	deps, cerrar, err := construir(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer cerrar()

	creado, err := deps.Usuarios.AsegurarAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
	if err != nil {
		cerrar()
		log.Fatalf("❌ %v", err)
	}
	if creado {
		log.Printf("✅ Administrador inicial creado: %s", cfg.Auth.AdminEmail)
	}

	// Crear instancia de Fiber con configuración
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
		AppName: "Citas Médicas API v1.0.0",
	})

	routes.SetupRoutes(app, deps)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error":   "Ruta no encontrada",
			"message": "La ruta solicitada no existe en este servidor",
			"path":    c.Path(),
			"method":  c.Method(),
		})
	})

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Println("Deteniendo servidor...")
		_ = app.Shutdown()
	}()

	port := cfg.App.Port
	log.Printf(" Servidor Citas Médicas iniciado en puerto %s (almacenamiento: %s)", port, cfg.App.Storage)
	log.Printf(" Estado del sistema: http://localhost:%s/health", port)
	if err := app.Listen(":" + port); err != nil {
		log.Printf("❌ Error del servidor: %v", err)
	}
}

func nuevoLogger(cfg config.Config) *slog.Logger {
	if cfg.EsProduccion() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// construir crea repositorios, servicios y bitácora según STORAGE. La
// configuración del mapeador se crea una sola vez y la comparten todos los
// servicios.
func construir(ctx context.Context, cfg config.Config, logger *slog.Logger) (routes.Dependencias, func(), error) {
	mapeo := mapper.Nuevo()
	deps := routes.Dependencias{
		Config: cfg,
		Auth:   middleware.NuevoAutenticador(cfg.Auth),
		Log:    logger,
	}

	var (
		citas     repository.CrudRepository[*models.Cita]
		pacientes repository.CrudRepository[*models.Paciente]
		medicos   repository.CrudRepository[*models.Medico]
		usuarios  repository.CrudRepository[*models.Usuario]
		cerrar    = func() {}
	)

	switch cfg.App.Storage {
	case config.StorageMemoria:
		log.Println("⚠️  Usando almacenamiento en memoria; los datos se pierden al reiniciar")
		citas = repository.NuevoMemoria(repository.TablaCitas)
		pacientes = repository.NuevoMemoria(repository.TablaPacientes)
		medicos = repository.NuevoMemoria(repository.TablaMedicos)
		usuarios = repository.NuevoMemoria(repository.TablaUsuarios)
		deps.Bitacora = repository.NuevaBitacoraMemoria(5000)

	default:
		if cfg.DB.Migrar {
			if err := database.Migrar(cfg.DB.URL); err != nil {
				return routes.Dependencias{}, nil, err
			}
			log.Println("✅ Migraciones aplicadas")
		}
		pool, err := database.NuevoPool(ctx, cfg.DB)
		if err != nil {
			return routes.Dependencias{}, nil, err
		}
		cerrar = func() {
			pool.Close()
			log.Println("Pool de conexiones cerrado")
		}
		citas = repository.NuevoPostgres(pool, repository.TablaCitas)
		pacientes = repository.NuevoPostgres(pool, repository.TablaPacientes)
		medicos = repository.NuevoPostgres(pool, repository.TablaMedicos)
		usuarios = repository.NuevoPostgres(pool, repository.TablaUsuarios)
		deps.Bitacora = repository.NuevaBitacoraPostgres(pool)
	}

	deps.Citas = services.NuevoCitaService(citas, mapeo, logger)
	deps.Pacientes = services.NuevoPacienteService(pacientes, mapeo, logger)
	deps.Medicos = services.NuevoMedicoService(medicos, mapeo, logger)
	deps.Usuarios = services.NuevoUsuarioService(usuarios, mapeo, cfg.Auth.Issuer, logger)

	return deps, cerrar, nil
}
