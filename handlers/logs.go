package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/citas-backend/repository"
)

// LogsHandler expone la bitácora de peticiones a los administradores
type LogsHandler struct {
	bitacora repository.Bitacora
}

func NuevoLogsHandler(bitacora repository.Bitacora) *LogsHandler {
	return &LogsHandler{bitacora: bitacora}
}

// ObtenerLogs obtiene logs con filtros opcionales
func (h *LogsHandler) ObtenerLogs(c *fiber.Ctx) error {
	var pag repository.Paginacion
	if err := c.QueryParser(&pag); err != nil {
		return fallar(c, fiber.StatusBadRequest, "F70", "Parámetros de paginación inválidos")
	}

	filtro := repository.FiltroBitacora{
		Nivel:     c.Query("nivel"),
		Metodo:    c.Query("metodo"),
		IP:        c.Query("ip"),
		Ruta:      c.Query("ruta"),
		RequestID: c.Query("request_id"),
	}
	if status, err := strconv.Atoi(c.Query("status_code")); err == nil {
		filtro.StatusCode = status
	}
	if usuario, err := strconv.Atoi(c.Query("usuario_id")); err == nil {
		filtro.UsuarioID = usuario
	}
	if fecha, err := time.Parse("2006-01-02", c.Query("fecha_inicio")); err == nil {
		filtro.Desde = &fecha
	}
	if fecha, err := time.Parse("2006-01-02", c.Query("fecha_fin")); err == nil {
		// Agregar 24 horas para incluir todo el día
		fecha = fecha.Add(24 * time.Hour)
		filtro.Hasta = &fecha
	}

	pagina, err := h.bitacora.Listar(c.UserContext(), filtro, pag)
	if err != nil {
		return fallar(c, fiber.StatusInternalServerError, "F70", "Error al obtener logs")
	}
	return responder(c, fiber.StatusOK, "S70", pagina)
}

// LimpiarLogs elimina logs más antiguos que el parámetro dias (30 por defecto)
func (h *LogsHandler) LimpiarLogs(c *fiber.Ctx) error {
	dias, _ := strconv.Atoi(c.Query("dias", "30"))
	if dias < 1 {
		dias = 30
	}

	borrados, err := h.bitacora.Limpiar(c.UserContext(), time.Now().AddDate(0, 0, -dias))
	if err != nil {
		return fallar(c, fiber.StatusInternalServerError, "F72", "Error al limpiar logs")
	}

	return responder(c, fiber.StatusOK, "S72", fiber.Map{
		"message":      "Logs limpiados exitosamente",
		"rows_deleted": borrados,
		"days_deleted": dias,
	})
}
