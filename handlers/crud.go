package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lizet96/citas-backend/dto"
	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
	"github.com/lizet96/citas-backend/services"
)

// Operaciones del controlador CRUD; se suman al código base del recurso
// para armar el intCode (p. ej. citas = 10, crear = S10, buscar = S13).
const (
	opCrear = iota
	opListar
	opBuscar
	opObtener
	opActualizar
	opEliminar
)

// Recurso identifica una entidad expuesta por RegistrarCrud
type Recurso struct {
	Ruta   string // segmento bajo /api/v1
	Codigo int    // base de los códigos internos
}

func (r Recurso) exito(op int) string {
	return fmt.Sprintf("S%d", r.Codigo+op)
}

func (r Recurso) fallo(op int) string {
	return fmt.Sprintf("F%d", r.Codigo+op)
}

// RegistrarCrud monta las rutas CRUD de un recurso sobre router. Los
// handlers de escritura (p. ej. middleware.RequireRole) se aplican solo a
// las rutas que modifican datos.
func RegistrarCrud[I models.Entidad[I], D comparable](
	router fiber.Router,
	recurso Recurso,
	servicio services.CrudService[I, D],
	log *slog.Logger,
	escritura ...fiber.Handler,
) {
	if log == nil {
		log = slog.Default()
	}
	h := &crudHandler[I, D]{recurso: recurso, servicio: servicio, log: log.With("recurso", recurso.Ruta)}
	grupo := router.Group("/" + recurso.Ruta)

	grupo.Get("/", h.listar)
	grupo.Get("/todos", h.todos)
	grupo.Post("/buscar", h.buscar)
	grupo.Get("/:id", h.obtener)

	grupo.Post("/", conEscritura(escritura, h.crear)...)
	grupo.Put("/:id", conEscritura(escritura, h.actualizar)...)
	grupo.Delete("/:id", conEscritura(escritura, h.eliminar)...)
	grupo.Delete("/", conEscritura(escritura, h.eliminarLote)...)
}

func conEscritura(escritura []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(escritura)+1)
	return append(append(out, escritura...), handler)
}

type crudHandler[I models.Entidad[I], D comparable] struct {
	recurso  Recurso
	servicio services.CrudService[I, D]
	log      *slog.Logger
}

func (h *crudHandler[I, D]) crear(c *fiber.Ctx) error {
	var d D
	if err := c.BodyParser(&d); err != nil {
		return fallar(c, fiber.StatusBadRequest, h.recurso.fallo(opCrear), "Datos inválidos")
	}

	creado, err := h.servicio.GuardarDto(c.UserContext(), d)
	if err != nil {
		return h.responderError(c, opCrear, err)
	}
	return responder(c, fiber.StatusCreated, h.recurso.exito(opCrear), creado)
}

// listar responde siempre la primera página completa; page y size se
// aceptan pero no cambian la ventana.
func (h *crudHandler[I, D]) listar(c *fiber.Ctx) error {
	var pag repository.Paginacion
	if err := c.QueryParser(&pag); err != nil {
		return fallar(c, fiber.StatusBadRequest, h.recurso.fallo(opListar), "Parámetros de paginación inválidos")
	}

	pagina, err := h.servicio.EncontrarTodosDtoPaginado(c.UserContext(), pag)
	if err != nil {
		return h.responderError(c, opListar, err)
	}
	return responder(c, fiber.StatusOK, h.recurso.exito(opListar), pagina)
}

func (h *crudHandler[I, D]) todos(c *fiber.Ctx) error {
	lista, err := h.servicio.EncontrarTodosDto(c.UserContext())
	if err != nil {
		return h.responderError(c, opListar, err)
	}
	return responder(c, fiber.StatusOK, h.recurso.exito(opListar), lista)
}

func (h *crudHandler[I, D]) buscar(c *fiber.Ctx) error {
	var d D
	if err := c.BodyParser(&d); err != nil {
		return fallar(c, fiber.StatusBadRequest, h.recurso.fallo(opBuscar), "Ejemplo de búsqueda inválido")
	}

	ejemplo := h.servicio.ObtenerInstanciaConsulta(d)
	lista, err := h.servicio.EncontrarTodosDtoEjemplo(c.UserContext(), ejemplo)
	if err != nil {
		return h.responderError(c, opBuscar, err)
	}
	return responder(c, fiber.StatusOK, h.recurso.exito(opBuscar), lista)
}

func (h *crudHandler[I, D]) obtener(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fallar(c, fiber.StatusBadRequest, h.recurso.fallo(opObtener), "ID inválido")
	}

	d, err := h.servicio.BuscarDtoPorID(c.UserContext(), id)
	if err != nil {
		return h.responderError(c, opObtener, err)
	}
	return responder(c, fiber.StatusOK, h.recurso.exito(opObtener), d)
}

func (h *crudHandler[I, D]) actualizar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fallar(c, fiber.StatusBadRequest, h.recurso.fallo(opActualizar), "ID inválido")
	}
	var d D
	if err := c.BodyParser(&d); err != nil {
		return fallar(c, fiber.StatusBadRequest, h.recurso.fallo(opActualizar), "Datos inválidos")
	}

	actualizado, err := h.servicio.ActualizarDto(c.UserContext(), d, id)
	if err != nil {
		return h.responderError(c, opActualizar, err)
	}
	return responder(c, fiber.StatusOK, h.recurso.exito(opActualizar), actualizado)
}

// eliminar responde 200 aunque el id no exista; el cuerpo indica si se borró
func (h *crudHandler[I, D]) eliminar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fallar(c, fiber.StatusBadRequest, h.recurso.fallo(opEliminar), "ID inválido")
	}

	eliminado, err := h.servicio.Eliminar(c.UserContext(), id)
	if err != nil {
		return h.responderError(c, opEliminar, err)
	}
	return responder(c, fiber.StatusOK, h.recurso.exito(opEliminar), fiber.Map{
		"id":        id,
		"eliminado": eliminado,
	})
}

func (h *crudHandler[I, D]) eliminarLote(c *fiber.Ctx) error {
	var req dto.EliminarIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return fallar(c, fiber.StatusBadRequest, h.recurso.fallo(opEliminar), "Datos inválidos")
	}

	if err := h.servicio.EliminarIDs(c.UserContext(), req.IDs); err != nil {
		return h.responderError(c, opEliminar, err)
	}
	return responder(c, fiber.StatusOK, h.recurso.exito(opEliminar), fiber.Map{
		"eliminados": len(req.IDs),
	})
}

// responderError traduce los errores del servicio a códigos HTTP
func (h *crudHandler[I, D]) responderError(c *fiber.Ctx, op int, err error) error {
	codigo := h.recurso.fallo(op)

	var integridad *services.ErrorIntegridad
	var violacion *repository.ViolacionIntegridad
	switch {
	case errors.As(err, &integridad):
		return fallar(c, fiber.StatusConflict, codigo, integridad.Mensaje)
	case errors.As(err, &violacion):
		return fallar(c, fiber.StatusConflict, codigo, violacion.Error())
	case errors.Is(err, services.ErrArgumentoInvalido),
		errors.Is(err, repository.ErrColumnaDesconocida),
		errors.Is(err, repository.ErrOperadorInvalido):
		return fallar(c, fiber.StatusBadRequest, codigo, err.Error())
	case errors.Is(err, services.ErrNoEncontrado):
		return fallar(c, fiber.StatusNotFound, codigo, "Registro no encontrado")
	}
	h.log.Error("error inesperado",
		"codigo", codigo,
		"metodo", c.Method(),
		"ruta", c.Path(),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"error", err)
	return fallar(c, fiber.StatusInternalServerError, codigo, "Error interno del servidor")
}
