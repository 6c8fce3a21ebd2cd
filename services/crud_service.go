// Package services implementa la lógica CRUD genérica y sus vínculos con
// cada entidad concreta.
package services

import (
	"context"
	"errors"

	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
)

var (
	// ErrArgumentoInvalido se retorna cuando un lote de ids no puede resolverse
	ErrArgumentoInvalido = errors.New("argumento inválido")
	// ErrNoEncontrado se propaga desde el repositorio
	ErrNoEncontrado = repository.ErrNoEncontrado
)

// ErrorIntegridad es el error que ve el cliente cuando crear un registro viola
// una restricción. Mensaje es el mensaje de la causa raíz del driver.
type ErrorIntegridad struct {
	Mensaje string
	causa   error
}

func (e *ErrorIntegridad) Error() string {
	return e.Mensaje
}

func (e *ErrorIntegridad) Unwrap() error {
	return e.causa
}

// causaRaiz recorre la cadena de errores hasta el más interno
func causaRaiz(err error) error {
	for {
		sig := errors.Unwrap(err)
		if sig == nil {
			return err
		}
		err = sig
	}
}

// CrudService reúne las operaciones comunes sobre un registro I y su DTO D
type CrudService[I models.Entidad[I], D comparable] interface {
	GuardarDto(ctx context.Context, dto D) (D, error)
	Guardar(ctx context.Context, instancia I) (I, error)
	GuardarTodos(ctx context.Context, instancias []I) ([]I, error)

	BuscarDtoPorID(ctx context.Context, id int) (D, error)
	BuscarPorID(ctx context.Context, id int) (I, error)

	EncontrarTodosPagina(ctx context.Context, esp repository.Especificacion, pag repository.Paginacion) (repository.Pagina[I], error)
	EncontrarTodosPaginado(ctx context.Context, pag repository.Paginacion) (repository.Pagina[I], error)
	EncontrarTodosEjemploPaginado(ctx context.Context, ejemplo I, pag repository.Paginacion) (repository.Pagina[I], error)
	EncontrarTodos(ctx context.Context) ([]I, error)
	EncontrarTodosEjemplo(ctx context.Context, ejemplo I) ([]I, error)
	EncontrarTodosEspecificacion(ctx context.Context, esp repository.Especificacion) ([]I, error)

	EncontrarTodosDto(ctx context.Context) ([]D, error)
	EncontrarTodosDtoEjemplo(ctx context.Context, ejemplo I) ([]D, error)
	EncontrarTodosDtoPaginado(ctx context.Context, pag repository.Paginacion) (repository.Pagina[D], error)
	EncontrarTodosDtoEjemploPaginado(ctx context.Context, ejemplo I, pag repository.Paginacion) (repository.Pagina[D], error)

	EliminarLista(ctx context.Context, instancias []I) error
	EliminarIDs(ctx context.Context, ids []int) error
	Eliminar(ctx context.Context, id int) (bool, error)

	ActualizarDto(ctx context.Context, dto D, id int) (D, error)
	Actualizar(ctx context.Context, parcial I, id int) (I, error)

	ObtenerDto(instancia I) D
	ObtenerInstancia(dto D) I
	ObtenerInstanciaParametrosEspeciales(ctx context.Context, dto D) I
	ObtenerInstanciaConsulta(dto D) I
}
