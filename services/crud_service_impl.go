package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lizet96/citas-backend/dto"
	"github.com/lizet96/citas-backend/mapper"
	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
	"github.com/lizet96/citas-backend/sesion"
)

// CrudServiceImpl implementa CrudService para cualquier par registro/DTO.
// Cada entidad concreta lo instancia con su repositorio y su mapeador.
type CrudServiceImpl[I models.Entidad[I], D comparable] struct {
	repository repository.CrudRepository[I]
	mapeador   mapper.Mapeador[I, D]
	log        *slog.Logger
}

// NuevoCrudService crea el servicio. Si log es nil se usa slog.Default().
func NuevoCrudService[I models.Entidad[I], D comparable](
	repo repository.CrudRepository[I],
	mapeador mapper.Mapeador[I, D],
	log *slog.Logger,
) *CrudServiceImpl[I, D] {
	if log == nil {
		log = slog.Default()
	}
	var cero I
	return &CrudServiceImpl[I, D]{
		repository: repo,
		mapeador:   mapeador,
		log:        log.With("entidad", fmt.Sprintf("%T", cero)),
	}
}

func (s *CrudServiceImpl[I, D]) ahora() time.Time {
	return s.mapeador.Config().Ahora()
}

// GuardarDto crea un registro a partir del DTO y retorna el DTO persistido.
// El id recibido se ignora: siempre se inserta un registro nuevo.
func (s *CrudServiceImpl[I, D]) GuardarDto(ctx context.Context, d D) (D, error) {
	var cero D
	instancia := s.ObtenerInstanciaParametrosEspeciales(ctx, d)
	base := instancia.Base()
	base.ID = nil
	base.FechaCreacion = nil
	base.MarcarCreacion(s.ahora())

	guardada, err := s.repository.Guardar(ctx, instancia)
	if err != nil {
		var vi *repository.ViolacionIntegridad
		if errors.As(err, &vi) {
			return cero, &ErrorIntegridad{Mensaje: causaRaiz(err).Error(), causa: err}
		}
		return cero, fmt.Errorf("guardar: %w", err)
	}
	return s.ObtenerDto(guardada), nil
}

// Guardar persiste un registro para uso interno: queda disponible y visible,
// FechaCreacion se conserva si ya existía y UltimaActualizacion se renueva.
func (s *CrudServiceImpl[I, D]) Guardar(ctx context.Context, instancia I) (I, error) {
	instancia.Base().MarcarCreacion(s.ahora())
	s.log.Debug("entidad save", "instancia", instancia)

	guardada, err := s.repository.Guardar(ctx, instancia)
	if err != nil {
		s.log.Error("error al guardar", "error", err)
		var cero I
		return cero, fmt.Errorf("guardar: %w", err)
	}
	return guardada, nil
}

// GuardarTodos persiste el lote completo o nada; ante un error retorna una
// lista vacía junto con el error.
func (s *CrudServiceImpl[I, D]) GuardarTodos(ctx context.Context, instancias []I) ([]I, error) {
	ahora := s.ahora()
	for _, i := range instancias {
		i.Base().MarcarCreacion(ahora)
	}
	s.log.Debug("guardar lote", "cantidad", len(instancias))

	guardadas, err := s.repository.GuardarTodos(ctx, instancias)
	if err != nil {
		s.log.Error("error al guardar lote", "cantidad", len(instancias), "error", err)
		return []I{}, fmt.Errorf("guardar lote: %w", err)
	}
	return guardadas, nil
}

func (s *CrudServiceImpl[I, D]) BuscarDtoPorID(ctx context.Context, id int) (D, error) {
	s.log.Debug("buscar dto", "id", id)
	i, err := s.BuscarPorID(ctx, id)
	if err != nil {
		var cero D
		return cero, err
	}
	return s.ObtenerDto(i), nil
}

func (s *CrudServiceImpl[I, D]) BuscarPorID(ctx context.Context, id int) (I, error) {
	i, err := s.repository.BuscarPorID(ctx, id)
	if err != nil {
		var cero I
		return cero, fmt.Errorf("buscar id %d: %w", id, err)
	}
	return i, nil
}

// EncontrarTodosPagina busca por especificación respetando la paginación pedida
func (s *CrudServiceImpl[I, D]) EncontrarTodosPagina(ctx context.Context, esp repository.Especificacion, pag repository.Paginacion) (repository.Pagina[I], error) {
	return s.repository.BuscarPagina(ctx, repository.Filtro[I]{Especificacion: esp}, pag)
}

// EncontrarTodosPaginado ignora la ventana pedida y consulta siempre
// repository.PaginaCompleta.
func (s *CrudServiceImpl[I, D]) EncontrarTodosPaginado(ctx context.Context, pag repository.Paginacion) (repository.Pagina[I], error) {
	return s.paginaCompleta(ctx, repository.Filtro[I]{}, pag)
}

// EncontrarTodosEjemploPaginado filtra por ejemplo con repository.PaginaCompleta
func (s *CrudServiceImpl[I, D]) EncontrarTodosEjemploPaginado(ctx context.Context, ejemplo I, pag repository.Paginacion) (repository.Pagina[I], error) {
	return s.paginaCompleta(ctx, repository.Filtro[I]{Ejemplo: ejemplo}, pag)
}

func (s *CrudServiceImpl[I, D]) paginaCompleta(ctx context.Context, filtro repository.Filtro[I], pedida repository.Paginacion) (repository.Pagina[I], error) {
	if pedida != repository.PaginaCompleta {
		s.log.Debug("paginación reemplazada", "pagina", pedida.Pagina, "tamano", pedida.Tamano)
	}
	return s.repository.BuscarPagina(ctx, filtro, repository.PaginaCompleta)
}

func (s *CrudServiceImpl[I, D]) EncontrarTodos(ctx context.Context) ([]I, error) {
	return s.repository.BuscarTodos(ctx)
}

func (s *CrudServiceImpl[I, D]) EncontrarTodosEjemplo(ctx context.Context, ejemplo I) ([]I, error) {
	return s.repository.BuscarPorEjemplo(ctx, ejemplo)
}

func (s *CrudServiceImpl[I, D]) EncontrarTodosEspecificacion(ctx context.Context, esp repository.Especificacion) ([]I, error) {
	return s.repository.BuscarPorEspecificacion(ctx, esp)
}

func (s *CrudServiceImpl[I, D]) EncontrarTodosDto(ctx context.Context) ([]D, error) {
	lista, err := s.repository.BuscarTodos(ctx)
	if err != nil {
		return nil, err
	}
	return s.aDtos(lista), nil
}

func (s *CrudServiceImpl[I, D]) EncontrarTodosDtoEjemplo(ctx context.Context, ejemplo I) ([]D, error) {
	lista, err := s.repository.BuscarPorEjemplo(ctx, ejemplo)
	if err != nil {
		return nil, err
	}
	return s.aDtos(lista), nil
}

func (s *CrudServiceImpl[I, D]) EncontrarTodosDtoPaginado(ctx context.Context, pag repository.Paginacion) (repository.Pagina[D], error) {
	p, err := s.EncontrarTodosPaginado(ctx, pag)
	if err != nil {
		return repository.Pagina[D]{}, err
	}
	return repository.MapearPagina(p, s.ObtenerDto), nil
}

func (s *CrudServiceImpl[I, D]) EncontrarTodosDtoEjemploPaginado(ctx context.Context, ejemplo I, pag repository.Paginacion) (repository.Pagina[D], error) {
	p, err := s.EncontrarTodosEjemploPaginado(ctx, ejemplo, pag)
	if err != nil {
		return repository.Pagina[D]{}, err
	}
	return repository.MapearPagina(p, s.ObtenerDto), nil
}

func (s *CrudServiceImpl[I, D]) aDtos(lista []I) []D {
	out := make([]D, len(lista))
	for n, i := range lista {
		out[n] = s.ObtenerDto(i)
	}
	return out
}

func (s *CrudServiceImpl[I, D]) EliminarLista(ctx context.Context, instancias []I) error {
	return s.repository.EliminarTodos(ctx, instancias)
}

// EliminarIDs resuelve todos los ids antes de borrar; si alguno falla no se
// borra nada y el lote completo se rechaza con ErrArgumentoInvalido.
func (s *CrudServiceImpl[I, D]) EliminarIDs(ctx context.Context, ids []int) error {
	lista := make([]I, 0, len(ids))
	for _, id := range ids {
		i, err := s.repository.BuscarPorID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: id %d: %w", ErrArgumentoInvalido, id, err)
		}
		lista = append(lista, i)
	}
	if err := s.repository.EliminarTodos(ctx, lista); err != nil {
		return fmt.Errorf("%w: %w", ErrArgumentoInvalido, err)
	}
	return nil
}

// Eliminar borra por id. Un id inexistente no es un error: se registra y se
// retorna false.
func (s *CrudServiceImpl[I, D]) Eliminar(ctx context.Context, id int) (bool, error) {
	err := s.repository.EliminarPorID(ctx, id)
	if errors.Is(err, repository.ErrNoEncontrado) {
		s.log.Info("-> Error Deleting, id inexistente", "id", id)
		return false, nil
	}
	if err != nil {
		s.log.Error("-> Error Deleting", "id", id, "error", err)
		return false, fmt.Errorf("eliminar id %d: %w", id, err)
	}
	return true, nil
}

func (s *CrudServiceImpl[I, D]) ActualizarDto(ctx context.Context, d D, id int) (D, error) {
	i, err := s.Actualizar(ctx, s.ObtenerInstancia(d), id)
	if err != nil {
		var cero D
		return cero, err
	}
	return s.ObtenerDto(i), nil
}

// Actualizar fusiona los campos no nulos de parcial sobre el registro
// existente. ID y FechaCreacion nunca cambian.
func (s *CrudServiceImpl[I, D]) Actualizar(ctx context.Context, parcial I, id int) (I, error) {
	var cero I
	existente, err := s.repository.BuscarPorID(ctx, id)
	if err != nil {
		s.log.Error("-> Error updating", "id", id, "error", err)
		return cero, fmt.Errorf("actualizar id %d: %w", id, err)
	}
	if parcial != cero {
		existente.Fusionar(parcial)
	}
	if existente.Base().ID == nil {
		return existente, nil
	}
	existente.Base().MarcarActualizacion(s.ahora())

	guardada, err := s.repository.Guardar(ctx, existente)
	if err != nil {
		s.log.Error("-> Error updating", "id", id, "error", err)
		return cero, fmt.Errorf("actualizar id %d: %w", id, err)
	}
	return guardada, nil
}

func (s *CrudServiceImpl[I, D]) ObtenerDto(instancia I) D {
	return s.mapeador.ADto(instancia)
}

func (s *CrudServiceImpl[I, D]) ObtenerInstancia(d D) I {
	return s.mapeador.AEntidad(d)
}

// ObtenerInstanciaParametrosEspeciales convierte el DTO en registro y, si el
// DTO no trae usuario, le asigna el usuario de la sesión actual.
func (s *CrudServiceImpl[I, D]) ObtenerInstanciaParametrosEspeciales(ctx context.Context, d D) I {
	var cero D
	if d != cero {
		if conUsuario, ok := any(d).(dto.ConUsuario); ok {
			actual := conUsuario.UsuarioActual()
			if actual == nil || *actual == 0 {
				if id, ok := sesion.UsuarioID(ctx); ok {
					conUsuario.AsignarUsuario(id)
				}
			}
		}
	}
	return s.mapeador.AEntidad(d)
}

// ObtenerInstanciaConsulta convierte el DTO en registro sin sellar el usuario;
// se usa para armar ejemplos de búsqueda.
func (s *CrudServiceImpl[I, D]) ObtenerInstanciaConsulta(d D) I {
	return s.mapeador.AEntidad(d)
}
