package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lizet96/citas-backend/models"
)

// Consultor es lo común entre *pgxpool.Pool y pgx.Tx
type Consultor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// DB es un Consultor capaz de abrir transacciones (*pgxpool.Pool lo cumple)
type DB interface {
	Consultor
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres implementa CrudRepository sobre un pool de pgx
type Postgres[I models.Entidad[I]] struct {
	db    DB
	tabla Tabla[I]
}

// NuevoPostgres crea un repositorio para la tabla dada
func NuevoPostgres[I models.Entidad[I]](db DB, tabla Tabla[I]) *Postgres[I] {
	return &Postgres[I]{db: db, tabla: tabla}
}

func (r *Postgres[I]) BuscarPorID(ctx context.Context, id int) (I, error) {
	i := r.tabla.Nueva()
	err := r.db.QueryRow(ctx, r.tabla.sqlPorID(), id).Scan(r.tabla.destinos(i)...)
	if err != nil {
		var cero I
		return cero, clasificar(err)
	}
	return i, nil
}

func (r *Postgres[I]) Guardar(ctx context.Context, instancia I) (I, error) {
	return r.guardar(ctx, r.db, instancia)
}

func (r *Postgres[I]) guardar(ctx context.Context, q Consultor, instancia I) (I, error) {
	out := r.tabla.Nueva()
	args := r.tabla.valores(instancia)
	var err error
	if id := instancia.Base().ID; id == nil {
		err = q.QueryRow(ctx, r.tabla.sqlInsertar(), args...).Scan(r.tabla.destinos(out)...)
	} else {
		args = append(args, *id)
		err = q.QueryRow(ctx, r.tabla.sqlActualizar(), args...).Scan(r.tabla.destinos(out)...)
	}
	if err != nil {
		var cero I
		return cero, clasificar(err)
	}
	return out, nil
}

// GuardarTodos guarda todas las instancias en una sola transacción
func (r *Postgres[I]) GuardarTodos(ctx context.Context, instancias []I) ([]I, error) {
	guardadas := make([]I, 0, len(instancias))
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, i := range instancias {
			g, err := r.guardar(ctx, tx, i)
			if err != nil {
				return err
			}
			guardadas = append(guardadas, g)
		}
		return nil
	})
	if err != nil {
		return nil, clasificar(err)
	}
	return guardadas, nil
}

func (r *Postgres[I]) EliminarPorID(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.tabla.Nombre), id)
	if err != nil {
		return clasificar(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoEncontrado
	}
	return nil
}

// EliminarTodos borra las instancias con id en una sola transacción
func (r *Postgres[I]) EliminarTodos(ctx context.Context, instancias []I) error {
	ids := make([]int, 0, len(instancias))
	for _, i := range instancias {
		if id := i.Base().ID; id != nil {
			ids = append(ids, *id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ANY($1)", r.tabla.Nombre), ids)
		return err
	})
	return clasificar(err)
}

func (r *Postgres[I]) BuscarTodos(ctx context.Context) ([]I, error) {
	query, args := r.tabla.sqlSelect(nil)
	return r.listar(ctx, query, args)
}

func (r *Postgres[I]) BuscarPorEjemplo(ctx context.Context, ejemplo I) ([]I, error) {
	esp, err := r.tabla.condiciones(Filtro[I]{Ejemplo: ejemplo})
	if err != nil {
		return nil, err
	}
	query, args := r.tabla.sqlSelect(esp)
	return r.listar(ctx, query, args)
}

func (r *Postgres[I]) BuscarPorEspecificacion(ctx context.Context, esp Especificacion) ([]I, error) {
	esp, err := r.tabla.condiciones(Filtro[I]{Especificacion: esp})
	if err != nil {
		return nil, err
	}
	query, args := r.tabla.sqlSelect(esp)
	return r.listar(ctx, query, args)
}

func (r *Postgres[I]) BuscarPagina(ctx context.Context, filtro Filtro[I], pag Paginacion) (Pagina[I], error) {
	esp, err := r.tabla.condiciones(filtro)
	if err != nil {
		return Pagina[I]{}, err
	}
	countQuery, countArgs := r.tabla.sqlContar(esp)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return Pagina[I]{}, clasificar(err)
	}
	query, args := r.tabla.sqlPagina(esp, pag)
	contenido, err := r.listar(ctx, query, args)
	if err != nil {
		return Pagina[I]{}, err
	}
	return NuevaPagina(contenido, pag, total), nil
}

func (r *Postgres[I]) listar(ctx context.Context, query string, args []any) ([]I, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, clasificar(err)
	}
	defer rows.Close()

	lista := []I{}
	for rows.Next() {
		i := r.tabla.Nueva()
		if err := rows.Scan(r.tabla.destinos(i)...); err != nil {
			return nil, err
		}
		lista = append(lista, i)
	}
	return lista, rows.Err()
}

// clasificar traduce errores del driver: sin filas → ErrNoEncontrado,
// SQLSTATE clase 23 → *ViolacionIntegridad.
func clasificar(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoEncontrado
	}
	var vi *ViolacionIntegridad
	if errors.As(err, &vi) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return &ViolacionIntegridad{Restriccion: pgErr.ConstraintName, Causa: err}
	}
	return err
}
