package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lizet96/citas-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClasificar(t *testing.T) {
	assert.Nil(t, clasificar(nil))
	assert.ErrorIs(t, clasificar(pgx.ErrNoRows), ErrNoEncontrado)
	assert.ErrorIs(t, clasificar(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNoEncontrado)

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "citas_medico_id_fecha_hora_key", Message: "duplicate key value"}
	err := clasificar(fmt.Errorf("insert: %w", pgErr))
	var vi *ViolacionIntegridad
	require.True(t, errors.As(err, &vi))
	assert.Equal(t, "citas_medico_id_fecha_hora_key", vi.Restriccion)

	// no se envuelve dos veces
	assert.Same(t, err, clasificar(err))

	otro := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	assert.Same(t, error(otro), clasificar(otro))
}

type llamada struct {
	sql  string
	args []any
	enTx bool
}

// bdFalsa registra cada sentencia y responde con las funciones configuradas
type bdFalsa struct {
	llamadas []llamada
	fila     func(sql string, args []any) pgx.Row
	filas    func(sql string, args []any) [][]any
	exec     func(sql string, args []any) (pgconn.CommandTag, error)
	tx       *txFalsa
}

func (b *bdFalsa) anotar(sql string, args []any, enTx bool) {
	b.llamadas = append(b.llamadas, llamada{sql: sql, args: args, enTx: enTx})
}

func (b *bdFalsa) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	b.anotar(sql, args, false)
	return b.fila(sql, args)
}

func (b *bdFalsa) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	b.anotar(sql, args, false)
	return &filasFalsas{datos: b.filas(sql, args)}, nil
}

func (b *bdFalsa) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	b.anotar(sql, args, false)
	return b.exec(sql, args)
}

func (b *bdFalsa) Begin(context.Context) (pgx.Tx, error) {
	b.tx = &txFalsa{bd: b}
	return b.tx, nil
}

type txFalsa struct {
	pgx.Tx
	bd         *bdFalsa
	cerrada    bool
	confirmada bool
	revertida  bool
}

func (t *txFalsa) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	t.bd.anotar(sql, args, true)
	return t.bd.fila(sql, args)
}

func (t *txFalsa) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.bd.anotar(sql, args, true)
	return t.bd.exec(sql, args)
}

func (t *txFalsa) Commit(context.Context) error {
	t.cerrada, t.confirmada = true, true
	return nil
}

func (t *txFalsa) Rollback(context.Context) error {
	if t.cerrada {
		return pgx.ErrTxClosed
	}
	t.cerrada, t.revertida = true, true
	return nil
}

type filaFalsa struct {
	valores []any
	err     error
}

func (f filaFalsa) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	return escanear(dest, f.valores)
}

type filasFalsas struct {
	pgx.Rows
	datos [][]any
	n     int
}

func (f *filasFalsas) Next() bool {
	f.n++
	return f.n <= len(f.datos)
}

func (f *filasFalsas) Scan(dest ...any) error { return escanear(dest, f.datos[f.n-1]) }
func (f *filasFalsas) Err() error             { return nil }
func (f *filasFalsas) Close()                 {}

// escanear copia cada valor no nulo en el destino de la misma posición
func escanear(dest []any, valores []any) error {
	for n, v := range valores {
		if v == nil {
			continue
		}
		reflect.ValueOf(dest[n]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func medico(id *int, licencia string) *models.Medico {
	m := &models.Medico{Nombre: models.Ptr("Dra. Soto"), Licencia: models.Ptr(licencia)}
	m.ID = id
	return m
}

func TestPostgres_GuardarInsertaSinID(t *testing.T) {
	bd := &bdFalsa{fila: func(string, []any) pgx.Row {
		return filaFalsa{valores: []any{models.Ptr(7)}}
	}}
	repo := NuevoPostgres(bd, TablaMedicos)

	guardado, err := repo.Guardar(context.Background(), medico(nil, "L-1"))
	require.NoError(t, err)
	assert.Equal(t, 7, *guardado.ID)

	require.Len(t, bd.llamadas, 1)
	assert.Equal(t, TablaMedicos.sqlInsertar(), bd.llamadas[0].sql)
	assert.Len(t, bd.llamadas[0].args, len(TablaMedicos.columnas())-1)
}

func TestPostgres_GuardarActualizaConID(t *testing.T) {
	bd := &bdFalsa{fila: func(_ string, args []any) pgx.Row {
		return filaFalsa{valores: []any{models.Ptr(args[len(args)-1].(int))}}
	}}
	repo := NuevoPostgres(bd, TablaMedicos)

	guardado, err := repo.Guardar(context.Background(), medico(models.Ptr(3), "L-1"))
	require.NoError(t, err)
	assert.Equal(t, 3, *guardado.ID)

	require.Len(t, bd.llamadas, 1)
	assert.Equal(t, TablaMedicos.sqlActualizar(), bd.llamadas[0].sql)
	args := bd.llamadas[0].args
	assert.Len(t, args, len(TablaMedicos.columnas()))
	assert.Equal(t, 3, args[len(args)-1])
}

func TestPostgres_GuardarViolacionIntegridad(t *testing.T) {
	duplicado := &pgconn.PgError{Code: "23505", ConstraintName: "medicos_licencia_key"}
	bd := &bdFalsa{fila: func(string, []any) pgx.Row { return filaFalsa{err: duplicado} }}
	repo := NuevoPostgres(bd, TablaMedicos)

	guardado, err := repo.Guardar(context.Background(), medico(nil, "L-1"))
	assert.Nil(t, guardado)
	var vi *ViolacionIntegridad
	require.ErrorAs(t, err, &vi)
	assert.Equal(t, "medicos_licencia_key", vi.Restriccion)
}

func TestPostgres_BuscarPorID(t *testing.T) {
	bd := &bdFalsa{fila: func(_ string, args []any) pgx.Row {
		if args[0] == 1 {
			return filaFalsa{valores: []any{models.Ptr(1), models.Ptr(true), models.Ptr(true)}}
		}
		return filaFalsa{err: pgx.ErrNoRows}
	}}
	repo := NuevoPostgres(bd, TablaMedicos)
	ctx := context.Background()

	m, err := repo.BuscarPorID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, *m.ID)
	assert.True(t, *m.Disponible)
	assert.Equal(t, TablaMedicos.sqlPorID(), bd.llamadas[0].sql)

	_, err = repo.BuscarPorID(ctx, 2)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestPostgres_EliminarPorID(t *testing.T) {
	bd := &bdFalsa{exec: func(_ string, args []any) (pgconn.CommandTag, error) {
		if args[0] == 5 {
			return pgconn.NewCommandTag("DELETE 1"), nil
		}
		return pgconn.NewCommandTag("DELETE 0"), nil
	}}
	repo := NuevoPostgres(bd, TablaMedicos)
	ctx := context.Background()

	require.NoError(t, repo.EliminarPorID(ctx, 5))
	assert.Equal(t, "DELETE FROM medicos WHERE id = $1", bd.llamadas[0].sql)
	assert.Equal(t, []any{5}, bd.llamadas[0].args)

	assert.ErrorIs(t, repo.EliminarPorID(ctx, 6), ErrNoEncontrado)
}

func TestPostgres_GuardarTodosEnTransaccion(t *testing.T) {
	sigID := 0
	bd := &bdFalsa{fila: func(_ string, args []any) pgx.Row {
		if args[7] == "L-dup" {
			return filaFalsa{err: &pgconn.PgError{Code: "23505", ConstraintName: "medicos_licencia_key"}}
		}
		sigID++
		return filaFalsa{valores: []any{models.Ptr(sigID)}}
	}}
	repo := NuevoPostgres(bd, TablaMedicos)
	ctx := context.Background()

	guardados, err := repo.GuardarTodos(ctx, []*models.Medico{medico(nil, "L-1"), medico(nil, "L-2")})
	require.NoError(t, err)
	require.Len(t, guardados, 2)
	assert.Equal(t, 1, *guardados[0].ID)
	assert.Equal(t, 2, *guardados[1].ID)
	assert.True(t, bd.tx.confirmada)
	for _, l := range bd.llamadas {
		assert.True(t, l.enTx, l.sql)
	}

	guardados, err = repo.GuardarTodos(ctx, []*models.Medico{medico(nil, "L-3"), medico(nil, "L-dup")})
	assert.Nil(t, guardados)
	var vi *ViolacionIntegridad
	assert.ErrorAs(t, err, &vi)
	assert.True(t, bd.tx.revertida)
	assert.False(t, bd.tx.confirmada)
}

func TestPostgres_EliminarTodosEnTransaccion(t *testing.T) {
	bd := &bdFalsa{exec: func(string, []any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("DELETE 2"), nil
	}}
	repo := NuevoPostgres(bd, TablaMedicos)
	ctx := context.Background()

	require.NoError(t, repo.EliminarTodos(ctx, []*models.Medico{medico(nil, "L-0")}))
	assert.Nil(t, bd.tx)
	assert.Empty(t, bd.llamadas)

	lote := []*models.Medico{medico(models.Ptr(1), "L-1"), medico(nil, "L-0"), medico(models.Ptr(2), "L-2")}
	require.NoError(t, repo.EliminarTodos(ctx, lote))
	require.Len(t, bd.llamadas, 1)
	assert.True(t, bd.llamadas[0].enTx)
	assert.Equal(t, "DELETE FROM medicos WHERE id = ANY($1)", bd.llamadas[0].sql)
	assert.Equal(t, []any{[]int{1, 2}}, bd.llamadas[0].args)
	assert.True(t, bd.tx.confirmada)
}

func TestPostgres_BuscarPagina(t *testing.T) {
	bd := &bdFalsa{
		fila: func(string, []any) pgx.Row { return filaFalsa{valores: []any{int64(250)}} },
		filas: func(string, []any) [][]any {
			return [][]any{{models.Ptr(101)}, {models.Ptr(102)}}
		},
	}
	repo := NuevoPostgres(bd, TablaMedicos)
	filtro := Filtro[*models.Medico]{Ejemplo: &models.Medico{Especialidad: models.Ptr("pediatría")}}
	pag := Paginacion{Pagina: 1, Tamano: 100}

	pagina, err := repo.BuscarPagina(context.Background(), filtro, pag)
	require.NoError(t, err)
	assert.Equal(t, int64(250), pagina.TotalElementos)
	assert.Equal(t, 3, pagina.TotalPaginas)
	require.Len(t, pagina.Contenido, 2)
	assert.Equal(t, 101, *pagina.Contenido[0].ID)

	esp, err := TablaMedicos.condiciones(filtro)
	require.NoError(t, err)
	contar, argsContar := TablaMedicos.sqlContar(esp)
	consulta, argsConsulta := TablaMedicos.sqlPagina(esp, pag)

	require.Len(t, bd.llamadas, 2)
	assert.Equal(t, contar, bd.llamadas[0].sql)
	assert.Equal(t, argsContar, bd.llamadas[0].args)
	assert.Equal(t, consulta, bd.llamadas[1].sql)
	assert.Equal(t, argsConsulta, bd.llamadas[1].args)
	assert.Equal(t, []any{"pediatría", 100, 100}, bd.llamadas[1].args)
}
