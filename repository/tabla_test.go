package repository

import (
	"errors"
	"testing"

	"github.com/lizet96/citas-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLInsertar(t *testing.T) {
	got := TablaMedicos.sqlInsertar()
	want := "INSERT INTO medicos (disponible, visible, fecha_creacion, ultima_actualizacion, usuario_id, nombre, especialidad, licencia) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8) " +
		"RETURNING id, disponible, visible, fecha_creacion, ultima_actualizacion, usuario_id, nombre, especialidad, licencia"
	assert.Equal(t, want, got)
}

func TestSQLActualizar(t *testing.T) {
	got := TablaMedicos.sqlActualizar()
	assert.Contains(t, got, "UPDATE medicos SET disponible = $1, visible = $2")
	assert.Contains(t, got, "licencia = $8 WHERE id = $9 RETURNING id,")
}

func TestSQLPagina_ConEjemplo(t *testing.T) {
	ejemplo := &models.Cita{MedicoID: models.Ptr(4), MotivoConsulta: models.Ptr("control")}
	esp, err := TablaCitas.condiciones(Filtro[*models.Cita]{
		Ejemplo:        ejemplo,
		Especificacion: Especificacion{Donde("paciente_nombre", Parecido, "%ana%")},
	})
	require.NoError(t, err)

	query, args := TablaCitas.sqlPagina(esp, PaginaCompleta)

	assert.Contains(t, query, " WHERE medico_id = $1 AND motivo_consulta = $2 AND paciente_nombre ILIKE $3 ORDER BY id LIMIT $4 OFFSET $5")
	assert.Equal(t, []any{4, "control", "%ana%", 100000, 0}, args)
}

func TestSQLContar_EsNuloSinArgumento(t *testing.T) {
	esp := Especificacion{}.Y(Donde("fecha_hora", EsNulo, nil), Donde("visible", Igual, true))
	query, args := TablaCitas.sqlContar(esp)
	assert.Equal(t, "SELECT COUNT(*) FROM citas WHERE fecha_hora IS NULL AND visible = $1", query)
	assert.Equal(t, []any{true}, args)
}

func TestCondiciones_ColumnaDesconocida(t *testing.T) {
	_, err := TablaCitas.condiciones(Filtro[*models.Cita]{
		Especificacion: Especificacion{Donde("id; DROP TABLE citas", Igual, 1)},
	})
	assert.True(t, errors.Is(err, ErrColumnaDesconocida))
}

func TestCondiciones_OperadorInvalido(t *testing.T) {
	_, err := TablaCitas.condiciones(Filtro[*models.Cita]{
		Especificacion: Especificacion{Donde("medico_id", Operador("OR 1=1 --"), 1)},
	})
	assert.True(t, errors.Is(err, ErrOperadorInvalido))
}

func TestNuevaPagina(t *testing.T) {
	p := NuevaPagina([]int{1, 2}, Paginacion{Pagina: 1, Tamano: 2}, 5)
	assert.Equal(t, 3, p.TotalPaginas)
	assert.Equal(t, 1, p.Pagina)

	vacia := NuevaPagina[int](nil, Paginacion{}, 0)
	assert.NotNil(t, vacia.Contenido)
	assert.Equal(t, TamanoPorDefecto, vacia.Tamano)

	m := MapearPagina(p, func(v int) string { return string(rune('a' + v)) })
	assert.Equal(t, []string{"b", "c"}, m.Contenido)
	assert.Equal(t, int64(5), m.TotalElementos)
}
