package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lizet96/citas-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registro(metodo, ruta string, status int, fecha time.Time) models.RegistroPeticion {
	return models.RegistroPeticion{Metodo: metodo, Ruta: ruta, StatusCode: status, IP: "10.0.0.1", Nivel: models.LogLevelInfo, Fecha: fecha}
}

func TestBitacoraMemoria_ListarYFiltrar(t *testing.T) {
	ctx := context.Background()
	b := NuevaBitacoraMemoria(10)
	require.NoError(t, b.Registrar(ctx, registro("GET", "/api/v1/citas", 200, lunes)))
	require.NoError(t, b.Registrar(ctx, registro("POST", "/api/v1/citas", 409, lunes.Add(time.Hour))))
	require.NoError(t, b.Registrar(ctx, registro("GET", "/health", 200, lunes.Add(2*time.Hour))))

	todos, err := b.Listar(ctx, FiltroBitacora{}, Paginacion{})
	require.NoError(t, err)
	require.Len(t, todos.Contenido, 3)
	assert.Equal(t, "/health", todos.Contenido[0].Ruta, "más recientes primero")

	p, err := b.Listar(ctx, FiltroBitacora{Metodo: "get", Ruta: "citas"}, Paginacion{})
	require.NoError(t, err)
	require.Len(t, p.Contenido, 1)
	assert.Equal(t, 200, p.Contenido[0].StatusCode)

	p, err = b.Listar(ctx, FiltroBitacora{StatusCode: 409}, Paginacion{})
	require.NoError(t, err)
	assert.Len(t, p.Contenido, 1)

	desde := lunes.Add(30 * time.Minute)
	p, err = b.Listar(ctx, FiltroBitacora{Desde: &desde}, Paginacion{Pagina: 0, Tamano: 1})
	require.NoError(t, err)
	assert.Len(t, p.Contenido, 1)
	assert.Equal(t, int64(2), p.TotalElementos)
}

func TestBitacoraMemoria_MaximoYLimpiar(t *testing.T) {
	ctx := context.Background()
	b := NuevaBitacoraMemoria(2)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Registrar(ctx, registro("GET", "/", 200, lunes.Add(time.Duration(i)*time.Hour))))
	}

	p, err := b.Listar(ctx, FiltroBitacora{}, Paginacion{})
	require.NoError(t, err)
	require.Len(t, p.Contenido, 2)
	assert.Equal(t, 3, p.Contenido[0].ID)

	borrados, err := b.Limpiar(ctx, lunes.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), borrados)
}

func TestFiltroBitacora_Especificacion(t *testing.T) {
	hasta := lunes
	esp := FiltroBitacora{Nivel: "error", UsuarioID: 4, Hasta: &hasta}.especificacion()
	sql, args := where(esp, 1)
	assert.Equal(t, " WHERE nivel = $1 AND usuario_id = $2 AND fecha <= $3", sql)
	assert.Equal(t, []any{"error", 4, lunes}, args)
}
