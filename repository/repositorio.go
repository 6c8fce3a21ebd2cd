// Package repository define el contrato de persistencia genérico y sus
// implementaciones sobre PostgreSQL (pgx) y en memoria.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lizet96/citas-backend/models"
)

var (
	// ErrNoEncontrado indica que no existe un registro con el id pedido
	ErrNoEncontrado = errors.New("registro no encontrado")
	// ErrColumnaDesconocida indica un filtro sobre una columna que la tabla no tiene
	ErrColumnaDesconocida = errors.New("columna desconocida")
	// ErrOperadorInvalido indica un operador de filtro no soportado
	ErrOperadorInvalido = errors.New("operador inválido")
)

// ViolacionIntegridad envuelve un fallo de restricción (unicidad, llave
// foránea, no nulo) reportado por el almacenamiento.
type ViolacionIntegridad struct {
	Restriccion string
	Causa       error
}

func (e *ViolacionIntegridad) Error() string {
	if e.Restriccion == "" {
		return fmt.Sprintf("violación de integridad: %v", e.Causa)
	}
	return fmt.Sprintf("violación de integridad (%s): %v", e.Restriccion, e.Causa)
}

func (e *ViolacionIntegridad) Unwrap() error {
	return e.Causa
}

// CrudRepository es el contrato que consume el servicio CRUD genérico
type CrudRepository[I models.Entidad[I]] interface {
	BuscarPorID(ctx context.Context, id int) (I, error)
	Guardar(ctx context.Context, instancia I) (I, error)
	GuardarTodos(ctx context.Context, instancias []I) ([]I, error)
	EliminarPorID(ctx context.Context, id int) error
	EliminarTodos(ctx context.Context, instancias []I) error
	BuscarTodos(ctx context.Context) ([]I, error)
	BuscarPorEjemplo(ctx context.Context, ejemplo I) ([]I, error)
	BuscarPorEspecificacion(ctx context.Context, esp Especificacion) ([]I, error)
	BuscarPagina(ctx context.Context, filtro Filtro[I], pag Paginacion) (Pagina[I], error)
}

// Filtro combina un ejemplo (sus campos no nulos se comparan por igualdad) y
// una especificación. Ambos son opcionales.
type Filtro[I models.Entidad[I]] struct {
	Ejemplo        I
	Especificacion Especificacion
}

// TamanoPorDefecto se usa cuando la paginación no indica tamaño
const TamanoPorDefecto = 20

// Paginacion indica la ventana pedida; Pagina empieza en cero
type Paginacion struct {
	Pagina int `json:"page" query:"page"`
	Tamano int `json:"size" query:"size"`
}

// PaginaCompleta es la ventana fija que usan los listados paginados del
// servicio CRUD: primera página con hasta 100000 filas.
var PaginaCompleta = Paginacion{Pagina: 0, Tamano: 100000}

func (p Paginacion) normalizar() Paginacion {
	if p.Pagina < 0 {
		p.Pagina = 0
	}
	if p.Tamano <= 0 {
		p.Tamano = TamanoPorDefecto
	}
	return p
}

// Offset retorna el desplazamiento de la primera fila de la página
func (p Paginacion) Offset() int {
	p = p.normalizar()
	return p.Pagina * p.Tamano
}

// Pagina es un resultado paginado
type Pagina[T any] struct {
	Contenido      []T   `json:"contenido"`
	Pagina         int   `json:"pagina"`
	Tamano         int   `json:"tamano"`
	TotalElementos int64 `json:"total_elementos"`
	TotalPaginas   int   `json:"total_paginas"`
}

// NuevaPagina arma una página a partir de su contenido y el total de filas
func NuevaPagina[T any](contenido []T, pag Paginacion, total int64) Pagina[T] {
	pag = pag.normalizar()
	if contenido == nil {
		contenido = []T{}
	}
	paginas := int((total + int64(pag.Tamano) - 1) / int64(pag.Tamano))
	return Pagina[T]{
		Contenido:      contenido,
		Pagina:         pag.Pagina,
		Tamano:         pag.Tamano,
		TotalElementos: total,
		TotalPaginas:   paginas,
	}
}

// MapearPagina transforma el contenido de una página conservando sus metadatos
func MapearPagina[T, U any](p Pagina[T], f func(T) U) Pagina[U] {
	out := make([]U, len(p.Contenido))
	for i, v := range p.Contenido {
		out[i] = f(v)
	}
	return Pagina[U]{
		Contenido:      out,
		Pagina:         p.Pagina,
		Tamano:         p.Tamano,
		TotalElementos: p.TotalElementos,
		TotalPaginas:   p.TotalPaginas,
	}
}
