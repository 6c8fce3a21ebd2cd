package repository

import (
	"fmt"
	"strings"

	"github.com/lizet96/citas-backend/models"
)

// columnasBase son las columnas de models.Dominio, en el orden en que se
// escanean antes de las columnas propias de cada tabla.
var columnasBase = []string{"id", "disponible", "visible", "fecha_creacion", "ultima_actualizacion"}

// Tabla describe cómo persiste un tipo de registro: nombre, columnas propias
// y funciones explícitas para escanear y extraer valores.
type Tabla[I models.Entidad[I]] struct {
	Nombre string
	// Columnas propias del registro, sin las de Dominio
	Columnas []string
	Nueva    func() I
	// Destinos retorna punteros para Scan alineados con Columnas
	Destinos func(I) []any
	// Valores retorna los valores alineados con Columnas; nil representa NULL
	Valores func(I) []any
	// Unicas lista los conjuntos de columnas con restricción de unicidad
	Unicas [][]string
}

func (t Tabla[I]) columnas() []string {
	out := make([]string, 0, len(columnasBase)+len(t.Columnas))
	out = append(out, columnasBase...)
	return append(out, t.Columnas...)
}

func (t Tabla[I]) conoce(columna string) bool {
	for _, c := range t.columnas() {
		if c == columna {
			return true
		}
	}
	return false
}

func (t Tabla[I]) destinos(i I) []any {
	b := i.Base()
	out := []any{&b.ID, &b.Disponible, &b.Visible, &b.FechaCreacion, &b.UltimaActualizacion}
	return append(out, t.Destinos(i)...)
}

// valores retorna los valores de todas las columnas menos id
func (t Tabla[I]) valores(i I) []any {
	b := i.Base()
	out := []any{
		models.Valor(b.Disponible),
		models.Valor(b.Visible),
		models.Valor(b.FechaCreacion),
		models.Valor(b.UltimaActualizacion),
	}
	return append(out, t.Valores(i)...)
}

// campos retorna columna → valor de todas las columnas
func (t Tabla[I]) campos(i I) map[string]any {
	cols := t.columnas()
	vals := append([]any{models.Valor(i.Base().ID)}, t.valores(i)...)
	out := make(map[string]any, len(cols))
	for n, c := range cols {
		out[c] = vals[n]
	}
	return out
}

// condiciones traduce un filtro a condiciones validadas. Los campos no nulos
// del ejemplo se comparan por igualdad.
func (t Tabla[I]) condiciones(f Filtro[I]) (Especificacion, error) {
	var esp Especificacion
	var cero I
	if f.Ejemplo != cero {
		campos := t.campos(f.Ejemplo)
		for _, c := range t.columnas() {
			if v := campos[c]; v != nil {
				esp = append(esp, Donde(c, Igual, v))
			}
		}
	}
	for _, c := range f.Especificacion {
		if !t.conoce(c.Columna) {
			return nil, fmt.Errorf("%w: %s.%s", ErrColumnaDesconocida, t.Nombre, c.Columna)
		}
		if !c.Operador.valido() {
			return nil, fmt.Errorf("%w: %q", ErrOperadorInvalido, c.Operador)
		}
		esp = append(esp, c)
	}
	return esp, nil
}

// where construye la cláusula WHERE con argumentos $N a partir de argIndex
func where(esp Especificacion, argIndex int) (string, []any) {
	if len(esp) == 0 {
		return "", nil
	}
	var conditions []string
	var args []interface{}
	for _, c := range esp {
		if c.Operador == EsNulo {
			conditions = append(conditions, fmt.Sprintf("%s IS NULL", c.Columna))
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s %s $%d", c.Columna, c.Operador, argIndex))
		args = append(args, c.Valor)
		argIndex++
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (t Tabla[I]) sqlSelect(esp Especificacion) (string, []any) {
	w, args := where(esp, 1)
	return fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id", strings.Join(t.columnas(), ", "), t.Nombre, w), args
}

func (t Tabla[I]) sqlPagina(esp Especificacion, pag Paginacion) (string, []any) {
	pag = pag.normalizar()
	w, args := where(esp, 1)
	n := len(args)
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id LIMIT $%d OFFSET $%d",
		strings.Join(t.columnas(), ", "), t.Nombre, w, n+1, n+2)
	return query, append(args, pag.Tamano, pag.Offset())
}

func (t Tabla[I]) sqlContar(esp Especificacion) (string, []any) {
	w, args := where(esp, 1)
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.Nombre, w), args
}

func (t Tabla[I]) sqlPorID() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", strings.Join(t.columnas(), ", "), t.Nombre)
}

func (t Tabla[I]) sqlInsertar() string {
	cols := t.columnas()[1:]
	marcas := make([]string, len(cols))
	for n := range cols {
		marcas[n] = fmt.Sprintf("$%d", n+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.Nombre, strings.Join(cols, ", "), strings.Join(marcas, ", "), strings.Join(t.columnas(), ", "))
}

func (t Tabla[I]) sqlActualizar() string {
	cols := t.columnas()[1:]
	asignaciones := make([]string, len(cols))
	for n, c := range cols {
		asignaciones[n] = fmt.Sprintf("%s = $%d", c, n+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		t.Nombre, strings.Join(asignaciones, ", "), len(cols)+1, strings.Join(t.columnas(), ", "))
}
