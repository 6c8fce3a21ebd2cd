package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lizet96/citas-backend/models"
)

// Memoria implementa CrudRepository en memoria. Guarda copias de los
// registros y respeta las restricciones de unicidad de la tabla.
type Memoria[I models.Entidad[I]] struct {
	mu    sync.RWMutex
	tabla Tabla[I]
	datos map[int]I
	sigID int
}

// NuevoMemoria crea un repositorio vacío para la tabla dada
func NuevoMemoria[I models.Entidad[I]](tabla Tabla[I]) *Memoria[I] {
	return &Memoria[I]{tabla: tabla, datos: make(map[int]I)}
}

func (r *Memoria[I]) clonar(i I) I {
	c := r.tabla.Nueva()
	c.Fusionar(i)
	b, o := c.Base(), i.Base()
	if o.ID != nil {
		b.ID = models.Ptr(*o.ID)
	}
	if o.FechaCreacion != nil {
		b.FechaCreacion = models.Ptr(*o.FechaCreacion)
	}
	return c
}

func (r *Memoria[I]) BuscarPorID(_ context.Context, id int) (I, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.datos[id]
	if !ok {
		var cero I
		return cero, ErrNoEncontrado
	}
	return r.clonar(i), nil
}

func (r *Memoria[I]) Guardar(_ context.Context, instancia I) (I, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.guardar(instancia)
}

func (r *Memoria[I]) guardar(instancia I) (I, error) {
	var cero I
	nueva := r.clonar(instancia)
	b := nueva.Base()
	if b.ID != nil {
		if _, ok := r.datos[*b.ID]; !ok {
			return cero, ErrNoEncontrado
		}
	}
	if err := r.verificarUnicas(nueva); err != nil {
		return cero, err
	}
	if b.ID == nil {
		r.sigID++
		b.ID = models.Ptr(r.sigID)
	}
	r.datos[*b.ID] = nueva
	return r.clonar(nueva), nil
}

func (r *Memoria[I]) verificarUnicas(nueva I) error {
	campos := r.tabla.campos(nueva)
	id := nueva.Base().ID
	for _, unica := range r.tabla.Unicas {
		for existenteID, existente := range r.datos {
			if id != nil && *id == existenteID {
				continue
			}
			otros := r.tabla.campos(existente)
			if mismosValores(unica, campos, otros) {
				nombre := r.tabla.Nombre + "_" + strings.Join(unica, "_") + "_key"
				return &ViolacionIntegridad{
					Restriccion: nombre,
					Causa:       fmt.Errorf("llave duplicada viola restricción de unicidad %q", nombre),
				}
			}
		}
	}
	return nil
}

// mismosValores compara las columnas dadas; NULL nunca colisiona
func mismosValores(cols []string, a, b map[string]any) bool {
	for _, c := range cols {
		va, vb := a[c], b[c]
		if va == nil || vb == nil {
			return false
		}
		cmp, err := comparar(va, vb)
		if err != nil || cmp != 0 {
			return false
		}
	}
	return true
}

// GuardarTodos es atómico: si una instancia falla no queda ninguna guardada
func (r *Memoria[I]) GuardarTodos(_ context.Context, instancias []I) ([]I, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	respaldo := make(map[int]I, len(r.datos))
	for k, v := range r.datos {
		respaldo[k] = v
	}
	sigID := r.sigID

	guardadas := make([]I, 0, len(instancias))
	for _, i := range instancias {
		g, err := r.guardar(i)
		if err != nil {
			r.datos, r.sigID = respaldo, sigID
			return nil, err
		}
		guardadas = append(guardadas, g)
	}
	return guardadas, nil
}

func (r *Memoria[I]) EliminarPorID(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datos[id]; !ok {
		return ErrNoEncontrado
	}
	delete(r.datos, id)
	return nil
}

func (r *Memoria[I]) EliminarTodos(_ context.Context, instancias []I) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range instancias {
		if id := i.Base().ID; id != nil {
			delete(r.datos, *id)
		}
	}
	return nil
}

func (r *Memoria[I]) BuscarTodos(ctx context.Context) ([]I, error) {
	return r.BuscarPorEspecificacion(ctx, nil)
}

func (r *Memoria[I]) BuscarPorEjemplo(_ context.Context, ejemplo I) ([]I, error) {
	return r.filtrar(Filtro[I]{Ejemplo: ejemplo})
}

func (r *Memoria[I]) BuscarPorEspecificacion(_ context.Context, esp Especificacion) ([]I, error) {
	return r.filtrar(Filtro[I]{Especificacion: esp})
}

func (r *Memoria[I]) BuscarPagina(_ context.Context, filtro Filtro[I], pag Paginacion) (Pagina[I], error) {
	todos, err := r.filtrar(filtro)
	if err != nil {
		return Pagina[I]{}, err
	}
	pag = pag.normalizar()
	desde := pag.Offset()
	if desde > len(todos) {
		desde = len(todos)
	}
	hasta := desde + pag.Tamano
	if hasta > len(todos) {
		hasta = len(todos)
	}
	return NuevaPagina(todos[desde:hasta], pag, int64(len(todos))), nil
}

func (r *Memoria[I]) filtrar(filtro Filtro[I]) ([]I, error) {
	esp, err := r.tabla.condiciones(filtro)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int, 0, len(r.datos))
	for id := range r.datos {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	lista := []I{}
	for _, id := range ids {
		i := r.datos[id]
		campos := r.tabla.campos(i)
		ok := true
		for _, c := range esp {
			cumple, err := c.cumple(campos[c.Columna])
			if err != nil {
				return nil, err
			}
			if !cumple {
				ok = false
				break
			}
		}
		if ok {
			lista = append(lista, r.clonar(i))
		}
	}
	return lista, nil
}
