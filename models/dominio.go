package models

import (
	"time"
)

// Dominio agrupa los campos comunes a todos los registros persistidos.
// Los punteros nulos representan valores ausentes: una actualización parcial
// solo copia los campos no nulos.
type Dominio struct {
	ID                  *int       `json:"id" db:"id"`
	Disponible          *bool      `json:"disponible" db:"disponible"`
	Visible             *bool      `json:"visible" db:"visible"`
	FechaCreacion       *time.Time `json:"fecha_creacion" db:"fecha_creacion"`
	UltimaActualizacion *time.Time `json:"ultima_actualizacion" db:"ultima_actualizacion"`
}

// Entidad es la restricción que cumple todo registro manejado por el servicio
// CRUD genérico. I es el propio tipo puntero del registro (por ejemplo *Cita).
type Entidad[I any] interface {
	comparable
	Base() *Dominio
	// Fusionar copia los campos no nulos de parcial sobre el receptor,
	// excepto ID y FechaCreacion.
	Fusionar(parcial I)
}

// Base retorna los campos comunes del registro
func (d *Dominio) Base() *Dominio {
	return d
}

// MarcarCreacion deja el registro disponible y visible y sella las fechas.
// FechaCreacion solo se asigna si aún no tiene valor.
func (d *Dominio) MarcarCreacion(ahora time.Time) {
	d.Disponible = Ptr(true)
	d.Visible = Ptr(true)
	if d.FechaCreacion == nil {
		d.FechaCreacion = Ptr(ahora)
	}
	d.UltimaActualizacion = Ptr(ahora)
}

// MarcarActualizacion sella la fecha de última actualización
func (d *Dominio) MarcarActualizacion(ahora time.Time) {
	d.UltimaActualizacion = Ptr(ahora)
}

func (d *Dominio) fusionarBase(p *Dominio) {
	asignar(&d.Disponible, p.Disponible)
	asignar(&d.Visible, p.Visible)
	asignar(&d.UltimaActualizacion, p.UltimaActualizacion)
}

// Ptr retorna un puntero a una copia de v
func Ptr[T any](v T) *T {
	return &v
}

// Valor retorna el valor apuntado o nil si el puntero es nulo
func Valor[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func asignar[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
