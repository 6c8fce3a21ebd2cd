// Package mapper convierte entre registros y DTO con funciones explícitas
// por tipo. La configuración se crea una sola vez al iniciar el proceso y se
// comparte en modo solo lectura entre todos los servicios.
package mapper

import (
	"time"

	"github.com/lizet96/citas-backend/dto"
	"github.com/lizet96/citas-backend/models"
)

// Config contiene las reglas compartidas de conversión
type Config struct {
	ahora func() time.Time
}

// Nuevo crea la configuración usando el reloj del sistema
func Nuevo() *Config {
	return NuevoConReloj(time.Now)
}

// NuevoConReloj crea la configuración con un reloj propio (útil en pruebas)
func NuevoConReloj(reloj func() time.Time) *Config {
	if reloj == nil {
		reloj = time.Now
	}
	return &Config{ahora: reloj}
}

// Ahora retorna la hora actual según el reloj configurado
func (c *Config) Ahora() time.Time {
	return c.ahora()
}

// Fecha aplica la regla texto→fecha: el texto nunca se interpreta. Una cadena
// vacía produce nil y cualquier otro valor produce la hora actual.
func (c *Config) Fecha(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := c.ahora()
	return &t
}

// Texto formatea una fecha como RFC 3339; nil produce una cadena vacía
func (c *Config) Texto(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Mapeador agrupa las dos direcciones de conversión de un par registro/DTO
type Mapeador[I, D any] struct {
	cfg      *Config
	aDto     func(*Config, I) D
	aEntidad func(*Config, D) I
}

// NuevoMapeador crea un mapeador a partir de sus funciones de conversión
func NuevoMapeador[I, D any](cfg *Config, aDto func(*Config, I) D, aEntidad func(*Config, D) I) Mapeador[I, D] {
	return Mapeador[I, D]{cfg: cfg, aDto: aDto, aEntidad: aEntidad}
}

func (m Mapeador[I, D]) ADto(i I) D {
	return m.aDto(m.cfg, i)
}

func (m Mapeador[I, D]) AEntidad(d D) I {
	return m.aEntidad(m.cfg, d)
}

// Config retorna la configuración compartida del mapeador
func (m Mapeador[I, D]) Config() *Config {
	return m.cfg
}

func dominioADto(cfg *Config, d models.Dominio) dto.DominioDto {
	return dto.DominioDto{
		ID:                  copiar(d.ID),
		Disponible:          copiar(d.Disponible),
		Visible:             copiar(d.Visible),
		FechaCreacion:       cfg.Texto(d.FechaCreacion),
		UltimaActualizacion: cfg.Texto(d.UltimaActualizacion),
	}
}

func dtoADominio(cfg *Config, d dto.DominioDto) models.Dominio {
	return models.Dominio{
		ID:                  copiar(d.ID),
		Disponible:          copiar(d.Disponible),
		Visible:             copiar(d.Visible),
		FechaCreacion:       cfg.Fecha(d.FechaCreacion),
		UltimaActualizacion: cfg.Fecha(d.UltimaActualizacion),
	}
}

func copiar[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
