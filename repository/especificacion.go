package repository

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Operador de comparación de una condición
type Operador string

const (
	Igual      Operador = "="
	Distinto   Operador = "<>"
	Menor      Operador = "<"
	MenorIgual Operador = "<="
	Mayor      Operador = ">"
	MayorIgual Operador = ">="
	Parecido   Operador = "ILIKE"
	EsNulo     Operador = "IS NULL"
)

// Condicion compara una columna contra un valor
type Condicion struct {
	Columna  string   `json:"columna"`
	Operador Operador `json:"operador"`
	Valor    any      `json:"valor,omitempty"`
}

// Especificacion es una conjunción de condiciones
type Especificacion []Condicion

// Donde crea una condición
func Donde(columna string, op Operador, valor any) Condicion {
	return Condicion{Columna: columna, Operador: op, Valor: valor}
}

// Y agrega condiciones a la especificación
func (s Especificacion) Y(c ...Condicion) Especificacion {
	out := make(Especificacion, 0, len(s)+len(c))
	out = append(out, s...)
	return append(out, c...)
}

func (o Operador) valido() bool {
	switch o {
	case Igual, Distinto, Menor, MenorIgual, Mayor, MayorIgual, Parecido, EsNulo:
		return true
	}
	return false
}

// cumple evalúa la condición contra el valor de la columna (nil = NULL)
func (c Condicion) cumple(v any) (bool, error) {
	if c.Operador == EsNulo {
		return v == nil, nil
	}
	if v == nil || c.Valor == nil {
		return false, nil
	}
	if c.Operador == Parecido {
		a, ok1 := v.(string)
		patron, ok2 := c.Valor.(string)
		if !ok1 || !ok2 {
			return false, fmt.Errorf("%w: ILIKE requiere texto en %s", ErrOperadorInvalido, c.Columna)
		}
		return coincide(a, patron), nil
	}
	cmp, err := comparar(v, c.Valor)
	if err != nil {
		return false, fmt.Errorf("columna %s: %w", c.Columna, err)
	}
	switch c.Operador {
	case Igual:
		return cmp == 0, nil
	case Distinto:
		return cmp != 0, nil
	case Menor:
		return cmp < 0, nil
	case MenorIgual:
		return cmp <= 0, nil
	case Mayor:
		return cmp > 0, nil
	case MayorIgual:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("%w: %s", ErrOperadorInvalido, c.Operador)
}

// coincide implementa ILIKE: % es cualquier secuencia y _ un carácter
func coincide(texto, patron string) bool {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range patron {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String()).MatchString(texto)
}

func comparar(a, b any) (int, error) {
	if fa, ok := numero(a); ok {
		fb, ok := numero(b)
		if !ok {
			return 0, fmt.Errorf("no se puede comparar %T con %T", a, b)
		}
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		}
		return 0, nil
	}
	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("no se puede comparar %T con %T", a, b)
		}
		return strings.Compare(va, vb), nil
	case bool:
		vb, ok := b.(bool)
		if !ok {
			return 0, fmt.Errorf("no se puede comparar %T con %T", a, b)
		}
		if va == vb {
			return 0, nil
		}
		if !va {
			return -1, nil
		}
		return 1, nil
	case time.Time:
		vb, ok := b.(time.Time)
		if !ok {
			if s, esTexto := b.(string); esTexto {
				t, err := time.Parse(time.RFC3339, s)
				if err != nil {
					return 0, fmt.Errorf("fecha inválida %q: %w", s, err)
				}
				vb = t
			} else {
				return 0, fmt.Errorf("no se puede comparar %T con %T", a, b)
			}
		}
		return va.Compare(vb), nil
	}
	return 0, fmt.Errorf("tipo no soportado %T", a)
}

func numero(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
