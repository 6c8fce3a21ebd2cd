// Package sesion transporta datos del usuario autenticado a lo largo de una
// petición usando context.Context.
package sesion

import (
	"context"
)

type claveContexto int

const (
	claveUsuarioID claveContexto = iota
	claveRol
)

// ConUsuario retorna un contexto derivado que lleva el id del usuario actual
func ConUsuario(ctx context.Context, usuarioID int) context.Context {
	return context.WithValue(ctx, claveUsuarioID, usuarioID)
}

// ConRol retorna un contexto derivado que lleva el rol del usuario actual
func ConRol(ctx context.Context, rol string) context.Context {
	return context.WithValue(ctx, claveRol, rol)
}

// UsuarioID retorna el id del usuario actual, si existe y es distinto de cero
func UsuarioID(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(claveUsuarioID).(int)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// Rol retorna el rol del usuario actual
func Rol(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	rol, _ := ctx.Value(claveRol).(string)
	return rol
}
