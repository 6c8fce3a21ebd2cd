package models

import (
	"time"
)

// RegistroPeticion representa una fila de la tabla logs: una petición HTTP
// atendida por el servidor.
type RegistroPeticion struct {
	ID         int       `json:"id" db:"id"`
	RequestID  string    `json:"request_id" db:"request_id"`
	Metodo     string    `json:"metodo" db:"metodo"`
	Ruta       string    `json:"ruta" db:"ruta"`
	StatusCode int       `json:"status_code" db:"status_code"`
	DuracionMs *int      `json:"duracion_ms" db:"duracion_ms"`
	UserAgent  *string   `json:"user_agent" db:"user_agent"`
	IP         string    `json:"ip" db:"ip"`
	Body       *string   `json:"body" db:"body"`
	Params     *string   `json:"params" db:"params"`
	Query      *string   `json:"query" db:"query"`
	UsuarioID  *int      `json:"usuario_id" db:"usuario_id"`
	Rol        *string   `json:"rol" db:"rol"`
	Nivel      string    `json:"nivel" db:"nivel"`
	Ambiente   string    `json:"ambiente" db:"ambiente"`
	PID        *int      `json:"pid" db:"pid"`
	URL        *string   `json:"url" db:"url"`
	Fecha      time.Time `json:"fecha" db:"fecha"`
}

// Constantes para niveles de log
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelDebug   = "debug"
	LogLevelSuccess = "success"
)

// Constantes para ambientes
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTesting     = "testing"
)
