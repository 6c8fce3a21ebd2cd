package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Modos de almacenamiento soportados
const (
	StoragePostgres = "postgres"
	StorageMemoria  = "memoria"
)

// secretoDesarrollo es el valor por defecto de JWT_SECRET; no se admite en producción
const secretoDesarrollo = "clave_secreta_muy_segura_aqui"

// Config agrupa la configuración de la aplicación leída del entorno
type Config struct {
	App       AppConfig
	DB        DBConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port        string `env:"PORT" env-default:"3000"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	Storage     string `env:"STORAGE" env-default:"postgres"`
}

type DBConfig struct {
	URL      string `env:"DATABASE_URL"`
	MaxConns int32  `env:"DB_MAX_CONNS" env-default:"30"`
	MinConns int32  `env:"DB_MIN_CONNS" env-default:"5"`
	Migrar   bool   `env:"MIGRATE" env-default:"true"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" env-default:"clave_secreta_muy_segura_aqui"`
	TokenTTL  time.Duration `env:"JWT_TTL" env-default:"24h"`
	Issuer    string        `env:"MFA_ISSUER" env-default:"Citas Medicas"`

	// administrador inicial; vacío = no se crea
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

type RateLimitConfig struct {
	Max        int           `env:"RATE_LIMIT_MAX" env-default:"100"`
	Expiration time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"15m"`

	// registro y login
	AuthMax        int           `env:"AUTH_RATE_LIMIT_MAX" env-default:"20"`
	AuthExpiration time.Duration `env:"AUTH_RATE_LIMIT_WINDOW" env-default:"30m"`
}

// Cargar lee el archivo .env (si existe) y luego las variables de entorno
func Cargar() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Advertencia: No se pudo cargar el archivo .env")
	}
	return Leer()
}

// Leer construye la configuración solo a partir de las variables de entorno
func Leer() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("leer entorno: %w", err)
	}
	if err := cfg.validar(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validar() error {
	switch c.App.Storage {
	case StoragePostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("DATABASE_URL es requerida con STORAGE=%s", StoragePostgres)
		}
	case StorageMemoria:
	default:
		return fmt.Errorf("STORAGE inválido: %q", c.App.Storage)
	}
	if c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) mayor que DB_MAX_CONNS (%d)", c.DB.MinConns, c.DB.MaxConns)
	}
	if c.Auth.JWTSecret == "" || (c.EsProduccion() && c.Auth.JWTSecret == secretoDesarrollo) {
		return fmt.Errorf("JWT_SECRET vacío o no apto para %s", c.App.Environment)
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL y ADMIN_PASSWORD van juntos")
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.AuthMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX y AUTH_RATE_LIMIT_MAX deben ser positivos")
	}
	return nil
}

// EsProduccion indica si el ambiente es producción
func (c Config) EsProduccion() bool {
	return c.App.Environment == "production"
}
