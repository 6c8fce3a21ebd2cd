package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/lizet96/citas-backend/config"
)

// RateLimitConfig configuración para rate limiting
type RateLimitConfig struct {
	Max        int           // Número máximo de requests
	Expiration time.Duration // Ventana de tiempo
	Message    string        // Mensaje de error personalizado

	// Clave agrupa las peticiones que comparten cupo; por defecto la IP
	Clave func(c *fiber.Ctx) string
}

// GeneralRateLimit límite para toda la API, por IP
func GeneralRateLimit(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		Message:    "Demasiadas peticiones, intenta más tarde",
	}
}

// AuthRateLimit límite para registro y login. Cada ruta lleva su propio
// contador por IP: los intentos de login no consumen el cupo de registro.
func AuthRateLimit(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		Max:        cfg.AuthMax,
		Expiration: cfg.AuthExpiration,
		Message:    "Demasiados intentos de autenticación, intenta más tarde",
		Clave: func(c *fiber.Ctx) string {
			return c.IP() + " " + c.Path()
		},
	}
}

// CreateRateLimiter crea un middleware de rate limiting con la configuración especificada
func CreateRateLimiter(cfg RateLimitConfig) fiber.Handler {
	clave := cfg.Clave
	if clave == nil {
		clave = func(c *fiber.Ctx) string { return c.IP() }
	}
	return limiter.New(limiter.Config{
		Max:          cfg.Max,
		Expiration:   cfg.Expiration,
		KeyGenerator: clave,
		LimitReached: func(c *fiber.Ctx) error {
			return fallarLimite(c, fiber.StatusTooManyRequests, fiber.Map{
				"message":     cfg.Message,
				"retry_after": int(cfg.Expiration.Seconds()),
			})
		},
	})
}

// BodySizeLimit rechaza cuerpos mayores a maxSize bytes
func BodySizeLimit(maxSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(c.Body()) > maxSize {
			return fallarLimite(c, fiber.StatusRequestEntityTooLarge, fiber.Map{
				"message":  "El tamaño de la petición excede el límite permitido",
				"max_size": maxSize,
			})
		}
		return c.Next()
	}
}

// SecurityHeaders middleware para agregar headers de seguridad
func SecurityHeaders() fiber.Handler {
	cabeceras := [][2]string{
		{fiber.HeaderXContentTypeOptions, "nosniff"},
		{fiber.HeaderXFrameOptions, "DENY"},
		{fiber.HeaderReferrerPolicy, "strict-origin-when-cross-origin"},
		{fiber.HeaderContentSecurityPolicy, "default-src 'self'"},
		{fiber.HeaderStrictTransportSecurity, "max-age=31536000; includeSubDomains"},
	}
	return func(c *fiber.Ctx) error {
		for _, h := range cabeceras {
			c.Set(h[0], h[1])
		}
		return c.Next()
	}
}

func fallarLimite(c *fiber.Ctx, status int, datos fiber.Map) error {
	datos["error"] = true
	return c.Status(status).JSON(datos)
}
