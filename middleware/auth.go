package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lizet96/citas-backend/config"
	"github.com/lizet96/citas-backend/sesion"
)

// Claves de c.Locals que deja JWTMiddleware
const (
	LocalUsuarioID = "user_id"
	LocalRol       = "user_role"
)

// Claims personalizados para el JWT
type Claims struct {
	UserID int    `json:"user_id"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

// Autenticador firma y valida los tokens JWT
type Autenticador struct {
	secreto []byte
	ttl     time.Duration
	emisor  string
}

func NuevoAutenticador(cfg config.AuthConfig) *Autenticador {
	return &Autenticador{
		secreto: []byte(cfg.JWTSecret),
		ttl:     cfg.TokenTTL,
		emisor:  cfg.Issuer,
	}
}

// TTL retorna la vigencia de los tokens emitidos
func (a *Autenticador) TTL() time.Duration {
	return a.ttl
}

// GenerateJWT genera un token JWT para un usuario
func (a *Autenticador) GenerateJWT(userID int, rol string) (string, error) {
	ahora := time.Now()
	claims := Claims{
		UserID: userID,
		Rol:    rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.emisor,
			ExpiresAt: jwt.NewNumericDate(ahora.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(ahora),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secreto)
}

func (a *Autenticador) validar(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secreto, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims inválidos")
	}
	return claims, nil
}

// JWTMiddleware valida el token y deja el usuario en c.Locals y en el
// contexto de usuario, de donde lo leen los servicios.
func (a *Autenticador) JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token de autorización requerido",
			})
		}

		// Verificar que el token tenga el formato "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Formato de token inválido",
			})
		}

		claims, err := a.validar(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token inválido",
			})
		}

		c.Locals(LocalUsuarioID, claims.UserID)
		c.Locals(LocalRol, claims.Rol)
		ctx := sesion.ConUsuario(c.UserContext(), claims.UserID)
		c.SetUserContext(sesion.ConRol(ctx, claims.Rol))

		return c.Next()
	}
}

// RequireRole middleware para requerir un rol específico
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rol, ok := c.Locals(LocalRol).(string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Rol de usuario no encontrado",
			})
		}

		for _, permitido := range allowedRoles {
			if rol == permitido {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Acceso denegado: permisos insuficientes",
		})
	}
}
