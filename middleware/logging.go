package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/lizet96/citas-backend/models"
	"github.com/lizet96/citas-backend/repository"
)

// tiempo máximo para guardar un registro en la bitácora
const timeoutBitacora = 5 * time.Second

// LoggingMiddleware captura y registra todas las peticiones HTTP
func LoggingMiddleware(b repository.Bitacora, ambiente string, log *slog.Logger) fiber.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Continuar con la petición
		err := c.Next()

		duracion := int(time.Since(start).Milliseconds())
		entrada := createLogEntry(c, ambiente, duracion)

		// Guardar de forma asíncrona
		go saveLog(b, entrada, log)

		return err
	}
}

// createLogEntry crea una entrada de log basada en la petición. Los valores
// de fiber se copian porque la entrada se usa fuera del handler.
func createLogEntry(c *fiber.Ctx, ambiente string, duracion int) models.RegistroPeticion {
	var usuarioID *int
	if id, ok := c.Locals(LocalUsuarioID).(int); ok {
		usuarioID = &id
	}
	var rol *string
	if r, ok := c.Locals(LocalRol).(string); ok {
		rol = &r
	}

	// Obtener IP real del cliente
	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		ip = realIP
	}

	var userAgent *string
	if ua := c.Get(fiber.HeaderUserAgent); ua != "" {
		ua = utils.CopyString(ua)
		userAgent = &ua
	}

	// body solo para métodos con cuerpo
	var body *string
	if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut || c.Method() == fiber.MethodPatch {
		if b := string(c.Body()); b != "" {
			b = filterSensitiveData(b)
			body = &b
		}
	}

	var params *string
	if todos := c.AllParams(); len(todos) > 0 {
		paramsJSON, _ := json.Marshal(todos)
		p := string(paramsJSON)
		params = &p
	}

	var query *string
	if q := string(c.Request().URI().QueryString()); q != "" {
		query = &q
	}

	var url *string
	if u := c.OriginalURL(); u != "" {
		u = utils.CopyString(u)
		url = &u
	}

	if ambiente == "" {
		ambiente = models.EnvironmentDevelopment
	}
	pid := os.Getpid()
	status := c.Response().StatusCode()

	return models.RegistroPeticion{
		RequestID:  utils.CopyString(c.GetRespHeader(fiber.HeaderXRequestID)),
		Metodo:     utils.CopyString(c.Method()),
		Ruta:       utils.CopyString(c.Path()),
		StatusCode: status,
		DuracionMs: &duracion,
		UserAgent:  userAgent,
		IP:         utils.CopyString(ip),
		Body:       body,
		Params:     params,
		Query:      query,
		UsuarioID:  usuarioID,
		Rol:        rol,
		Nivel:      determineLogLevel(status),
		Ambiente:   ambiente,
		PID:        &pid,
		URL:        url,
		Fecha:      time.Now(),
	}
}

// filterSensitiveData filtra información sensible del body
func filterSensitiveData(body string) string {
	sensitiveFields := []string{"password", "mfa_code", "secret", "token", "code"}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		// Si no es JSON válido, retornar truncado
		if len(body) > 1000 {
			return body[:1000] + "...[truncated]"
		}
		return body
	}

	for _, field := range sensitiveFields {
		if _, exists := data[field]; exists {
			data[field] = "[FILTERED]"
		}
	}

	filteredJSON, _ := json.Marshal(data)
	filteredBody := string(filteredJSON)

	if len(filteredBody) > 1000 {
		return filteredBody[:1000] + "...[truncated]"
	}

	return filteredBody
}

// determineLogLevel determina el nivel de log basado en el status code
func determineLogLevel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return models.LogLevelSuccess
	case statusCode >= 300 && statusCode < 400:
		return models.LogLevelInfo
	case statusCode >= 400 && statusCode < 500:
		return models.LogLevelWarning
	case statusCode >= 500:
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}

func saveLog(b repository.Bitacora, entrada models.RegistroPeticion, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeoutBitacora)
	defer cancel()
	if err := b.Registrar(ctx, entrada); err != nil {
		log.Error("Error guardando log", "request_id", entrada.RequestID, "error", err)
	}
}

// LogCustomEvent registra un evento que no corresponde a una petición HTTP
func LogCustomEvent(b repository.Bitacora, ambiente, nivel, mensaje string, usuarioID *int, datos map[string]interface{}, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	if datos == nil {
		datos = map[string]interface{}{}
	}
	datos["message"] = mensaje
	bodyJSON, _ := json.Marshal(datos)
	body := string(bodyJSON)
	pid := os.Getpid()

	entrada := models.RegistroPeticion{
		Metodo:     "CUSTOM",
		Ruta:       "/custom-event",
		StatusCode: fiber.StatusOK,
		IP:         "127.0.0.1",
		Body:       &body,
		UsuarioID:  usuarioID,
		Nivel:      nivel,
		Ambiente:   ambiente,
		PID:        &pid,
		Fecha:      time.Now(),
	}

	go saveLog(b, entrada, log)
}
