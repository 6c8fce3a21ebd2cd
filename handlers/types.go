package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type BodyResponse struct {
	IntCode string        `json:"intCode"`
	Data    []interface{} `json:"data"`
}

type StandardResponse struct {
	StatusCode int          `json:"statusCode"`
	Body       BodyResponse `json:"body"`
}

// responder escribe la respuesta estándar con el código interno indicado
func responder(c *fiber.Ctx, status int, intCode string, data ...interface{}) error {
	if data == nil {
		data = []interface{}{}
	}
	return c.Status(status).JSON(StandardResponse{
		StatusCode: status,
		Body: BodyResponse{
			IntCode: intCode,
			Data:    data,
		},
	})
}

// fallar responde con un único mensaje de error
func fallar(c *fiber.Ctx, status int, intCode, mensaje string) error {
	return responder(c, status, intCode, fiber.Map{"error": mensaje})
}
