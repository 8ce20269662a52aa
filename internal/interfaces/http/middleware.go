package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Locals keys y cabeceras usadas por los middlewares.
const (
	LocalRequestID = "request_id"
	LocalOperator  = "operator"

	HeaderRequestID = "X-Request-ID"
	HeaderOperator  = "X-Operator"
)

// RequestID asigna un ID (uuid) a cada petición, respetando el que venga en X-Request-ID.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(strings.TrimSpace(c.Get(HeaderRequestID)))
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// Operator guarda en c.Locals el nombre del operador enviado en X-Operator (opcional).
// No autentica: solo alimenta created_by de los cargos. El valor se copia porque c.Get
// apunta al buffer de la petición, que fasthttp reutiliza.
func Operator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if op := strings.TrimSpace(c.Get(HeaderOperator)); op != "" {
			c.Locals(LocalOperator, utils.CopyString(op))
		}
		return c.Next()
	}
}

// AccessLog registra método, ruta, estado y latencia de cada petición.
func AccessLog(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición HTTP")
		return err
	}
}

// GetRequestID devuelve el ID de la petición (después de RequestID).
func GetRequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}

// GetOperator devuelve el operador de X-Operator (después de Operator), o "".
func GetOperator(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalOperator).(string)
	return s
}
