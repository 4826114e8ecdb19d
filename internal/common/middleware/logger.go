package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет строку на каждый запрос, кроме путей с префиксами quiet
// (пробы здоровья опрашиваются слишком часто). Ошибка обработчика попадает
// в конец строки.
func Logger(quiet ...string) fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c fiber.Ctx) bool {
			return hasAnyPrefix(c.Path(), quiet)
		},
		Format:     "[${time}] [HTTP] ${method} ${path} -> ${status} in ${latency} ${error}\n",
		TimeFormat: "15:04:05.000",
		TimeZone:   "Local",
	})
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
