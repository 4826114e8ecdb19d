package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Docs Handlers
// ============================================================

const openAPIPath = "/docs/openapi.yaml"

//go:embed openapi.yaml
var openAPISpec []byte

// swaggerPage подключает Swagger UI с CDN и сразу разрешает пробные запросы
// к сессиям и стейтлесс-эндпоинтам.
const swaggerPage = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Plan Editor: sessions, snapping, wall topology</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="editor-api"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
  SwaggerUIBundle({
    url: '` + openAPIPath + `',
    dom_id: '#editor-api',
    deepLinking: true,
    tryItOutEnabled: true,
    docExpansion: 'list',
  });
</script>
</body>
</html>`

func RegisterDocs(r fiber.Router) {
	r.Get(openAPIPath, OpenAPISpec)
	r.Get("/docs", SwaggerUI)
}

// OpenAPISpec отдаёт встроенный в бинарник OpenAPI документ редактора.
func OpenAPISpec(c fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Type("yaml")
	return c.Send(openAPISpec)
}

func SwaggerUI(c fiber.Ctx) error {
	c.Type("html")
	return c.SendString(swaggerPage)
}
