package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Docs Handlers
// ============================================================

//go:embed docs/openapi.yaml
var openAPISpec []byte

// OpenAPISpec отдаёт OpenAPI YAML сервиса экспорта.
func OpenAPISpec(c fiber.Ctx) error {
	c.Type("yaml")
	return c.Send(openAPISpec)
}

// SwaggerUI отдаёт страницу Swagger UI, читающую spec из specURL.
func SwaggerUI(specURL string) fiber.Handler {
	page := `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Design Export Service</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '` + specURL + `',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`

	return func(c fiber.Ctx) error {
		c.Type("html")
		return c.SendString(page)
	}
}
