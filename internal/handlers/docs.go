package handlers

import (
	_ "embed"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Paths serving the API documentation.
const (
	OpenAPIPath = "/openapi"
	SwaggerPath = "/swagger"
)

// swaggerUIVersion pins the Swagger UI assets loaded by the docs page.
const swaggerUIVersion = "5.10.3"

//go:embed openapi/documentation.yaml
var openAPIDocument []byte

// RegisterDocsRoutes serves the OpenAPI document and a Swagger UI page for it.
func RegisterDocsRoutes(router fiber.Router) {
	router.Get(OpenAPIPath, func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(openAPIDocument)
	})
	router.Get(SwaggerPath, func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(swaggerPage)
	})
}

var swaggerPage = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Task API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@%[1]s/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@%[1]s/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: "%[2]s", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`, swaggerUIVersion, OpenAPIPath)

// isDocsPath reports whether a request targets the documentation, which the
// access log skips.
func isDocsPath(path string) bool {
	return path == OpenAPIPath || path == SwaggerPath
}
