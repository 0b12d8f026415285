package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed docs/openapi.json
var openAPISpec []byte

const scalarPage = `<!doctype html>
<html>
  <head>
    <title>Student Gifts API</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
    <script id="api-reference" data-url="/api/v1/openapi"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>`

// GET /api/v1/openapi
func OpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", openAPISpec)
}

// GET /api/v1/docs
func Docs(c *gin.Context) {
	c.Header("Content-Security-Policy", "default-src 'self' https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; font-src * data:; img-src * data:")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(scalarPage))
}
