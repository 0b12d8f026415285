package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/gin-gonic/gin"
)

const errInternalServer = "Internal server error"

type ErrorResponse struct {
	Error  string         `json:"error"`
	Issues []domain.Issue `json:"issues,omitempty"`
}

// Errors turns the last error pushed with c.Error into a JSON response.
// Handlers return right after c.Error and never write failures themselves.
func Errors(logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "http_errors")

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status, body := Status(err)

		attrs := []any{"status", status, "path", c.FullPath(), "error", err}
		if de, ok := domain.AsError(err); ok {
			attrs = append(attrs, "kind", de.Kind(), "context", de.Context)
			if d, ok := de.Service(); ok {
				attrs = append(attrs, "service", d.ServiceName, "system", d.System, "value", d.Value)
			}
			if d, ok := de.NotFound(); ok {
				attrs = append(attrs, "query", d.Query, "system", d.System)
			}
		}
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "request failed", attrs...)
		} else {
			logger.InfoContext(c.Request.Context(), "request rejected", attrs...)
		}

		if !c.Writer.Written() {
			c.JSON(status, body)
		}
	}
}

// Status maps an error to its HTTP status and client-facing body. External
// service failures hide their message.
func Status(err error) (int, ErrorResponse) {
	var body ErrorResponse
	status := domain.Match(err, domain.Matcher[int]{
		EntityNotFound: func(e *domain.Error, _ domain.NotFoundDetails) int {
			body = ErrorResponse{Error: e.Message}
			return http.StatusBadRequest
		},
		Validation: func(e *domain.Error, d domain.ValidationDetails) int {
			body = ErrorResponse{Error: e.Message, Issues: d.Issues}
			return http.StatusBadRequest
		},
		Service: func(e *domain.Error, d domain.ServiceDetails) int {
			body = ErrorResponse{Error: e.Message}
			switch {
			case d.Reason == domain.ReasonInvalidToken, d.Reason == domain.ReasonInvalidOrMissingToken:
				return http.StatusUnauthorized
			case d.Type == domain.ServiceExternal:
				body = ErrorResponse{Error: errInternalServer}
			}
			return http.StatusInternalServerError
		},
		Unknown: func(error) int {
			body = ErrorResponse{Error: errInternalServer}
			return http.StatusInternalServerError
		},
	})
	return status, body
}
