package middleware

import (
	"github.com/ErlanBelekov/student-gifts/internal/requestid"
	"github.com/gin-gonic/gin"
)

// RequestID attaches a request ID to the context and response header. A
// UUID in the incoming X-Request-ID is kept; anything else is replaced.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestid.FromHeader(c.GetHeader(requestid.Header))

		ctx := requestid.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestid.Header, id)
		c.Next()
	}
}
