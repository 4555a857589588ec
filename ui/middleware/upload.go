package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is allowed on top of the file limit for form fields and
// part headers
const multipartOverhead = 1 << 20

// LimitUploads caps request bodies so an oversized upload fails while it is
// being parsed instead of after it has been buffered
func LimitUploads(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && c.Request.Method != http.MethodGet {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
		}
		c.Next()
	}
}
