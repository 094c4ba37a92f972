package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"assessly-backend/utilities"
)

// maxDumpBody caps how much of a body is logged.
const maxDumpBody = 4 << 10

var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

// RequestDumpMiddleware logs every request at debug level. Credentials in
// headers and JSON bodies of /auth routes are not logged.
func RequestDumpMiddleware(log *utilities.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		body := string(bodyBytes)
		if strings.HasPrefix(c.Request.URL.Path, "/auth") {
			body = "[redacted]"
		} else if len(body) > maxDumpBody {
			body = body[:maxDumpBody] + "...(truncated)"
		}

		log.Debug("request",
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
			"headers", dumpHeaders(c.Request.Header),
			"params", c.Params,
			"body", body,
		)

		c.Next()
	}
}

func dumpHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if redactedHeaders[k] {
			out[k] = "[redacted]"
			continue
		}
		out[k] = strings.Join(v, ",")
	}
	return out
}
