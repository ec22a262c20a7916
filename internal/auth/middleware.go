package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// RequireBearer returns a middleware that only lets a request through when its
// Authorization header is "Bearer <secret>".
// Any other request is aborted with 401 and a {success:false,error} body.
//
// Usage:
//
//	r.POST("/upload/", auth.RequireBearer(cfg.Auth.Secret), handler.Upload)
func RequireBearer(secret string) gin.HandlerFunc {
	expected := []byte(secret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			slog.WarnContext(c.Request.Context(), "missing or malformed authorization header",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"auth_header_length", len(authHeader),
			)
			abortUnauthorized(c, "Missing or invalid authorization header")
			return
		}

		token := []byte(authHeader[len(bearerPrefix):])
		if subtle.ConstantTimeCompare(token, expected) != 1 {
			slog.WarnContext(c.Request.Context(), "invalid bearer token",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
			)
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   message,
	})
}
