package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// jwtAuth returns a gin middleware requiring a valid bearer token signed
// with secret. Grounded on the teacher pack's CORS/auth middleware style
// (jengzang-records-backend-go's internal/middleware package) — a plain
// gin.HandlerFunc closure, no framework beyond gin itself.
func jwtAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// correlationID stamps every request with a UUID used to tie together
// the log lines, audit record, and response for one call (SPEC_FULL.md's
// expanded Engine facade).
func correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := newCorrelationID()
		c.Set(correlationIDKey, id)
		c.Header("X-Correlation-Id", id)
		c.Next()
	}
}
