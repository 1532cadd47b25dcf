package middleware

import (
	"strings"

	"github.com/gamassss/slinkr/internal/logger"
	"github.com/gamassss/slinkr/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	authCookie      = "auth-token"
	subjectKey      = "subject"
	bearerPrefix    = "Bearer "
	unauthorizedMsg = "Unauthorized"
)

// Auth accepts an HS256 token from the Authorization header or the
// auth-token cookie. Issuing tokens is left to whatever signs users in.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			response.Unauthorized(c, unauthorizedMsg)
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			logger.FromContext(c.Request.Context()).Warn("rejected token", "error", err)
			response.Unauthorized(c, unauthorizedMsg)
			return
		}

		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}

// Subject returns the authenticated token subject set by Auth.
func Subject(c *gin.Context) string {
	return c.GetString(subjectKey)
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}

	if cookie, err := c.Cookie(authCookie); err == nil {
		return cookie
	}

	return ""
}
