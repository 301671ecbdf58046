package middleware

import (
	"net/http"
	"strings"

	"campuschat/internal/auth"
	"campuschat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "access_claims"

// AuthMiddleware parses a bearer token when present and stores the
// claims on the context. With required=true, requests without a valid
// token are rejected.
func AuthMiddleware(authSvc *auth.Service, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			if required {
				c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
				c.Abort()
				return
			}
			c.Next()
			return
		}

		claims, err := authSvc.ParseAccessToken(token)
		if err != nil {
			if required {
				c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose claims carry none of the given
// roles. Must run after AuthMiddleware(required=true).
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromGin(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
		c.Abort()
	}
}
