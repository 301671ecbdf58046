package middleware

import (
	"net/http"
	"strconv"

	"campuschat/internal/auth"
	chat_redis "campuschat/internal/redis"
	"campuschat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// MessageRateLimitMiddleware limits message posts per sender. Applied to
// the REST send endpoint after auth; anonymous senders are keyed by IP.
func MessageRateLimitMiddleware(limiter *chat_redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		senderKey := c.ClientIP()
		if claims, ok := ClaimsFromGin(c); ok {
			senderKey = claims.UserID
		}

		result, err := limiter.AllowMessage(c.Request.Context(), senderKey)
		if err != nil {
			// Limiter failure must not take down the send path.
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("message rate limit exceeded", "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *chat_redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}

// ClaimsFromGin returns the access claims set by AuthMiddleware, if any.
func ClaimsFromGin(c *gin.Context) (auth.AccessClaims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return auth.AccessClaims{}, false
	}
	claims, ok := v.(auth.AccessClaims)
	return claims, ok
}
