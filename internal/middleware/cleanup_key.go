package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/northstar/dispatch-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// CleanupKeyHeader may carry the cleanup key instead of the key parameter
const CleanupKeyHeader = "X-Cleanup-Key"

// CleanupKey authorizes the web cleanup entry point. The key is read from
// the key query or form parameter, or the X-Cleanup-Key header. An empty
// secret refuses every request.
func CleanupKey(secret string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			key = c.PostForm("key")
		}
		if key == "" {
			key = c.GetHeader(CleanupKeyHeader)
		}

		if secret == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
			logger.WithField("ip", utils.GetRealIP(c)).Warn("Rejected cleanup request with invalid key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
