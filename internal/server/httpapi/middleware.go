package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextSubjectKey is the gin context key holding the authenticated
// subject id after RequireAuth has run.
const ContextSubjectKey = "auth.subject"

const bearerPrefix = "Bearer "

// RequireAuth extracts and verifies the bearer token before allowing access
// to protected routes. All failure kinds (missing, malformed, bad signature,
// expired) collapse to one 401 response; the specific kind only reaches the
// log.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid token"})
			return
		}

		subject, err := s.auth.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			s.logger.Info(c.Request.Context(), "token rejected", "reason", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid token"})
			return
		}

		c.Set(ContextSubjectKey, subject)
		c.Next()
	}
}
