// Package origin enforces the allow-list of permitted request origins in
// front of the CORS layer.
package origin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Gate holds the fixed set of permitted origins, loaded once at process
// start and immutable afterwards.
type Gate struct {
	allowed map[string]struct{}
	list    []string
}

// NewGate builds a Gate from the configured origin strings.
func NewGate(origins []string) *Gate {
	allowed := make(map[string]struct{}, len(origins))
	list := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "" {
			continue
		}
		allowed[o] = struct{}{}
		list = append(list, o)
	}
	return &Gate{allowed: allowed, list: list}
}

// Authorize reports whether a request with the given Origin header may
// proceed. An empty origin is allowed: the allow-list constrains
// browser-based cross-origin access, not non-browser clients.
func (g *Gate) Authorize(origin string) bool {
	if origin == "" {
		return true
	}
	_, ok := g.allowed[origin]
	return ok
}

// Origins returns the configured allow-list.
func (g *Gate) Origins() []string {
	return g.list
}

// Middleware returns a gin handler that rejects unlisted origins before any
// route logic runs. The denial names the offending origin and the configured
// allow-list; the verbosity is intentional, operators debugging a blocked
// frontend need both values.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.GetHeader("Origin")
		if g.Authorize(requestOrigin) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":        "Origin not allowed",
			"origin":         requestOrigin,
			"allowedOrigins": g.list,
		})
	}
}
