package origin

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	g := NewGate([]string{"https://portal.example", "http://localhost:3000"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin header is allowed", "", true},
		{"listed origin is allowed", "https://portal.example", true},
		{"second listed origin is allowed", "http://localhost:3000", true},
		{"unlisted origin is denied", "https://evil.example", false},
		{"scheme mismatch is denied", "http://portal.example", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Authorize(tc.origin))
		})
	}
}

func newGateRouter(g *Gate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(g.Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func TestMiddleware_DeniedOriginNamesAllowList(t *testing.T) {
	g := NewGate([]string{"https://portal.example"})

	apitest.New().
		Handler(newGateRouter(g)).
		Get("/ping").
		Header("Origin", "https://evil.example").
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal(`$.origin`, "https://evil.example")).
		Assert(jsonpath.Contains(`$.allowedOrigins`, "https://portal.example")).
		End()
}

func TestMiddleware_NoOriginPassesThrough(t *testing.T) {
	g := NewGate([]string{"https://portal.example"})

	apitest.New().
		Handler(newGateRouter(g)).
		Get("/ping").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.message`, "pong")).
		End()
}

func TestMiddleware_ListedOriginPassesThrough(t *testing.T) {
	g := NewGate([]string{"https://portal.example"})

	apitest.New().
		Handler(newGateRouter(g)).
		Get("/ping").
		Header("Origin", "https://portal.example").
		Expect(t).
		Status(http.StatusOK).
		End()
}
