// Package httpapi exposes the portal's credential operations over HTTP.
// Requests pass the origin gate and (on credential routes) the rate limiter
// before reaching a handler; protected routes additionally require a valid
// bearer token.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lmwansa/studentportal/internal/logging"
	"github.com/lmwansa/studentportal/internal/server/origin"
	"github.com/lmwansa/studentportal/internal/server/ratelimit"
	"github.com/lmwansa/studentportal/internal/server/services"
)

// authRouteGroup is the limiter key for the credential routes; they share
// one fixed window per client.
const authRouteGroup = "auth"

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	logger  logging.Logger
	auth    *services.AuthService
	limiter *ratelimit.Limiter
	gate    *origin.Gate
}

func NewServer(address string, l logging.Logger, auth *services.AuthService, limiter *ratelimit.Limiter, gate *origin.Gate) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "httpapi"),
		auth:    auth,
		limiter: limiter,
		gate:    gate,
	}
}

// Router assembles the gin engine: recovery, origin gate, CORS, then routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(s.gate.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.gate.Origins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", s.handleHealth)

	limited := router.Group("/", s.limiter.Middleware(authRouteGroup))
	{
		limited.POST("/signup", s.handleSignup)
		limited.POST("/login", s.handleLogin)
		limited.POST("/change-password", s.handleChangePassword)
	}

	router.GET("/validate-token", s.RequireAuth(), s.handleValidateToken)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
