// Package api serves the focusos REST endpoints over gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/sadopc/focusos/internal/identity"
	"github.com/sadopc/focusos/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Server is the focusos HTTP server.
type Server struct {
	store    *store.Store
	verifier identity.Verifier
	logger   *log.Logger
	origins  map[string]bool
	router   *gin.Engine
}

type Options struct {
	Store          *store.Store
	Verifier       identity.Verifier
	Logger         *log.Logger
	AllowedOrigins []string
}

// NewServer wires middleware and routes.
func NewServer(opts Options) *Server {
	router := gin.New()

	s := &Server{
		store:    opts.Store,
		verifier: opts.Verifier,
		logger:   opts.Logger,
		origins:  make(map[string]bool, len(opts.AllowedOrigins)),
		router:   router,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	for _, o := range opts.AllowedOrigins {
		s.origins[o] = true
	}

	router.Use(s.requestID(), s.logRequests(), s.recovery(), s.cors())

	router.GET("/health", s.handleHealth)

	authed := router.Group("/", s.requireUser(), s.provisionUser())
	{
		authed.GET("/tasks", s.handleListTasks)
		authed.POST("/tasks", s.handleCreateTask)
		authed.PATCH("/tasks/:id", s.handleToggleTask)
		authed.PATCH("/tasks/:id/complete", s.handleCompleteTask)
		authed.DELETE("/tasks/:id", s.handleDeleteTask)

		authed.POST("/sessions/start", s.handleStartSession)
		authed.GET("/sessions/active", s.handleActiveSession)
		authed.POST("/sessions/end", s.handleEndSession)
		authed.POST("/sessions/reflect", s.handleReflect)
		authed.GET("/sessions/recent", s.handleRecentSessions)

		authed.GET("/analytics/summary", s.handleSummary)
		authed.GET("/analytics/daily", s.handleDaily)
		authed.GET("/analytics/streak", s.handleStreak)
		authed.GET("/analytics/clarity", s.handleClarity)
		authed.GET("/analytics/weekly", s.handleWeekly)

		authed.GET("/me", s.handleGetProfile)
		authed.PATCH("/me", s.handleUpdateProfile)
		authed.GET("/settings", s.handleGetSettings)
		authed.PATCH("/settings", s.handleUpdateSettings)

		authed.GET("/export", s.handleExport)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
