// Package server owns process wiring: database setup, the HTTP server and
// its lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/db"
	"github.com/Patilgrv/student-management-api/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	dbPool *pgxpool.Pool
	router http.Handler
}

// New connects to the database, runs migrations and returns a Server ready
// for SetupRouter.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	dbPool, err := s.setupDatabase(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	s.dbPool = dbPool

	return s, nil
}

func (s *Server) setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	s.logger.Info("Setting up database connection and migrations")

	pool, err := db.Init(s.cfg.Database.URL, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if !db.WaitForDB(ctx, pool, s.logger) {
		pool.Close()
		return nil, fmt.Errorf("database is unreachable")
	}

	if err = db.RunMigrations(s.cfg.Database.URL, s.logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.logger.Info("Database setup completed successfully")
	return pool, nil
}

// DBPool exposes the connection pool for router construction.
func (s *Server) DBPool() *pgxpool.Pool {
	return s.dbPool
}

// SetRouter sets the handler served by HTTPServer.
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// HTTPServer creates and configures the HTTP server.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Close releases the database pool.
func (s *Server) Close() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
