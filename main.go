package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Patilgrv/student-management-api/internal/pkg/config"
	"github.com/Patilgrv/student-management-api/internal/server"
	"github.com/Patilgrv/student-management-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	if err := logger.Init(zapcore.InfoLevel, zap.String("service", "student-management-api")); err != nil {
		return err
	}
	zlog := logger.Log
	defer func() { _ = zlog.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, zlog)
	if err != nil {
		return err
	}
	defer srv.Close()

	router := server.SetupRouter(srv.DBPool(), cfg, zlog)
	srv.SetRouter(router)

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, zlog, done)

	zlog.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	zlog.Info("Graceful shutdown complete")
	return nil
}
