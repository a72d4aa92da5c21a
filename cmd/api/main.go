package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/terraflow/scm-backend/internal/config"
	"github.com/terraflow/scm-backend/internal/db"
	"github.com/terraflow/scm-backend/internal/model"
	"github.com/terraflow/scm-backend/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect error", zap.Error(err))
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.MaterialRequest{},
		&model.Order{},
		&model.Notification{},
	); err != nil {
		logger.Fatal("auto migrate error", zap.Error(err))
	}

	srv := server.New(conn, cfg.JWTSecret, logger)

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
