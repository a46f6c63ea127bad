package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nicopkrauss/talenttracker/config"
	"github.com/nicopkrauss/talenttracker/notify"
	"github.com/nicopkrauss/talenttracker/persistence"
	"github.com/nicopkrauss/talenttracker/shift"
	"github.com/nicopkrauss/talenttracker/web/handlers/timecard"
	"github.com/nicopkrauss/talenttracker/web/middlewares"
)

func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

func dbLogLevel(s string) persistence.LogLevel {
	switch s {
	case "silent":
		return persistence.LogLevelSilent
	case "error":
		return persistence.LogLevelError
	case "info":
		return persistence.LogLevelInfo
	default:
		return persistence.LogLevelWarn
	}
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	if param := os.Getenv("TT_CONFIG_SSM_PARAM"); param != "" {
		return config.LoadFromSSM(ctx, param)
	}
	return config.Load(os.Getenv("TT_CONFIG"))
}

func main() {
	ctx := context.Background()

	cfg, err := loadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := persistence.Open(cfg.Database.DSN, cfg.Database.MaxConns, dbLogLevel(cfg.Database.LogLevel))
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.Auth.Base64Secret)
	if err != nil {
		logger.Fatal("failed to decode JWT secret", zap.Error(err))
	}

	clock := shift.SystemClock()

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	protected := r.Group("/api/timecard/v1.0")
	protected.Use(middlewares.Authentication(jwtSecret))
	timecard.Register(protected, db, cfg, clock, logger)

	if cfg.Slack.Token != "" && cfg.Slack.AlertChannelID != "" {
		notifier := notify.NewSlackNotifier(cfg.Slack.Token, cfg.Slack.AlertChannelID)
		watcher := notify.NewOvertimeWatcher(db, cfg, clock, notifier, logger, time.Minute)
		go watcher.Run(ctx)
		logger.Info("overtime watcher running", zap.String("channel", cfg.Slack.AlertChannelID))
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
