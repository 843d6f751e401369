package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kwehner/pup-planner/internal/config"
	"github.com/kwehner/pup-planner/internal/fooddata"
	"github.com/kwehner/pup-planner/internal/planner"
	"github.com/kwehner/pup-planner/internal/server"
	"github.com/kwehner/pup-planner/internal/store"
	"github.com/kwehner/pup-planner/pkg/compliance"
	"github.com/kwehner/pup-planner/pkg/constants"
)

// version is set at build time via -ldflags.
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	addr := flag.String("addr", "", "listen address override (e.g. :8080)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := store.New(conf.Database.Path, logger)
	if err != nil {
		logger.Fatal("failed to open database",
			zap.String("op", "main"),
			zap.String("path", conf.Database.Path),
			zap.Error(err),
		)
	}
	defer func() {
		_ = st.Close()
	}()

	if conf.Database.Seed {
		if err := st.Seed(); err != nil {
			logger.Fatal("failed to seed database",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	// Prefer the stored reference table; fall back to the built-in profile
	// when the database has not been seeded.
	evaluator := compliance.NewEvaluator(compliance.DefaultReference())
	if rows, err := st.ReferenceRows(); err != nil {
		logger.Fatal("failed to load reference table",
			zap.String("op", "main"),
			zap.Error(err),
		)
	} else if len(rows) > 0 {
		evaluator = compliance.NewEvaluator(rows)
	}

	engine := planner.NewEngine(logger, evaluator)
	fd := fooddata.NewClient(conf.FoodData.BaseURL, conf.FoodData.APIKey, logger)

	listenAddr := conf.Server.Address
	if *addr != "" {
		listenAddr = *addr
	}

	handler := server.NewHandler(logger, st, engine, fd, version)

	logger.Info("starting server",
		zap.String("op", "main"),
		zap.String("addr", listenAddr),
		zap.String("version", version),
	)

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		logger.Fatal("server exited",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
