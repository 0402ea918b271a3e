package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rlch/typemock"
)

// sourceEnv names the environment variable holding the default source file.
const sourceEnv = "TYPEMOCK_SOURCE"

// loadConfig loads an explicit config file, or the nearest one above the
// working directory. A missing config is not an error.
func loadConfig(path string) (*typemock.Config, error) {
	if path != "" {
		cfg, err := typemock.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}

		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}

	cfg, err := typemock.LoadConfig(cwd)
	if errors.Is(err, typemock.ErrConfigNotFound) {
		return &typemock.Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// newLogger builds the development logger used across commands, writing to
// errw and, when cfg.File is set, to a rotating log file.
func newLogger(cfg typemock.LogConfig, debug bool, errw io.Writer) (*zap.Logger, func() error, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}

		config.Level = zap.NewAtomicLevelAt(level)
	}

	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config.EncoderConfig),
		zapcore.AddSync(errw),
		config.Level,
	)

	closeLog := func() error { return nil }

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}

		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			config.Level,
		)

		core = zapcore.NewTee(core, fileCore)
		closeLog = rotator.Close
	}

	return zap.New(core, zap.Development(), zap.AddCaller()), closeLog, nil
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
