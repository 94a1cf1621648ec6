package main

import (
	"fmt"
	"io"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Env holds the flag defaults read from SPECOPS_* environment variables.
type Env struct {
	Tolerance float64 `envconfig:"TOLERANCE" default:"1e-9"`
	LogLevel  string  `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat string  `envconfig:"LOG_FORMAT" default:"console"`
}

func loadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("specops", &env); err != nil {
		return Env{}, fmt.Errorf("failed to load environment: %w", err)
	}
	return env, nil
}

// newLogger builds a zap logger writing to w. format is "console" or "json".
func newLogger(level, format string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch format {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format %q (console, json)", format)
	}

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)), nil
}
