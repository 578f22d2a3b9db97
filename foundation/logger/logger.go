// Package logger provides a convenience function to constructing a logger
// for use. This is required not just for applications but for testing.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// File describes an optional rotated log file written alongside stdout.
type File struct {
	Path       string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// New constructs a Sugared Logger that writes to stdout and
// provides human readable timestamps.
func New(service string) (*zap.SugaredLogger, error) {
	return NewWithFile(service, File{})
}

// NewWithFile constructs a Sugared Logger that writes to stdout and, when a
// path is provided, also to a file rotated by size and age.
func NewWithFile(service string, file File, outputPaths ...string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()

	config.OutputPaths = []string{"stdout"}
	if outputPaths != nil {
		config.OutputPaths = outputPaths
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]any{
		"service": service,
	}

	var opts []zap.Option
	if file.Path != "" {
		rotate := lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxAge:     file.MaxAgeDays,
			MaxBackups: file.MaxBackups,
		}

		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(config.EncoderConfig),
			zapcore.AddSync(&rotate),
			config.Level,
		).With([]zapcore.Field{zap.String("service", service)})

		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	log, err := config.Build(opts...)
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}
