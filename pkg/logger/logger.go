// Package logger контекстный логгер сервиса поверх zap
package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// до SetupDefaultLogger логи не пишутся
var (
	defaultLogger = New(zap.NewNop())
	level         = zap.NewAtomicLevelAt(zap.InfoLevel)
)

type Engine struct {
	*zap.Logger
}

func SetupDefaultLogger(namespace string, options ...ConfigOption) error {
	logger, err := initLogger(options...)
	if err != nil {
		return err
	}
	defaultLogger = New(logger.Named(namespace))

	return nil
}

func Logger(ctx context.Context) *Engine {
	return defaultLogger.WithContext(ctx)
}

func New(logger *zap.Logger) *Engine {
	return &Engine{
		Logger: logger,
	}
}

func (l *Engine) SetLevel(lvl zapcore.Level) {
	level.SetLevel(lvl)
}

// WithContext добавляет поля, сохраненные в контексте через SetFieldCtx
func (l *Engine) WithContext(ctx context.Context) *Engine {
	if ctx == nil {
		return l
	}

	logger := l.Logger

	mtx.RLock()
	for field := range logKeys {
		fieldName := string(field)
		fieldNameParts := strings.Split(fieldName, ".")
		fieldName = fieldNameParts[len(fieldNameParts)-1]

		if value, ok := ctx.Value(field).(string); ok && value != "" {
			logger = logger.With(zap.String(fieldName, value))
		}
	}
	mtx.RUnlock()

	return &Engine{Logger: logger}
}

func initLogger(options ...ConfigOption) (*zap.Logger, error) {
	level.SetLevel(zap.InfoLevel)
	config := zap.NewProductionConfig()
	config.Level = level
	config.Sampling = &zap.SamplingConfig{
		Initial:    1000,
		Thereafter: 10,
	}

	for _, opt := range options {
		config = opt(config)
	}

	return config.Build()
}
