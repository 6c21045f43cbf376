package logger

import (
	"context"

	"go.uber.org/zap"
)

func caller(ctx context.Context) *zap.Logger {
	return Logger(ctx).WithOptions(zap.AddCallerSkip(1))
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	caller(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	caller(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	caller(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	caller(ctx).Error(msg, fields...)
}
