package utils

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"go.uber.org/zap"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/logger"
)

// RunAsync запуск fn в горутине, паника пишется в лог и не роняет процесс
func RunAsync(ctx context.Context, fn func()) {
	go func() {
		defer Recover(ctx)
		fn()
	}()
}

// Recover вызывается через defer
func Recover(ctx context.Context) bool {
	recoverErr := recover()
	if recoverErr == nil {
		return false
	}

	pc, file, line, _ := runtime.Caller(2)
	logger.Error(ctx, fmt.Sprintf("Recovered panic: %v", recoverErr),
		zap.String("file", file),
		zap.Int("line", line),
		zap.String("function", runtime.FuncForPC(pc).Name()),
		zap.String("debug stack", string(debug.Stack())))

	return true
}
