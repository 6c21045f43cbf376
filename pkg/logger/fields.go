package logger

import (
	"context"
	"sync"
)

const (
	requestIDField = "request-id"
	sessionIDField = "session-id"
	packageIDField = "package-id"
)

// постоянные поля процесса, задаются через WithCustomField
const (
	ServiceIDKey      = "service-id"
	ServiceVersionKey = "service-version"
	HashCommitKey     = "hash-commit"
)

var (
	logKeys = make(map[key]struct{})
	mtx     sync.RWMutex
)

type key string

func SetFieldCtx(ctx context.Context, name, val string) context.Context {
	nameKey := key("logger." + name)

	mtx.RLock()
	_, ok := logKeys[nameKey]
	mtx.RUnlock()

	if !ok {
		mtx.Lock()
		logKeys[nameKey] = struct{}{}
		mtx.Unlock()
	}

	return context.WithValue(ctx, nameKey, val)
}

func GetFieldCtx(ctx context.Context, name string) string {
	val, _ := ctx.Value(key("logger." + name)).(string)

	return val
}

// SetRequestIDCtx задает поле request-id. Для http обычно хватает HTTPMiddleware.
func SetRequestIDCtx(ctx context.Context, val string) context.Context {
	return SetFieldCtx(ctx, requestIDField, val)
}

func GetRequestIDCtx(ctx context.Context) string {
	return GetFieldCtx(ctx, requestIDField)
}

func SetSessionIDCtx(ctx context.Context, val string) context.Context {
	return SetFieldCtx(ctx, sessionIDField, val)
}

func SetPackageIDCtx(ctx context.Context, val string) context.Context {
	return SetFieldCtx(ctx, packageIDField, val)
}

func GetPackageIDCtx(ctx context.Context) string {
	return GetFieldCtx(ctx, packageIDField)
}
