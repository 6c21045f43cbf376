// Package s3 сборка клиента объектного хранилища (MinIO) по конфигурации
package s3

import (
	"context"
)

// SessionClientCreator создает клиент по опциям. Подменяется в тестах.
type SessionClientCreator[T, C any] func(options C) (s3Client T, err error)

type IClientS3Builder[T, C any] interface {
	SetConfig(config *ConfigS3) IClientS3Builder[T, C]
	SetSessionNClientCreator(creator SessionClientCreator[T, C]) IClientS3Builder[T, C]
	Build(ctx context.Context) (res *ClientS3Result[T], err error)
}

type ClientS3Result[T any] struct {
	Client   T
	Endpoint string
	Bucket   string
}

type ClientS3Director[T any] interface {
	BuildS3Client(ctx context.Context) (*ClientS3Result[T], error)
}

type BasicS3ClientDirector[T, C any] struct {
	builder IClientS3Builder[T, C]
	config  *ConfigS3
}

func NewBasicS3ClientDirector[T, C any](builder IClientS3Builder[T, C], config *ConfigS3) *BasicS3ClientDirector[T, C] {
	return &BasicS3ClientDirector[T, C]{
		builder: builder,
		config:  config,
	}
}

func (d *BasicS3ClientDirector[T, C]) BuildS3Client(ctx context.Context) (*ClientS3Result[T], error) {
	return d.builder.
		SetConfig(d.config).
		Build(ctx)
}
