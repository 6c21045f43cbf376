// Package storage чтение файлов SCORM-пакетов: локальный каталог или бакет S3 (MinIO).
// Пакет лежит в хранилище распакованным: <packageID>/imsmanifest.xml, <packageID>/<href>.
package storage

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/internal/utils"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/s3"
)

const (
	ManifestName = "imsmanifest.xml"

	KindLocal = "local"
	KindS3    = "s3"
)

var (
	ErrNotFound    = errors.New("object not found")
	ErrUnknownKind = errors.New("unknown storage kind")
)

type Storage interface {
	Read(ctx context.Context, path string) (data []byte, mimeType string, err error)
	ReadCloser(ctx context.Context, path string) (io.ReadCloser, error)
	Write(ctx context.Context, path string, data []byte) error
	Close() error
}

type Config struct {
	Kind string `validate:"oneof=local s3"`
	Dir  string `validate:"required_if=Kind local"`
	S3   *s3.ConfigS3
}

// New хранилище по виду из конфигурации
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Kind {
	case KindLocal:
		return NewLocal(cfg.Dir)
	case KindS3:
		if cfg.S3 == nil {
			return nil, errors.Wrap(s3.ErrConfigNotSet, "storage")
		}
		if err := cfg.S3.Validate(); err != nil {
			return nil, err
		}
		return NewMinio(ctx, s3.NewBasicS3ClientDirector(s3.NewClientMinioBuilder(), cfg.S3))
	default:
		return nil, errors.Wrap(ErrUnknownKind, cfg.Kind)
	}
}

// ManifestPath путь манифеста пакета
func ManifestPath(packageID string) string {
	return path.Join(packageID, ManifestName)
}

// PackagePath путь файла внутри пакета. Выход за пределы пакета запрещен.
func PackagePath(packageID, file string) (string, error) {
	if _, err := utils.CleanRelativePath(packageID); err != nil || path.Base(packageID) != packageID {
		return "", errors.Wrapf(utils.ErrUnsafePath, "package %q", packageID)
	}
	clean, err := utils.CleanRelativePath(file)
	if err != nil {
		return "", err
	}

	return path.Join(packageID, clean), nil
}

// FetchManifest полный текст манифеста пакета
func FetchManifest(ctx context.Context, st Storage, packageID string) (data []byte, err error) {
	p, err := PackagePath(packageID, ManifestName)
	if err != nil {
		return nil, err
	}

	reader, err := st.ReadCloser(ctx, p)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch manifest of %s", packageID)
	}
	defer func() {
		err = multierr.Append(err, reader.Close())
	}()

	data, err = io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest of %s", packageID)
	}

	return data, nil
}

// DetectMIME тип по расширению, иначе по содержимому
func DetectMIME(data []byte, name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}

	return http.DetectContentType(data)
}
