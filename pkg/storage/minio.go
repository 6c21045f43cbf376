package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/internal/utils"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/s3"
)

const codeNoSuchKey = "NoSuchKey"

type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinio хранилище в бакете S3, клиент собирает director
func NewMinio(ctx context.Context, director s3.ClientS3Director[*minio.Client]) (Storage, error) {
	res, err := director.BuildS3Client(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "build s3 client")
	}

	return &minioStorage{
		client: res.Client,
		bucket: res.Bucket,
	}, nil
}

func (m *minioStorage) Read(ctx context.Context, p string) (data []byte, mimeType string, err error) {
	reader, err := m.ReadCloser(ctx, p)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		err = multierr.Append(err, reader.Close())
	}()

	data, err = io.ReadAll(reader)
	if err != nil {
		return nil, "", m.wrap(err, p)
	}

	return data, DetectMIME(data, p), nil
}

// ReadCloser объект открывается сразу, отсутствие ключа дает ErrNotFound
func (m *minioStorage) ReadCloser(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := utils.CleanRelativePath(p)
	if err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.wrap(err, p)
	}
	if _, err = obj.Stat(); err != nil {
		return nil, multierr.Append(m.wrap(err, p), obj.Close())
	}

	return obj, nil
}

func (m *minioStorage) Write(ctx context.Context, p string, data []byte) error {
	key, err := utils.CleanRelativePath(p)
	if err != nil {
		return err
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: DetectMIME(data, key),
	})
	if err != nil {
		return errors.Wrapf(err, "put %s/%s", m.bucket, key)
	}

	return nil
}

func (m *minioStorage) Close() error {
	return nil
}

func (m *minioStorage) wrap(err error, p string) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == codeNoSuchKey || resp.StatusCode == http.StatusNotFound {
		return errors.Wrap(ErrNotFound, p)
	}

	return errors.Wrapf(err, "get %s/%s", m.bucket, p)
}
