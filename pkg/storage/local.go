package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/internal/utils"
)

type local struct {
	root string
}

// NewLocal хранилище в каталоге root
func NewLocal(root string) (Storage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve storage dir %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "storage dir %s", abs)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("storage dir %s is not a directory", abs)
	}

	return &local{root: abs}, nil
}

func (l *local) file(p string) (string, error) {
	clean, err := utils.CleanRelativePath(p)
	if err != nil {
		return "", err
	}

	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *local) Read(ctx context.Context, p string) (data []byte, mimeType string, err error) {
	reader, err := l.ReadCloser(ctx, p)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		err = multierr.Append(err, reader.Close())
	}()

	data, err = io.ReadAll(reader)
	if err != nil {
		return nil, "", errors.Wrapf(err, "read %s", p)
	}

	return data, DetectMIME(data, p), nil
}

func (l *local) ReadCloser(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := l.file(p)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, p)
		}
		return nil, errors.Wrapf(err, "open %s", p)
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		_ = f.Close()
		return nil, errors.Wrap(ErrNotFound, p)
	}

	return f, nil
}

// Write запись через временный файл, читатели не видят частично записанных данных
func (l *local) Write(ctx context.Context, p string, data []byte) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	name, err := l.file(p)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return errors.Wrapf(err, "create dir for %s", p)
	}

	tmp, err := os.CreateTemp(filepath.Dir(name), ".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "create temp for %s", p)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, os.Remove(tmp.Name()))
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "write %s", p)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", p)
	}

	return errors.Wrapf(os.Rename(tmp.Name(), name), "rename %s", p)
}

func (l *local) Close() error {
	return nil
}
