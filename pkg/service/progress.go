package service

import (
	"context"
	"path"
	"strings"

	"github.com/pkg/errors"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/runtime"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

const progressDir = ".progress"

// progressStore прогресс учащихся рядом с пакетом: <package>/.progress/<session>.json
type progressStore struct {
	storage storage.Storage
}

// NewProgressStore хранилище снимков сессий поверх хранилища пакетов
func NewProgressStore(st storage.Storage) runtime.Store {
	return &progressStore{storage: st}
}

func progressPath(packageID, sessionID string) (string, error) {
	if sessionID == "" || strings.ContainsAny(sessionID, `/\`) {
		return "", errors.Wrapf(ErrBadRequest, "invalid session id %q", sessionID)
	}

	return storage.PackagePath(packageID, path.Join(progressDir, sessionID+".json"))
}

func isProgressPath(packageID, p string) bool {
	return strings.HasPrefix(p, path.Join(packageID, progressDir)+"/")
}

func (p *progressStore) Load(ctx context.Context, packageID, sessionID string) ([]byte, error) {
	name, err := progressPath(packageID, sessionID)
	if err != nil {
		return nil, err
	}

	data, _, err := p.storage.Read(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errors.Wrapf(runtime.ErrSnapshotNotFound, "%s/%s", packageID, sessionID)
	}

	return data, err
}

func (p *progressStore) Save(ctx context.Context, packageID, sessionID string, snapshot []byte) error {
	name, err := progressPath(packageID, sessionID)
	if err != nil {
		return err
	}

	return p.storage.Write(ctx, name, snapshot)
}
