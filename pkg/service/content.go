package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

// Content файл пакета из хранилища
func (s *service) Content(ctx context.Context, in model.ContentIn) (out model.ContentOut, err error) {
	defer s.monitoringTimingService("Content", time.Now())
	defer func() { s.monitoringError("Content", err) }()

	p, err := storage.PackagePath(in.PackageID, in.Path)
	if err != nil {
		return out, errors.Wrap(ErrBadRequest, err.Error())
	}
	if isProgressPath(in.PackageID, p) {
		return out, errors.Wrap(storage.ErrNotFound, p)
	}

	out.Body, out.MimeType, err = s.storage.Read(ctx, p)

	return out, err
}
