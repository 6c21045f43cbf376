package service

import (
	"context"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/internal/utils"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
)

// Alive состояние сервиса: курсы в кеше, активные сессии, конфигурация без секретов
func (s *service) Alive(ctx context.Context) (out model.AliveOut, err error) {
	cfg := s.cfg
	cfg.VfsSecretKey = utils.HideExceptFirstAndLast(cfg.VfsSecretKey)
	cfg.VfsAccessKeyID = utils.HideExceptFirstAndLast(cfg.VfsAccessKeyID)

	out.Config = cfg
	out.Courses = s.cache.Count()
	out.Sessions = s.sessions.Count()

	return out, nil
}
