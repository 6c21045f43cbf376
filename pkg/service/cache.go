package service

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
)

// Cache сброс разобранных манифестов: список пакетов через запятую или all
func (s *service) Cache(ctx context.Context, in model.ServiceCacheIn) (out model.RestStatus, err error) {
	defer s.monitoringTimingService("Cache", time.Now())

	count := s.cache.Clear(in.Link)
	out.Code = "OK"
	out.Status = http.StatusOK
	out.Description = "Deleted " + strconv.Itoa(count) + " objects in cache"

	return out, nil
}
