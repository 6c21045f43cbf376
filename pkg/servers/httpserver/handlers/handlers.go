package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/internal/utils"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/logger"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/runtime"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/service"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/storage"
)

type handlers struct {
	service service.Service
	cfg     model.Config
}

type Handlers interface {
	Alive(w http.ResponseWriter, r *http.Request)
	Cache(w http.ResponseWriter, r *http.Request)
	Course(w http.ResponseWriter, r *http.Request)
	Manifest(w http.ResponseWriter, r *http.Request)
	Launch(w http.ResponseWriter, r *http.Request)
	Content(w http.ResponseWriter, r *http.Request)
	SessionStart(w http.ResponseWriter, r *http.Request)
	SessionCall(w http.ResponseWriter, r *http.Request)
}

// StatusCode код ответа по ошибке сервиса
func StatusCode(err error) int {
	switch {
	case errors.Is(err, manifest.ErrXMLSyntax):
		return http.StatusUnprocessableEntity
	case errors.Is(err, manifest.ErrUnresolvedReference),
		errors.Is(err, manifest.ErrEmptyReference):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, runtime.ErrSessionNotFound),
		errors.Is(err, runtime.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBadRequest),
		errors.Is(err, service.ErrUnknownMethod),
		errors.Is(err, utils.ErrUnsafePath):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) transportResponse(w http.ResponseWriter, response interface{}) (err error) {
	d, err := json.Marshal(response)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(d)

	return err
}

func (h *handlers) transportError(ctx context.Context, w http.ResponseWriter, code int, err error, message string) error {
	var res = model.Response{}

	res.Status.Error = err
	res.Status.Status = code
	res.Status.Description = message
	res.Status.Code = http.StatusText(code)

	if code >= http.StatusInternalServerError {
		logger.Error(ctx, message, zap.Error(err))
	} else {
		logger.Info(ctx, message, zap.Error(err), zap.Int("status", code))
	}

	d, e := json.Marshal(res)
	if e != nil {
		return e
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, e = w.Write(d)

	return e
}

func (h *handlers) transportByte(w http.ResponseWriter, mimeType string, response []byte) (err error) {
	if mimeType != "" {
		w.Header().Set("Content-Type", mimeType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(response)))
	w.Header().Set("Accept-Ranges", "bytes")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(response)

	return err
}

func New(
	service service.Service,
	cfg model.Config,
) Handlers {
	return &handlers{
		service,
		cfg,
	}
}

func errMissingParam(name string) error {
	return errors.Wrapf(service.ErrBadRequest, "missing parameter %s", name)
}
