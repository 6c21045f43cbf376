package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/service"
)

// SessionStart сессия учащегося в пакете. Тело запроса необязательно:
// {"session": "...", "learner_id": "...", "learner_name": "...", "launch_data": "..."}
// @Router /course/{package}/session [post]
func (h *handlers) SessionStart(w http.ResponseWriter, r *http.Request) {
	in, err := h.sessionStartDecodeRequest(r.Context(), w, r)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[SessionStart] error exec sessionStartDecodeRequest")
		return
	}

	serviceResult, err := h.service.SessionStart(r.Context(), in)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[SessionStart] error exec service.SessionStart")
		return
	}

	if err = h.transportResponse(w, serviceResult); err != nil {
		_ = h.transportError(r.Context(), w, http.StatusInternalServerError, err, "[SessionStart] error exec transportResponse")
	}
}

// SessionCall вызов метода API: тело {"args": [...]}, скалярные аргументы приводятся к строке
// @Router /session/{session}/{call} [post]
func (h *handlers) SessionCall(w http.ResponseWriter, r *http.Request) {
	in, err := h.sessionCallDecodeRequest(r.Context(), w, r)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[SessionCall] error exec sessionCallDecodeRequest")
		return
	}

	serviceResult, err := h.service.SessionCall(r.Context(), in)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[SessionCall] error exec service.SessionCall")
		return
	}

	if err = h.transportResponse(w, serviceResult); err != nil {
		_ = h.transportError(r.Context(), w, http.StatusInternalServerError, err, "[SessionCall] error exec transportResponse")
	}
}

func (h *handlers) body(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	reader := io.Reader(r.Body)
	if limit := h.cfg.MaxRequestBodySize.Value; limit > 0 {
		reader = http.MaxBytesReader(w, r.Body, int64(limit))
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(service.ErrBadRequest, err.Error())
	}

	return data, nil
}

func (h *handlers) sessionStartDecodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (in model.SessionStartIn, err error) {
	data, err := h.body(w, r)
	if err != nil {
		return in, err
	}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err = json.Unmarshal(data, &in); err != nil {
			return in, errors.Wrap(service.ErrBadRequest, err.Error())
		}
	}

	in.PackageID = mux.Vars(r)["package"]
	if in.SessionID == "" {
		in.SessionID = r.FormValue("session")
	}

	return in, nil
}

func (h *handlers) sessionCallDecodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (in model.SessionCallIn, err error) {
	vars := mux.Vars(r)
	in.SessionID = vars["session"]
	in.Method = vars["call"]
	in.Args = []string{}

	data, err := h.body(w, r)
	if err != nil {
		return in, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return in, nil
	}

	in.Args, err = decodeArgs(data)

	return in, err
}

// decodeArgs аргументы вызова: строки как есть, числа и логические значения в текстовом виде
func decodeArgs(data []byte) ([]string, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(service.ErrBadRequest, err.Error())
	}

	args := v.GetArray("args")
	result := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg.Type() {
		case fastjson.TypeString:
			result = append(result, string(arg.GetStringBytes()))
		case fastjson.TypeNull:
			result = append(result, "")
		case fastjson.TypeNumber, fastjson.TypeTrue, fastjson.TypeFalse:
			result = append(result, arg.String())
		default:
			return nil, errors.Wrapf(service.ErrBadRequest, "unsupported argument %s", arg.Type())
		}
	}

	return result, nil
}
