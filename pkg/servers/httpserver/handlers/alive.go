package handlers

import (
	"context"
	"net/http"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
)

// Alive состояние сервиса
// @Router /alive [get]
func (h *handlers) Alive(w http.ResponseWriter, r *http.Request) {
	serviceResult, err := h.service.Alive(r.Context())
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Alive] error exec service.Alive")
		return
	}

	response, _ := aliveEncodeResponse(r.Context(), serviceResult)
	if err = h.transportResponse(w, response); err != nil {
		_ = h.transportError(r.Context(), w, http.StatusInternalServerError, err, "[Alive] error exec transportResponse")
	}
}

func aliveEncodeResponse(ctx context.Context, serviceResult model.AliveOut) (response model.Response, err error) {
	response.Data = serviceResult
	response.Status.Status = http.StatusOK
	response.Status.Code = "OK"

	return response, err
}
