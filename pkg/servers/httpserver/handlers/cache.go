package handlers

import (
	"context"
	"net/http"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
)

// Cache clear
// ?links=..... (,) - пакеты
// ?links=all - clear full cache
// @Router /tools/cacheclear [get]
func (h *handlers) Cache(w http.ResponseWriter, r *http.Request) {
	in, err := cacheDecodeRequest(r.Context(), r)
	if err != nil {
		_ = h.transportError(r.Context(), w, http.StatusBadRequest, err, "[Cache] error exec cacheDecodeRequest")
		return
	}

	serviceResult, err := h.service.Cache(r.Context(), in)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Cache] error exec service.Cache")
		return
	}

	if err = h.transportResponse(w, serviceResult); err != nil {
		_ = h.transportError(r.Context(), w, http.StatusInternalServerError, err, "[Cache] error exec transportResponse")
	}
}

func cacheDecodeRequest(ctx context.Context, r *http.Request) (in model.ServiceCacheIn, err error) {
	in.Link = r.FormValue("link")
	if in.Link == "" {
		in.Link = r.FormValue("links")
	}
	if in.Link == "" {
		err = errMissingParam("links")
	}

	return in, err
}
