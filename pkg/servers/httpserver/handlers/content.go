package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
)

// Content файлы пакета: {prefix}/{package}/{path}
func (h *handlers) Content(w http.ResponseWriter, r *http.Request) {
	in, err := contentDecodeRequest(r.Context(), r)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Content] error exec contentDecodeRequest")
		return
	}

	serviceResult, err := h.service.Content(r.Context(), in)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Content] error exec service.Content")
		return
	}

	if err = h.transportByte(w, serviceResult.MimeType, serviceResult.Body); err != nil {
		_ = h.transportError(r.Context(), w, http.StatusInternalServerError, err, "[Content] error exec transportByte")
	}
}

func contentDecodeRequest(ctx context.Context, r *http.Request) (in model.ContentIn, err error) {
	vars := mux.Vars(r)
	in.PackageID = vars["package"]
	in.Path = vars["path"]
	if in.PackageID == "" || in.Path == "" {
		err = errMissingParam("path")
	}

	return in, err
}
