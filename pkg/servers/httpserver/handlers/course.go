package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/manifest"
	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
)

// Course манифест и навигация пакета
// @Router /course/{package} [get]
func (h *handlers) Course(w http.ResponseWriter, r *http.Request) {
	in, err := courseDecodeRequest(r.Context(), r)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Course] error exec courseDecodeRequest")
		return
	}

	serviceResult, err := h.service.Course(r.Context(), in)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Course] error exec service.Course")
		return
	}

	if err = h.transportResponse(w, serviceResult); err != nil {
		_ = h.transportError(r.Context(), w, http.StatusInternalServerError, err, "[Course] error exec transportResponse")
	}
}

// Manifest каноническая JSON-форма манифеста
// @Router /course/{package}/manifest [get]
func (h *handlers) Manifest(w http.ResponseWriter, r *http.Request) {
	in, err := courseDecodeRequest(r.Context(), r)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Manifest] error exec courseDecodeRequest")
		return
	}

	serviceResult, err := h.service.Course(r.Context(), in)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Manifest] error exec service.Course")
		return
	}

	response, err := manifestEncodeResponse(r.Context(), serviceResult)
	if err != nil {
		_ = h.transportError(r.Context(), w, http.StatusInternalServerError, err, "[Manifest] error exec manifestEncodeResponse")
		return
	}

	if err = h.transportByte(w, "application/json; charset=utf-8", response); err != nil {
		_ = h.transportError(r.Context(), w, http.StatusInternalServerError, err, "[Manifest] error exec transportByte")
	}
}

func courseDecodeRequest(ctx context.Context, r *http.Request) (in model.CourseIn, err error) {
	in.PackageID = mux.Vars(r)["package"]
	if in.PackageID == "" {
		err = errMissingParam("package")
	}

	return in, err
}

func manifestEncodeResponse(ctx context.Context, serviceResult model.CourseOut) (response []byte, err error) {
	return manifest.Canonical(serviceResult.Manifest)
}
