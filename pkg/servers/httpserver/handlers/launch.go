package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/model"
)

const formatJSON = "json"

// Launch переход к учебному объекту пункта: 302 на адрес файла, ?format=json отдает описание
// @Router /course/{package}/launch/{item} [get]
func (h *handlers) Launch(w http.ResponseWriter, r *http.Request) {
	in, err := launchDecodeRequest(r.Context(), r)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Launch] error exec launchDecodeRequest")
		return
	}

	serviceResult, err := h.service.Launch(r.Context(), in)
	if err != nil {
		_ = h.transportError(r.Context(), w, StatusCode(err), err, "[Launch] error exec service.Launch")
		return
	}

	if r.FormValue("format") != formatJSON {
		http.Redirect(w, r, serviceResult.URL, http.StatusFound)
		return
	}

	if err = h.transportResponse(w, serviceResult); err != nil {
		_ = h.transportError(r.Context(), w, http.StatusInternalServerError, err, "[Launch] error exec transportResponse")
	}
}

func launchDecodeRequest(ctx context.Context, r *http.Request) (in model.LaunchIn, err error) {
	vars := mux.Vars(r)
	in.PackageID = vars["package"]
	in.ItemID = vars["item"]
	if in.PackageID == "" {
		err = errMissingParam("package")
	}

	return in, err
}
