package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"devault/tasks/core"
	"devault/tasks/pkg/res"
)

// WriteErr answers a failed service call. JSON clients get {"error": ...},
// browsers a plain-text page.
func WriteErr(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	code, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, core.ErrTaskInvalidArgs):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrTaskNotFound):
		code, msg = http.StatusNotFound, err.Error()
	default:
		log.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	if res.WantsJSON(r) {
		res.Error(w, msg, code)
		return
	}
	http.Error(w, msg, code)
}
