package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"devault/tasks/core"
)

func Register(mux *http.ServeMux, log *slog.Logger, svc core.Tasks, page *Page, timeout time.Duration) {
	// tasks
	mux.Handle("GET /{$}", NewListTasksHandler(log, svc, page, timeout))
	mux.Handle("POST /add_task", NewCreateTaskHandler(log, svc, timeout))
	mux.Handle("GET /toggle_task/{id}", NewToggleTaskHandler(log, svc, timeout))
	mux.Handle("GET /delete_task/{id}", NewDeleteTaskHandler(log, svc, timeout))

	// assets
	mux.Handle("GET /static/", http.FileServerFS(staticFS))
}
