package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"devault/tasks/adapters/rest"
	"devault/tasks/core"
	"devault/tasks/pkg/res"
)

func NewListTasksHandler(log *slog.Logger, svc core.Tasks, page *Page, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListTasks(ctx)
		if err != nil {
			rest.WriteErr(w, r, log, err)
			return
		}

		out := make([]rest.TaskOut, 0, len(items))
		for _, t := range items {
			out = append(out, rest.TaskToOut(t, svc.ResolveApp))
		}
		apps := rest.AppsToOut(svc.Apps())

		if res.WantsJSON(r) {
			res.Json(w, rest.ListOut{Tasks: out, Apps: apps}, http.StatusOK)
			return
		}

		if err := page.Render(w, out, apps); err != nil {
			log.Error("render page", "error", err)
		}
	}
}

func NewCreateTaskHandler(log *slog.Logger, svc core.Tasks, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := core.TaskInput{
			Title:          r.FormValue("title"),
			Description:    r.FormValue("description"),
			DueDate:        r.FormValue("due_date"),
			AppURI:         r.FormValue("app_uri"),
			CodeSnippet:    r.FormValue("code_snippet"),
			GitBranch:      r.FormValue("git_branch"),
			GitHubUsername: r.FormValue("github_username"),
			GitHubRepo:     r.FormValue("github_repo"),
			VersionInfo:    r.FormValue("version_info"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.AddTask(ctx, in)
		if err != nil {
			rest.WriteErr(w, r, log, err)
			return
		}

		if res.WantsJSON(r) {
			res.Json(w, rest.TaskToOut(t, svc.ResolveApp), http.StatusCreated)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func NewToggleTaskHandler(log *slog.Logger, svc core.Tasks, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.Toggle(ctx, id)
		if err != nil {
			rest.WriteErr(w, r, log, err)
			return
		}

		if res.WantsJSON(r) {
			res.Json(w, rest.TaskToOut(t, svc.ResolveApp), http.StatusOK)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func NewDeleteTaskHandler(log *slog.Logger, svc core.Tasks, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.Remove(ctx, id); err != nil {
			rest.WriteErr(w, r, log, err)
			return
		}

		if res.WantsJSON(r) {
			res.Json(w, map[string]any{"ok": true}, http.StatusOK)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		if res.WantsJSON(r) {
			res.Error(w, "invalid id", http.StatusBadRequest)
		} else {
			http.Error(w, "invalid id", http.StatusBadRequest)
		}
		return 0, false
	}
	return id, true
}
