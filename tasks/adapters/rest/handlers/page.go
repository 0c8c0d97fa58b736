package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"devault/tasks/adapters/rest"
)

//go:embed templates/index.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Page renders the task list together with the creation form.
type Page struct {
	tmpl *template.Template
}

type taskView struct {
	rest.TaskOut
	Done     bool
	Versions []rest.VersionEntry
}

type pageData struct {
	Tasks []taskView
	Apps  []rest.AppOut
	Todo  int
}

func NewPage() (*Page, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Page{tmpl: tmpl}, nil
}

// Render writes either the complete page or a 500.
func (p *Page) Render(w http.ResponseWriter, tasks []rest.TaskOut, apps []rest.AppOut) error {
	data := pageData{
		Tasks: make([]taskView, 0, len(tasks)),
		Apps:  apps,
	}
	for _, t := range tasks {
		v := taskView{
			TaskOut:  t,
			Done:     t.Status == "done",
			Versions: rest.ParseVersionInfo(t.VersionInfo),
		}
		if !v.Done {
			data.Todo++
		}
		data.Tasks = append(data.Tasks, v)
	}

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
