package rest

import (
	"encoding/json"
	"sort"
	"time"

	"devault/tasks/core"
)

type AppOut struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
	Icon string `json:"icon"`
}

type TaskOut struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	DueDate        string    `json:"due_date"` // YYYY-MM-DD
	Status         string    `json:"status"`
	AppURI         *string   `json:"app_uri"`
	App            *AppOut   `json:"app,omitempty"` // nil when app_uri is unset or unknown
	CodeSnippet    *string   `json:"code_snippet"`
	GitBranch      *string   `json:"git_branch"`
	GitHubUsername *string   `json:"github_username"`
	GitHubRepo     *string   `json:"github_repo"`
	GitHubURL      string    `json:"github_url,omitempty"`
	VersionInfo    *string   `json:"version_info"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListOut struct {
	Tasks []TaskOut `json:"tasks"`
	Apps  []AppOut  `json:"apps"`
}

func AppToOut(a core.App) AppOut {
	return AppOut{Name: a.Name, URI: a.URI, Icon: a.Icon}
}

func AppsToOut(apps []core.App) []AppOut {
	out := make([]AppOut, 0, len(apps))
	for _, a := range apps {
		out = append(out, AppToOut(a))
	}
	return out
}

// TaskToOut converts a task; resolve looks its app up and may be nil.
func TaskToOut(t core.Task, resolve func(string) (core.App, bool)) TaskOut {
	out := TaskOut{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		DueDate:        t.DueDateString(),
		Status:         string(t.Status),
		AppURI:         t.AppURI,
		CodeSnippet:    t.CodeSnippet,
		GitBranch:      t.GitBranch,
		GitHubUsername: t.GitHubUsername,
		GitHubRepo:     t.GitHubRepo,
		VersionInfo:    t.VersionInfo,
		CreatedAt:      t.CreatedAt,
	}
	if t.AppURI != nil && resolve != nil {
		if app, ok := resolve(*t.AppURI); ok {
			a := AppToOut(app)
			out.App = &a
		}
	}
	if url, ok := t.GitHubURL(); ok {
		out.GitHubURL = url
	}
	return out
}

type VersionEntry struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
}

// ParseVersionInfo reads the version blob for display. The form submits a
// list of {tool, version}; a plain {"tool": "version"} object is accepted too.
// Anything else yields no entries.
func ParseVersionInfo(raw *string) []VersionEntry {
	if raw == nil {
		return nil
	}

	var list []VersionEntry
	if err := json.Unmarshal([]byte(*raw), &list); err == nil {
		out := list[:0]
		for _, e := range list {
			if e.Tool != "" && e.Version != "" {
				out = append(out, e)
			}
		}
		return out
	}

	var obj map[string]string
	if err := json.Unmarshal([]byte(*raw), &obj); err == nil {
		out := make([]VersionEntry, 0, len(obj))
		for tool, version := range obj {
			out = append(out, VersionEntry{Tool: tool, Version: version})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Tool < out[j].Tool })
		return out
	}

	return nil
}
