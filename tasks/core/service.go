package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

type Service struct {
	log  *slog.Logger
	db   DB
	apps *AppRegistry

	// serializes writes
	mu sync.Mutex
}

func NewService(log *slog.Logger, db DB, apps *AppRegistry) *Service {
	return &Service{
		log:  log,
		db:   db,
		apps: apps,
	}
}

// Apps

func (s *Service) Apps() []App {
	return s.apps.All()
}

// ResolveApp finds the application a task points at. A miss is an ordinary
// outcome: the registry may have changed since the task was created.
func (s *Service) ResolveApp(uri string) (App, bool) {
	return s.apps.FindByURI(uri)
}

// Tasks

func (s *Service) AddTask(ctx context.Context, in TaskInput) (Task, error) {
	nt, err := normalizeInput(in)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.db.CreateTask(ctx, nt)
	if err != nil {
		return Task{}, err
	}
	s.log.Info("task created", "task_id", t.ID, "title", t.Title)
	return t, nil
}

func (s *Service) GetTask(ctx context.Context, id int64) (Task, error) {
	if id <= 0 {
		return Task{}, ErrTaskInvalidArgs
	}
	return s.db.GetTask(ctx, id)
}

func (s *Service) ListTasks(ctx context.Context) ([]Task, error) {
	return s.db.ListTasks(ctx)
}

// Toggle flips the task between todo and done.
func (s *Service) Toggle(ctx context.Context, id int64) (Task, error) {
	if id <= 0 {
		return Task{}, ErrTaskInvalidArgs
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.db.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}

	updated, err := s.db.UpdateTaskStatus(ctx, id, cur.Status.Toggled())
	if err != nil {
		return Task{}, err
	}

	if updated.Done() {
		s.log.Info("task marked as done", "task_id", id, "title", updated.Title)
	} else {
		s.log.Info("task unmarked", "task_id", id, "title", updated.Title)
	}
	return updated, nil
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrTaskInvalidArgs
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.db.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.log.Info("task deleted", "task_id", id, "title", cur.Title)
	return nil
}

func (s *Service) CountTasks(ctx context.Context) (int, error) {
	return s.db.CountTasks(ctx)
}

// helpers

func normalizeInput(in TaskInput) (NewTask, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return NewTask{}, fmt.Errorf("%w: title is required", ErrTaskInvalidArgs)
	}

	due, err := ParseDueDate(in.DueDate)
	if err != nil {
		return NewTask{}, err
	}

	nt := NewTask{
		Title:          title,
		Description:    optional(in.Description),
		DueDate:        due,
		AppURI:         optional(in.AppURI),
		CodeSnippet:    optional(in.CodeSnippet),
		GitBranch:      optional(in.GitBranch),
		GitHubUsername: optional(in.GitHubUsername),
		GitHubRepo:     optional(in.GitHubRepo),
		VersionInfo:    optional(in.VersionInfo),
	}

	limits := []struct {
		field string
		value *string
		max   int
	}{
		{"title", &nt.Title, MaxTitleLen},
		{"app_uri", nt.AppURI, MaxAppURILen},
		{"git_branch", nt.GitBranch, MaxGitBranchLen},
		{"github_username", nt.GitHubUsername, MaxGitHubLen},
		{"github_repo", nt.GitHubRepo, MaxGitHubLen},
	}
	for _, l := range limits {
		if l.value != nil && utf8.RuneCountInString(*l.value) > l.max {
			return NewTask{}, fmt.Errorf("%w: %s longer than %d characters", ErrTaskInvalidArgs, l.field, l.max)
		}
	}

	return nt, nil
}

// ParseDueDate accepts exactly the YYYY-MM-DD calendar form.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: due_date is required", ErrTaskInvalidArgs)
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due_date %q is not YYYY-MM-DD", ErrTaskInvalidArgs, s)
	}
	return d, nil
}

// optional maps an empty submission to an absent value.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
