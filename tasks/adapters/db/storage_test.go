package db_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"devault/tasks/adapters/db"
	"devault/tasks/core"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage, err := db.New(log, db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })

	if err := storage.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return storage
}

func date(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse(core.DateLayout, s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func strPtr(v string) *string {
	return &v
}

func mustCreate(t *testing.T, storage *db.DB, title, due string) core.Task {
	t.Helper()

	task, err := storage.CreateTask(context.Background(), core.NewTask{Title: title, DueDate: date(t, due)})
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return task
}

func TestDBCreateTask_RoundTrip(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)

	created, err := storage.CreateTask(context.Background(), core.NewTask{
		Title:          "Fix bug",
		Description:    strPtr("crash on save"),
		DueDate:        date(t, "2024-03-01"),
		AppURI:         strPtr("vscode://"),
		CodeSnippet:    strPtr("if err != nil {\n\treturn err\n}"),
		GitBranch:      strPtr("fix/save-crash"),
		GitHubUsername: strPtr("octocat"),
		GitHubRepo:     strPtr("hello-world"),
		VersionInfo:    strPtr(`{"go":"1.24","os":"linux"}`),
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	if created.ID <= 0 {
		t.Fatalf("expected positive id, got %d", created.ID)
	}
	if created.Status != core.StatusTODO {
		t.Fatalf("expected default status todo, got %q", created.Status)
	}
	if created.DueDateString() != "2024-03-01" {
		t.Fatalf("expected due date 2024-03-01, got %s", created.DueDateString())
	}
	if created.CodeSnippet == nil || *created.CodeSnippet != "if err != nil {\n\treturn err\n}" {
		t.Fatalf("unexpected code snippet %v", created.CodeSnippet)
	}
	if created.VersionInfo == nil || *created.VersionInfo != `{"go":"1.24","os":"linux"}` {
		t.Fatalf("unexpected version info %v", created.VersionInfo)
	}

	got, err := storage.GetTask(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if got.Title != "Fix bug" || got.GitBranch == nil || *got.GitBranch != "fix/save-crash" {
		t.Fatalf("unexpected stored task %+v", got)
	}
}

func TestDBCreateTask_AbsentFieldsStayNull(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)
	task := mustCreate(t, storage, "bare", "2024-03-01")

	if task.Description != nil || task.AppURI != nil || task.CodeSnippet != nil || task.GitBranch != nil ||
		task.GitHubUsername != nil || task.GitHubRepo != nil || task.VersionInfo != nil {
		t.Fatalf("expected absent optional fields, got %+v", task)
	}
}

func TestDBCreateTask_InvalidArgs(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)

	testCases := []struct {
		name string
		in   core.NewTask
	}{
		{name: "empty_title", in: core.NewTask{Title: " ", DueDate: date(t, "2024-03-01")}},
		{name: "zero_due_date", in: core.NewTask{Title: "task"}},
		{name: "title_over_limit", in: core.NewTask{Title: strings.Repeat("x", core.MaxTitleLen+1), DueDate: date(t, "2024-03-01")}},
		{name: "branch_over_limit", in: core.NewTask{Title: "task", DueDate: date(t, "2024-03-01"), GitBranch: strPtr(strings.Repeat("b", core.MaxGitBranchLen+1))}},
	}

	for _, tc := range testCases {
		_, err := storage.CreateTask(context.Background(), tc.in)
		if !errors.Is(err, core.ErrTaskInvalidArgs) {
			t.Fatalf("%s: expected ErrTaskInvalidArgs, got %v", tc.name, err)
		}
	}

	n, err := storage.CountTasks(context.Background())
	if err != nil {
		t.Fatalf("CountTasks returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected nothing stored, got %d", n)
	}
}

func TestDBListTasks_OrderedByDueDateThenInsertion(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)

	mustCreate(t, storage, "may", "2024-05-01")
	mustCreate(t, storage, "april", "2024-04-01")
	mustCreate(t, storage, "may second", "2024-05-01")
	mustCreate(t, storage, "december last year", "2023-12-31")
	mustCreate(t, storage, "may third", "2024-05-01")

	tasks, err := storage.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}

	want := []string{"december last year", "april", "may", "may second", "may third"}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Fatalf("position %d: expected %q, got %q", i, title, tasks[i].Title)
		}
	}
}

func TestDBListTasks_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)

	tasks, err := storage.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestDBListTasks_FreshSlicePerCall(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)
	mustCreate(t, storage, "task", "2024-03-01")

	first, err := storage.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	first[0].Title = "mutated"

	second, err := storage.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if second[0].Title != "task" {
		t.Fatalf("expected an independent result, got %q", second[0].Title)
	}
}

func TestDBUpdateTaskStatus(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)
	task := mustCreate(t, storage, "task", "2024-03-01")

	updated, err := storage.UpdateTaskStatus(context.Background(), task.ID, core.StatusDone)
	if err != nil {
		t.Fatalf("UpdateTaskStatus returned error: %v", err)
	}
	if updated.Status != core.StatusDone {
		t.Fatalf("expected done, got %q", updated.Status)
	}

	if _, err := storage.UpdateTaskStatus(context.Background(), task.ID, core.TaskStatus("archived")); !errors.Is(err, core.ErrTaskInvalidArgs) {
		t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
	}

	if _, err := storage.UpdateTaskStatus(context.Background(), task.ID+100, core.StatusTODO); !errors.Is(err, core.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDBDeleteTask(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)
	keep := mustCreate(t, storage, "keep", "2024-03-01")
	drop := mustCreate(t, storage, "drop", "2024-03-02")

	if err := storage.DeleteTask(context.Background(), drop.ID); err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}
	if _, err := storage.GetTask(context.Background(), drop.ID); !errors.Is(err, core.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if err := storage.DeleteTask(context.Background(), drop.ID); !errors.Is(err, core.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}
	if _, err := storage.GetTask(context.Background(), keep.ID); err != nil {
		t.Fatalf("expected other task to survive, got %v", err)
	}
}

func TestDBDeleteTask_IDNotReused(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)
	last := mustCreate(t, storage, "last", "2024-03-01")

	if err := storage.DeleteTask(context.Background(), last.ID); err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}

	next := mustCreate(t, storage, "next", "2024-03-01")
	if next.ID <= last.ID {
		t.Fatalf("expected id greater than %d, got %d", last.ID, next.ID)
	}
}

func TestDBMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	storage := newTestDB(t)
	mustCreate(t, storage, "task", "2024-03-01")

	if err := storage.Migrate(); err != nil {
		t.Fatalf("second Migrate returned error: %v", err)
	}
	n, err := storage.CountTasks(context.Background())
	if err != nil {
		t.Fatalf("CountTasks returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected data to survive, got %d tasks", n)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := db.New(log, "mysql", "x"); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
