package core_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"devault/tasks/core"
)

type fakeDB struct {
	mu sync.RWMutex

	nextTaskID int64
	tasks      map[int64]core.Task
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		nextTaskID: 1,
		tasks:      make(map[int64]core.Task),
	}
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTask(t core.Task) core.Task {
	out := t
	out.Description = cloneStr(t.Description)
	out.AppURI = cloneStr(t.AppURI)
	out.CodeSnippet = cloneStr(t.CodeSnippet)
	out.GitBranch = cloneStr(t.GitBranch)
	out.GitHubUsername = cloneStr(t.GitHubUsername)
	out.GitHubRepo = cloneStr(t.GitHubRepo)
	out.VersionInfo = cloneStr(t.VersionInfo)
	return out
}

func (db *fakeDB) CreateTask(_ context.Context, nt core.NewTask) (core.Task, error) {
	if strings.TrimSpace(nt.Title) == "" || nt.DueDate.IsZero() {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	id := db.nextTaskID
	db.nextTaskID++

	task := core.Task{
		ID:             id,
		Title:          nt.Title,
		Description:    nt.Description,
		DueDate:        nt.DueDate,
		Status:         core.StatusTODO,
		AppURI:         nt.AppURI,
		CodeSnippet:    nt.CodeSnippet,
		GitBranch:      nt.GitBranch,
		GitHubUsername: nt.GitHubUsername,
		GitHubRepo:     nt.GitHubRepo,
		VersionInfo:    nt.VersionInfo,
		CreatedAt:      time.Now(),
	}

	db.tasks[id] = cloneTask(task)
	return cloneTask(task), nil
}

func (db *fakeDB) GetTask(_ context.Context, id int64) (core.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	task, ok := db.tasks[id]
	if !ok {
		return core.Task{}, core.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (db *fakeDB) ListTasks(context.Context) ([]core.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]core.Task, 0, len(db.tasks))
	for _, task := range db.tasks {
		out = append(out, cloneTask(task))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (db *fakeDB) UpdateTaskStatus(_ context.Context, id int64, status core.TaskStatus) (core.Task, error) {
	if !status.Valid() {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	task, ok := db.tasks[id]
	if !ok {
		return core.Task{}, core.ErrTaskNotFound
	}

	task.Status = status
	db.tasks[id] = task
	return cloneTask(task), nil
}

func (db *fakeDB) DeleteTask(_ context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tasks[id]; !ok {
		return core.ErrTaskNotFound
	}

	delete(db.tasks, id)
	return nil
}

func (db *fakeDB) CountTasks(context.Context) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.tasks), nil
}
