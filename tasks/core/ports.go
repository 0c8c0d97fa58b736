package core

import "context"

// DB is the task store.
type DB interface {
	CreateTask(ctx context.Context, t NewTask) (Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	// ListTasks returns every task by due date ascending, ties in insertion order.
	ListTasks(ctx context.Context) ([]Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status TaskStatus) (Task, error)
	DeleteTask(ctx context.Context, id int64) error
	CountTasks(ctx context.Context) (int, error)
}

// Tasks is what the presentation layer needs from the service.
type Tasks interface {
	AddTask(ctx context.Context, in TaskInput) (Task, error)
	ListTasks(ctx context.Context) ([]Task, error)
	Toggle(ctx context.Context, id int64) (Task, error)
	Remove(ctx context.Context, id int64) error
	ResolveApp(uri string) (App, bool)
	Apps() []App
}
