package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"devault/tasks/core"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DB struct {
	log     *slog.Logger
	conn    *sqlx.DB
	dialect string
}

// New opens the task database. driver is "sqlite" (address is a file path or
// ":memory:") or "postgres" (address is a connection URL).
func New(log *slog.Logger, driver, address string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		return newSQLite(log, address)
	case DriverPostgres:
		return newPostgres(log, address)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

func newSQLite(log *slog.Logger, address string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", address)
	conn, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		log.Error("connection problem", "address", address, "error", err)
		return nil, err
	}
	// one writer; also keeps a ":memory:" database alive between calls
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	return &DB{log: log, conn: conn, dialect: DriverSQLite}, nil
}

func newPostgres(log *slog.Logger, address string) (*DB, error) {
	conn, err := sqlx.Connect("pgx", address)
	if err != nil {
		log.Error("connection problem", "address", address, "error", err)
		return nil, err
	}
	return &DB{log: log, conn: conn, dialect: DriverPostgres}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

const taskColumns = `id, title, description, due_date, status, app_uri, code_snippet,
	git_branch, github_username, github_repo, version_info, created_at`

func (db *DB) CreateTask(ctx context.Context, nt core.NewTask) (core.Task, error) {
	nt.Title = strings.TrimSpace(nt.Title)
	if nt.Title == "" || nt.DueDate.IsZero() {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	q := db.conn.Rebind(`
		INSERT INTO tasks(title, description, due_date, status, app_uri, code_snippet,
			git_branch, github_username, github_repo, version_info)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id;
	`)

	var id int64
	err := db.conn.QueryRowxContext(ctx, q,
		nt.Title, nt.Description, nt.DueDate.Format(core.DateLayout), string(core.StatusTODO),
		nt.AppURI, nt.CodeSnippet, nt.GitBranch, nt.GitHubUsername, nt.GitHubRepo, nt.VersionInfo,
	).Scan(&id)
	if err != nil {
		if isConstraintViolation(err) {
			return core.Task{}, fmt.Errorf("%w: %v", core.ErrTaskInvalidArgs, err)
		}
		return core.Task{}, fmt.Errorf("insert task: %w", err)
	}

	return db.GetTask(ctx, id)
}

func (db *DB) GetTask(ctx context.Context, id int64) (core.Task, error) {
	q := db.conn.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}
	return normalizeDates(t), nil
}

func (db *DB) ListTasks(ctx context.Context) ([]core.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks ORDER BY due_date ASC, id ASC`

	out := []core.Task{}
	if err := db.conn.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	for i := range out {
		out[i] = normalizeDates(out[i])
	}
	return out, nil
}

func (db *DB) UpdateTaskStatus(ctx context.Context, id int64, status core.TaskStatus) (core.Task, error) {
	if !status.Valid() {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	q := db.conn.Rebind(`UPDATE tasks SET status = ? WHERE id = ?`)

	res, err := db.conn.ExecContext(ctx, q, string(status), id)
	if err != nil {
		if isConstraintViolation(err) {
			return core.Task{}, fmt.Errorf("%w: %v", core.ErrTaskInvalidArgs, err)
		}
		return core.Task{}, fmt.Errorf("update task status: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.Task{}, core.ErrTaskNotFound
	}

	return db.GetTask(ctx, id)
}

func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	q := db.conn.Rebind(`DELETE FROM tasks WHERE id = ?`)

	res, err := db.conn.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrTaskNotFound
	}
	return nil
}

func (db *DB) CountTasks(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM tasks`); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// normalizeDates drops the time-of-day and location drivers attach to a DATE.
func normalizeDates(t core.Task) core.Task {
	y, m, d := t.DueDate.Date()
	t.DueDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return t
}

// constraint helpers

func isConstraintViolation(err error) bool {
	return isCheckViolation(err) || isStringTooLong(err) || isNotNullViolation(err) || isSQLiteConstraint(err)
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

func isNotNullViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23502"
}

func isStringTooLong(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22001"
}

func isSQLiteConstraint(err error) bool {
	var liteErr sqlite3.Error
	return errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint
}
