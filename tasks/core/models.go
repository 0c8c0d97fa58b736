package core

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted form of a due date literal.
const DateLayout = time.DateOnly

type TaskStatus string

const (
	StatusTODO TaskStatus = "todo"
	StatusDone TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	return s == StatusTODO || s == StatusDone
}

// Toggled returns the other state. Anything that is not done flips to done.
func (s TaskStatus) Toggled() TaskStatus {
	if s == StatusDone {
		return StatusTODO
	}
	return StatusDone
}

// Column limits shared by validation and the migrations.
const (
	MaxTitleLen     = 100
	MaxAppURILen    = 200
	MaxGitBranchLen = 200
	MaxGitHubLen    = 100
)

type Task struct {
	ID             int64      `db:"id"`
	Title          string     `db:"title"`
	Description    *string    `db:"description"`
	DueDate        time.Time  `db:"due_date"`
	Status         TaskStatus `db:"status"`
	AppURI         *string    `db:"app_uri"`
	CodeSnippet    *string    `db:"code_snippet"`
	GitBranch      *string    `db:"git_branch"`
	GitHubUsername *string    `db:"github_username"`
	GitHubRepo     *string    `db:"github_repo"`
	VersionInfo    *string    `db:"version_info"` // opaque, never parsed here
	CreatedAt      time.Time  `db:"created_at"`
}

// DueDateString formats the due date back into its YYYY-MM-DD literal.
func (t Task) DueDateString() string {
	return t.DueDate.Format(DateLayout)
}

func (t Task) Done() bool {
	return t.Status == StatusDone
}

// GitHubURL links to the repository when both owner and repo are set.
func (t Task) GitHubURL() (string, bool) {
	if t.GitHubUsername == nil || t.GitHubRepo == nil {
		return "", false
	}
	return fmt.Sprintf("https://github.com/%s/%s", *t.GitHubUsername, *t.GitHubRepo), true
}

// NewTask is a validated, normalized task ready to be stored.
type NewTask struct {
	Title          string
	Description    *string
	DueDate        time.Time
	AppURI         *string
	CodeSnippet    *string
	GitBranch      *string
	GitHubUsername *string
	GitHubRepo     *string
	VersionInfo    *string
}

// TaskInput holds the raw submitted values of the creation form.
type TaskInput struct {
	Title          string
	Description    string
	DueDate        string
	AppURI         string
	CodeSnippet    string
	GitBranch      string
	GitHubUsername string
	GitHubRepo     string
	VersionInfo    string
}

type App struct {
	Name string
	URI  string
	Icon string
}
