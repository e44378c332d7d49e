package model

import "time"

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

type Task struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Status       string    `db:"status" json:"status"`
	ProjectID    int64     `db:"project_id" json:"project_id"`
	AssigneeID   *int64    `db:"assignee_id" json:"assignee_id"`
	AssigneeName *string   `db:"assignee_name" json:"assignee_name,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type TaskFilter struct {
	ProjectID *int64
}

type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	AssigneeID  *int64
}
